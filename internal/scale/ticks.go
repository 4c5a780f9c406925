package scale

import "math"

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// jsRound rounds half up, which differs from math.Round for negative halves.
func jsRound(x float64) float64 {
	return math.Floor(x + 0.5)
}

func tickSpec(start, stop float64, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = jsRound(start * inc)
		i2 = jsRound(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = jsRound(start / inc)
		i2 = jsRound(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

// TickIncrement returns the tick step for [start, stop], encoded the way
// d3 does: a negative result -k means a step of 1/k.
func TickIncrement(start, stop float64, count int) float64 {
	if count <= 0 || start == stop {
		return 0
	}
	_, _, inc := tickSpec(start, stop, float64(count))
	return inc
}

// Ticks returns about count round values spanning [start, stop],
// matching d3.ticks.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	var i1, i2, inc float64
	if reverse {
		i1, i2, inc = tickSpec(stop, start, float64(count))
	} else {
		i1, i2, inc = tickSpec(start, stop, float64(count))
	}
	if !(i2 >= i1) {
		return nil
	}
	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := range out {
		k := i1 + float64(i)
		if reverse {
			k = i2 - float64(i)
		}
		if inc < 0 {
			out[i] = k / -inc
		} else {
			out[i] = k * inc
		}
	}
	return out
}

// Nice extends [lo, hi] outward to tick boundaries, matching d3's
// linear.nice. Reversed domains stay reversed.
func Nice(lo, hi float64, count int) (float64, float64) {
	if count <= 0 || lo == hi || math.IsNaN(lo) || math.IsNaN(hi) {
		return lo, hi
	}
	reverse := hi < lo
	start, stop := lo, hi
	if reverse {
		start, stop = hi, lo
	}

	var prestep float64
	for range 10 {
		step := TickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return lo, hi
		}
		prestep = step
	}

	if reverse {
		return stop, start
	}
	return start, stop
}
