package stats

import "math"

// CalculateMovingAverage returns the simple moving average over window.
// The result has len(values)-window+1 entries; it is empty when window is
// not positive or exceeds the sample.
func CalculateMovingAverage(values []float64, window int) []float64 {
	if window <= 0 || window > len(values) {
		return []float64{}
	}
	out := make([]float64, 0, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// CalculateExponentialSmoothing applies simple exponential smoothing seeded
// with the first raw value. alpha is clamped to [0, 1].
func CalculateExponentialSmoothing(values []float64, alpha float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}
	alpha = math.Max(0, math.Min(1, alpha))
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

const seasonalityThreshold = 0.3

// DetectSeasonality reports whether the autocorrelation at lag period
// exceeds 0.3 in absolute value. At least two full periods are required.
func DetectSeasonality(values []float64, period int) bool {
	r, ok := Autocorrelation(values, period)
	return ok && math.Abs(r) > seasonalityThreshold
}

// Autocorrelation returns the sample autocorrelation at lag. ok is false
// when fewer than two full lags of data exist or the series is constant.
func Autocorrelation(values []float64, lag int) (r float64, ok bool) {
	n := len(values)
	if lag < 1 || n < 2*lag {
		return 0, false
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var num, den float64
	for i, v := range values {
		d := v - mean
		den += d * d
		if i+lag < n {
			num += d * (values[i+lag] - mean)
		}
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}
