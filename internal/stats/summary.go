// Package stats provides the numeric analysis used by waterfall dashboards:
// summary statistics, IQR outlier detection, data quality scoring, variance
// decomposition, linear trends and smoothing.
//
// None of the functions in this package return errors. Empty or degenerate
// input yields a well-defined zero result instead, so sparse dashboards keep
// rendering. Callers that must tell "no data" apart from "all zeros" should
// check the Count (or equivalent) field of the result.
package stats

import (
	"math"
	"slices"

	mstats "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Percentiles holds the fixed percentile set reported by Summary.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// Summary describes a numeric sample.
//
// Variance and StdDev are population statistics. Quartiles and Percentiles
// use linear interpolation between closest ranks (R-7), so Quartiles[1] is
// always identical to Median.
type Summary struct {
	Count       int         `json:"count"`
	Sum         float64     `json:"sum"`
	Mean        float64     `json:"mean"`
	Median      float64     `json:"median"`
	Mode        []float64   `json:"mode"`
	Variance    float64     `json:"variance"`
	StdDev      float64     `json:"stdDev"`
	Min         float64     `json:"min"`
	Max         float64     `json:"max"`
	Range       float64     `json:"range"`
	Quartiles   [3]float64  `json:"quartiles"`
	Percentiles Percentiles `json:"percentiles"`
}

// Empty reports whether the summary was computed from no valid values.
func (s Summary) Empty() bool {
	return s.Count == 0
}

// Clean returns the finite values of xs, dropping NaN and infinities.
func Clean(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		out = append(out, x)
	}
	return out
}

// FromNullable converts optional values into a plain sample, skipping nils.
func FromNullable(xs []*float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x != nil {
			out = append(out, *x)
		}
	}
	return out
}

// CalculateSummary computes the descriptive statistics of values.
// NaN values are ignored. An empty sample produces the zero Summary.
func CalculateSummary(values []float64) Summary {
	clean := Clean(values)
	if len(clean) == 0 {
		return Summary{Mode: []float64{}}
	}

	sorted := slices.Clone(clean)
	slices.Sort(sorted)

	mean, variance := stat.PopMeanVariance(clean, nil)
	lo, hi := mstats.Bounds(clean)
	median := QuantileSorted(sorted, 0.5)

	return Summary{
		Count:    len(clean),
		Sum:      floats.Sum(clean),
		Mean:     mean,
		Median:   median,
		Mode:     modes(sorted),
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Min:      lo,
		Max:      hi,
		Range:    hi - lo,
		Quartiles: [3]float64{
			QuantileSorted(sorted, 0.25),
			median,
			QuantileSorted(sorted, 0.75),
		},
		Percentiles: Percentiles{
			P5:  QuantileSorted(sorted, 0.05),
			P10: QuantileSorted(sorted, 0.10),
			P25: QuantileSorted(sorted, 0.25),
			P75: QuantileSorted(sorted, 0.75),
			P90: QuantileSorted(sorted, 0.90),
			P95: QuantileSorted(sorted, 0.95),
		},
	}
}

// Quantile returns the p-quantile of values using R-7 linear interpolation.
// It returns 0 for an empty sample.
func Quantile(values []float64, p float64) float64 {
	sorted := Clean(values)
	slices.Sort(sorted)
	return QuantileSorted(sorted, p)
}

// QuantileSorted is Quantile for an already ascending sample.
// p is clamped to [0, 1].
func QuantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n == 1 || p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// modes returns every value that shares the highest frequency, ascending.
func modes(sorted []float64) []float64 {
	best := 0
	var out []float64
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		switch run := j - i; {
		case run > best:
			best = run
			out = append(out[:0], sorted[i])
		case run == best:
			out = append(out, sorted[i])
		}
		i = j
	}
	return out
}

// sampleStdDev returns the n-1 standard deviation, or 0 below two values.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}
