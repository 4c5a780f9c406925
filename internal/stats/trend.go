package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Point is an observation for trend analysis.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Direction of a fitted trend.
type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

// Strength of a fitted trend, bucketed by |correlation|.
type Strength string

const (
	Strong   Strength = "strong"
	Moderate Strength = "moderate"
	Weak     Strength = "weak"
)

// Forecast is one projected value with its 95% confidence band.
type Forecast struct {
	X     float64 `json:"x"`
	Value float64 `json:"value"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// TrendAnalysis is an ordinary least squares fit of y on x.
type TrendAnalysis struct {
	Count       int        `json:"count"`
	Slope       float64    `json:"slope"`
	Intercept   float64    `json:"intercept"`
	Correlation float64    `json:"correlation"`
	RSquared    float64    `json:"rSquared"`
	Direction   Direction  `json:"direction"`
	Strength    Strength   `json:"strength"`
	Forecast    []Forecast `json:"forecast"`
}

const (
	slopeDeadZone   = 0.01
	forecastPeriods = 3
	z95             = 1.96
)

// AnalyzeTrend fits a line through points and projects three periods ahead.
// With fewer than two points, or no spread in x, the result is a zero,
// stable, weak trend with no forecast.
func AnalyzeTrend(points []Point) TrendAnalysis {
	result := TrendAnalysis{
		Count:     len(points),
		Direction: Stable,
		Strength:  Weak,
		Forecast:  []Forecast{},
	}

	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	n := len(xs)
	if n < 2 {
		return result
	}
	if _, vx := stat.PopMeanVariance(xs, nil); vx == 0 {
		return result
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	result.Slope = slope
	result.Intercept = intercept
	if _, vy := stat.PopMeanVariance(ys, nil); vy > 0 {
		result.Correlation = stat.Correlation(xs, ys, nil)
		result.RSquared = result.Correlation * result.Correlation
	}

	switch {
	case slope > slopeDeadZone:
		result.Direction = Increasing
	case slope < -slopeDeadZone:
		result.Direction = Decreasing
	}
	switch r := math.Abs(result.Correlation); {
	case r > 0.7:
		result.Strength = Strong
	case r > 0.3:
		result.Strength = Moderate
	}

	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	step := (hi - lo) / float64(n-1)
	margin := z95 * sampleStdDev(ys) / math.Sqrt(float64(n))
	for k := 1; k <= forecastPeriods; k++ {
		x := hi + float64(k)*step
		v := intercept + slope*x
		result.Forecast = append(result.Forecast, Forecast{
			X:     x,
			Value: v,
			Lower: v - margin,
			Upper: v + margin,
		})
	}
	return result
}
