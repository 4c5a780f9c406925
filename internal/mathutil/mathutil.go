// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"cmp"
	"math"
)

// Clamp restricts a value to be within a specified range.
// Returns low if val < low, high if val > high, otherwise returns val.
func Clamp[T cmp.Ordered](val, low, high T) T {
	if val < low {
		return low
	}
	if val > high {
		return high
	}
	return val
}

// Lerp linearly interpolates between a and b by t.
// t is not clamped, so values outside [0, 1] extrapolate.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	if places <= 0 {
		return math.Round(x)
	}
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// MaxOf returns the largest of the given values, or 0 when none are given.
func MaxOf[T cmp.Ordered](vals ...T) T {
	var out T
	for i, v := range vals {
		if i == 0 || v > out {
			out = v
		}
	}
	return out
}
