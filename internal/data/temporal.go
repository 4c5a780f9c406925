package data

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Interval is a calendar bucket size.
type Interval string

const (
	Day     Interval = "day"
	Week    Interval = "week"
	Month   Interval = "month"
	Quarter Interval = "quarter"
	Year    Interval = "year"
)

// Aggregation reduces the values of one bucket.
type Aggregation string

const (
	Sum     Aggregation = "sum"
	Average Aggregation = "average"
	Max     Aggregation = "max"
	Min     Aggregation = "min"
	Count   Aggregation = "count"
)

// TruncateTime floors t to the start of its interval in UTC. Weeks start
// on Sunday.
func TruncateTime(t time.Time, iv Interval) (time.Time, error) {
	t = t.UTC()
	y, m, d := t.Date()
	switch iv {
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	case Week:
		return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, time.UTC), nil
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), nil
	case Quarter:
		q := (int(m) - 1) / 3
		return time.Date(y, time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC), nil
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownInterval, iv)
}

// AggregateByTime buckets records by the start of their interval and
// reduces each bucket. Map iteration order is unspecified; use SortedKeys
// for display.
func AggregateByTime[T any](records []T, timeOf func(T) time.Time, valueOf func(T) float64, iv Interval, agg Aggregation) (map[time.Time]float64, error) {
	reduce, err := reducer(agg)
	if err != nil {
		return nil, err
	}
	buckets := make(map[time.Time][]float64)
	for _, r := range records {
		start, err := TruncateTime(timeOf(r), iv)
		if err != nil {
			return nil, err
		}
		buckets[start] = append(buckets[start], valueOf(r))
	}
	out := make(map[time.Time]float64, len(buckets))
	for k, vs := range buckets {
		out[k] = reduce(vs)
	}
	return out, nil
}

// SortedKeys returns the bucket starts of m in chronological order.
func SortedKeys[V any](m map[time.Time]V) []time.Time {
	keys := make([]time.Time, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b time.Time) int { return a.Compare(b) })
	return keys
}

func reducer(agg Aggregation) (func([]float64) float64, error) {
	switch agg {
	case Sum:
		return sum, nil
	case Average:
		return func(vs []float64) float64 { return sum(vs) / float64(len(vs)) }, nil
	case Max:
		return func(vs []float64) float64 { return extreme(vs, math.Max) }, nil
	case Min:
		return func(vs []float64) float64 { return extreme(vs, math.Min) }, nil
	case Count:
		return func(vs []float64) float64 { return float64(len(vs)) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAggregation, agg)
}

func sum(vs []float64) float64 {
	var s float64
	for _, v := range vs {
		s += v
	}
	return s
}

func extreme(vs []float64, pick func(a, b float64) float64) float64 {
	out := vs[0]
	for _, v := range vs[1:] {
		out = pick(out, v)
	}
	return out
}
