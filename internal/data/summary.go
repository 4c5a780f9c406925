package data

import (
	"cmp"
	"slices"

	mstats "github.com/aclements/go-moremath/stats"
)

// Summary describes a processed waterfall at a glance.
type Summary struct {
	Count         int     `json:"count"`
	MinBar        float64 `json:"minBar"`
	MaxBar        float64 `json:"maxBar"`
	PositiveSum   float64 `json:"positiveSum"`
	NegativeSum   float64 `json:"negativeSum"`
	Net           float64 `json:"net"`
	MinCumulative float64 `json:"minCumulative"`
	MaxCumulative float64 `json:"maxCumulative"`
}

// Summarize aggregates processed items, ignoring the total bar.
func Summarize(items []ProcessedDataItem) Summary {
	var s Summary
	bars := make([]float64, 0, len(items))
	cumulative := make([]float64, 0, len(items))
	for _, it := range items {
		if it.IsTotal {
			continue
		}
		bars = append(bars, it.BarTotal)
		cumulative = append(cumulative, it.CumulativeTotal)
		if it.BarTotal > 0 {
			s.PositiveSum += it.BarTotal
		} else {
			s.NegativeSum += it.BarTotal
		}
	}
	s.Count = len(bars)
	if s.Count == 0 {
		return s
	}
	s.MinBar, s.MaxBar = mstats.Bounds(bars)
	s.MinCumulative, s.MaxCumulative = mstats.Bounds(cumulative)
	s.Net = cumulative[len(cumulative)-1]
	return s
}

// SortItems returns a stably sorted copy of items.
func SortItems(items []ChartDataItem, compare func(a, b ChartDataItem) int) []ChartDataItem {
	out := slices.Clone(items)
	slices.SortStableFunc(out, compare)
	return out
}

// ByTotalDesc orders items by descending stack total.
func ByTotalDesc(a, b ChartDataItem) int {
	return cmp.Compare(b.Total(), a.Total())
}

// ByLabel orders items by label, byte-wise.
func ByLabel(a, b ChartDataItem) int {
	return cmp.Compare(a.Label, b.Label)
}

// FilterItems returns the items for which keep returns true.
func FilterItems(items []ChartDataItem, keep func(ChartDataItem) bool) []ChartDataItem {
	out := make([]ChartDataItem, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
