package data

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	processed, err := Prepare([]ChartDataItem{bar("A", 100), bar("B", -30), bar("C", 20, -5)}, PrepareConfig{ShowTotal: true})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	want := Summary{
		Count:         3,
		MinBar:        -30,
		MaxBar:        100,
		PositiveSum:   115,
		NegativeSum:   -30,
		Net:           85,
		MinCumulative: 70,
		MaxCumulative: 100,
	}
	if diff := cmp.Diff(want, Summarize(processed)); diff != "" {
		t.Fatalf("Summarize() mismatch (-want +got):\n%s", diff)
	}
	if got := Summarize(nil); got != (Summary{}) {
		t.Fatalf("Summarize(nil) = %+v, want zero", got)
	}
}

func TestSortAndFilterItems(t *testing.T) {
	t.Parallel()

	items := []ChartDataItem{bar("b", 1), bar("c", 5), bar("a", 5)}

	labels := func(its []ChartDataItem) []string {
		out := make([]string, 0, len(its))
		for _, it := range its {
			out = append(out, it.Label)
		}
		return out
	}

	if diff := cmp.Diff([]string{"c", "a", "b"}, labels(SortItems(items, ByTotalDesc))); diff != "" {
		t.Errorf("SortItems(ByTotalDesc) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, labels(SortItems(items, ByLabel))); diff != "" {
		t.Errorf("SortItems(ByLabel) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, labels(items)); diff != "" {
		t.Errorf("SortItems mutated input (-want +got):\n%s", diff)
	}
	big := FilterItems(items, func(it ChartDataItem) bool { return it.Total() > 2 })
	if diff := cmp.Diff([]string{"c", "a"}, labels(big)); diff != "" {
		t.Errorf("FilterItems() mismatch (-want +got):\n%s", diff)
	}
}
