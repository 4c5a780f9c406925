// Package data turns raw waterfall records into processed bars.
//
// The processor is strict: empty or malformed input is reported as an error
// naming the offending item and field. This differs from the stats package,
// which degrades to zero results.
package data

// StackItem is one colored segment of a bar. Value may be negative.
type StackItem struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
	Label string  `json:"label,omitempty"`
}

// NodeInfo carries breakdown metadata for items produced by a Flattener.
type NodeInfo struct {
	ID           string `json:"breakdownId"`
	Level        int    `json:"level"`
	ParentID     string `json:"parentId,omitempty"`
	HasBreakdown bool   `json:"hasBreakdown"`
	// IsExpanded mirrors the engine's expanded set. Expanded nodes are
	// replaced by their children when flattened, so emitted rows are
	// collapsed.
	IsExpanded   bool   `json:"isExpanded"`
	IsOther      bool   `json:"isOther"`
	VisualIndent int    `json:"visualIndent"`
}

// ChartDataItem is a raw waterfall bar. Breakdown optionally nests
// sub-items shaped like the item itself.
type ChartDataItem struct {
	Label     string          `json:"label"`
	Stacks    []StackItem     `json:"stacks"`
	Breakdown []ChartDataItem `json:"breakdown,omitempty"`
	Node      *NodeInfo       `json:"node,omitempty"`
}

// Total returns the sum of the item's stack values.
func (it ChartDataItem) Total() float64 {
	var sum float64
	for _, s := range it.Stacks {
		sum += s.Value
	}
	return sum
}

// ProcessedDataItem is a ChartDataItem with its running totals.
//
// CumulativeTotal == PrevCumulativeTotal + BarTotal holds for every
// non-total item. The synthetic total item has PrevCumulativeTotal 0.
type ProcessedDataItem struct {
	ChartDataItem

	BarTotal            float64 `json:"barTotal"`
	CumulativeTotal     float64 `json:"cumulativeTotal"`
	PrevCumulativeTotal float64 `json:"prevCumulativeTotal"`
	IsTotal             bool    `json:"isTotal,omitempty"`
	// Rule is the name of the formatting rule applied to the item, if any.
	Rule string `json:"rule,omitempty"`
}

// Items returns the raw items behind processed, dropping the total bar.
func Items(processed []ProcessedDataItem) []ChartDataItem {
	out := make([]ChartDataItem, 0, len(processed))
	for _, p := range processed {
		if !p.IsTotal {
			out = append(out, p.ChartDataItem)
		}
	}
	return out
}

func cloneStacks(stacks []StackItem) []StackItem {
	out := make([]StackItem, len(stacks))
	copy(out, stacks)
	return out
}

// CloneItems deep-copies items, including stacks and nested breakdowns.
func CloneItems(items []ChartDataItem) []ChartDataItem {
	if items == nil {
		return nil
	}
	out := make([]ChartDataItem, len(items))
	for i, it := range items {
		it.Stacks = cloneStacks(it.Stacks)
		it.Breakdown = CloneItems(it.Breakdown)
		if it.Node != nil {
			n := *it.Node
			it.Node = &n
		}
		out[i] = it
	}
	return out
}
