package data

import "fmt"

// Flattener replaces hierarchical input with the currently visible rows.
// The breakdown engine implements it.
type Flattener interface {
	Flatten(items []ChartDataItem) ([]ChartDataItem, error)
	// StateKey identifies the flattener's configuration and expansion
	// state, so caches can tell two flattenings of the same data apart.
	StateKey() string
}

// Defaults for the synthetic total bar.
const (
	DefaultTotalLabel = "Total"
	DefaultTotalColor = "#95a5a6"
)

// PrepareConfig is the subset of chart configuration that shapes processed
// data. Every field here must be part of any cache fingerprint.
type PrepareConfig struct {
	ShowTotal  bool
	TotalLabel string
	TotalColor string
	Rules      []FormatRule
	Breakdown  Flattener
}

// Prepare validates items and computes running totals. The result is a
// fresh slice and never aliases the stacks of items.
func Prepare(items []ChartDataItem, cfg PrepareConfig) ([]ProcessedDataItem, error) {
	if _, err := Validate(items); err != nil {
		return nil, err
	}
	for _, r := range cfg.Rules {
		if err := r.Check(); err != nil {
			return nil, err
		}
	}

	if cfg.Breakdown != nil {
		flat, err := cfg.Breakdown.Flatten(items)
		if err != nil {
			return nil, fmt.Errorf("flatten breakdown: %w", err)
		}
		if len(flat) == 0 {
			return nil, &ValidationError{Index: -1, Field: "breakdown", Reason: "produced no items", Err: ErrEmptyData}
		}
		items = flat
	}

	out := make([]ProcessedDataItem, 0, len(items)+1)
	var cumulative float64
	for i, it := range items {
		bar := it.Total()
		prev := cumulative
		if i == 0 {
			prev = 0
		}
		cumulative += bar

		p := ProcessedDataItem{
			ChartDataItem:       it,
			BarTotal:            bar,
			CumulativeTotal:     cumulative,
			PrevCumulativeTotal: prev,
		}
		p.Stacks = cloneStacks(it.Stacks)
		if len(cfg.Rules) > 0 {
			applyRules(&p, cfg.Rules)
		}
		out = append(out, p)
	}

	if cfg.ShowTotal {
		out = append(out, totalItem(cumulative, cfg))
	}
	return out, nil
}

func totalItem(grand float64, cfg PrepareConfig) ProcessedDataItem {
	label := cfg.TotalLabel
	if label == "" {
		label = DefaultTotalLabel
	}
	color := cfg.TotalColor
	if color == "" {
		color = DefaultTotalColor
	}
	return ProcessedDataItem{
		ChartDataItem: ChartDataItem{
			Label:  label,
			Stacks: []StackItem{{Value: grand, Color: color, Label: label}},
		},
		BarTotal:            grand,
		CumulativeTotal:     grand,
		PrevCumulativeTotal: 0,
		IsTotal:             true,
	}
}
