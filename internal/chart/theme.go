package chart

import (
	"slices"

	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/scale"
)

// Theme holds the colors a chart fills in where input leaves them blank.
// It is passed to New explicitly so charts with different themes coexist.
type Theme struct {
	Increase  string   `json:"increase"`
	Decrease  string   `json:"decrease"`
	Total     string   `json:"total"`
	Connector string   `json:"connector"`
	Axis      string   `json:"axis"`
	Label     string   `json:"label"`
	Palette   []string `json:"palette"`
}

// DefaultTheme returns a fresh copy of the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Increase:  "#2ecc71",
		Decrease:  "#e74c3c",
		Total:     data.DefaultTotalColor,
		Connector: "#7f8c8d",
		Axis:      "#6b7280",
		Label:     "#111827",
		Palette:   slices.Clone(scale.Category10),
	}
}

func (t Theme) clone() Theme {
	t.Palette = slices.Clone(t.Palette)
	return t
}

// stackColor picks a color for a stack that has none. Labeled stacks use
// the palette so the same series gets the same color across bars.
func (t Theme) stackColor(s data.StackItem, palette *scale.Ordinal) string {
	if s.Label != "" && palette != nil {
		return palette.Map(s.Label)
	}
	if s.Value < 0 {
		return t.Decrease
	}
	return t.Increase
}

// fill assigns theme colors to blank stacks, recursing into breakdowns.
// items is modified in place and must be a private copy.
func (t Theme) fill(items []data.ChartDataItem, palette *scale.Ordinal) {
	for i := range items {
		for j := range items[i].Stacks {
			if items[i].Stacks[j].Color == "" {
				items[i].Stacks[j].Color = t.stackColor(items[i].Stacks[j], palette)
			}
		}
		t.fill(items[i].Breakdown, palette)
	}
}
