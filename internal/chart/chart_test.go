package chart

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coredds/mintwaterfall/internal/breakdown"
	"github.com/coredds/mintwaterfall/internal/cache"
	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/devtools"
	"github.com/coredds/mintwaterfall/internal/scale"
)

func bar(label string, values ...float64) data.ChartDataItem {
	it := data.ChartDataItem{Label: label}
	for _, v := range values {
		it.Stacks = append(it.Stacks, data.StackItem{Value: v, Color: "#000"})
	}
	return it
}

func sample() []data.ChartDataItem {
	return []data.ChartDataItem{bar("Revenue", 100), bar("Costs", -30), bar("Tax", -10)}
}

func TestRenderScenarioA(t *testing.T) {
	t.Parallel()

	c := New(NewConfig())
	f, err := c.Render(context.Background(), []data.ChartDataItem{bar("A", 100), bar("B", -30)})
	require.NoError(t, err)
	require.Len(t, f.Items, 2)

	assert.InDelta(t, 0, f.Items[0].PrevCumulativeTotal, 1e-9)
	assert.InDelta(t, 100, f.Items[0].CumulativeTotal, 1e-9)
	assert.InDelta(t, 100, f.Items[1].PrevCumulativeTotal, 1e-9)
	assert.InDelta(t, 70, f.Items[1].CumulativeTotal, 1e-9)
	assert.Equal(t, SourceComputed, f.Source)
	assert.False(t, f.CacheHit())
}

func TestRenderCachesIdenticalInput(t *testing.T) {
	t.Parallel()

	c := New(NewConfig().WithShowTotal(true))
	ctx := context.Background()

	first, err := c.Render(ctx, sample())
	require.NoError(t, err)
	second, err := c.Render(ctx, sample())
	require.NoError(t, err)

	assert.Equal(t, SourceMemory, second.Source)
	assert.True(t, second.CacheHit())
	assert.Equal(t, first.DataHash, second.DataHash)
	assert.Equal(t, first.ConfigHash, second.ConfigHash)
	assert.Same(t, &first.Items[0], &second.Items[0])
}

func TestRenderMissesOnChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		name   string
		mutate func(c *Chart) []data.ChartDataItem
	}{
		{
			name: "data value",
			mutate: func(*Chart) []data.ChartDataItem {
				items := sample()
				items[2].Stacks[0].Value = -11
				return items
			},
		},
		{
			name: "show total",
			mutate: func(c *Chart) []data.ChartDataItem {
				c.SetConfig(c.Config().WithShowTotal(true))
				return sample()
			},
		},
		{
			name: "total label",
			mutate: func(c *Chart) []data.ChartDataItem {
				c.SetConfig(c.Config().WithTotalLabel("Net"))
				return sample()
			},
		},
		{
			name: "rules",
			mutate: func(c *Chart) []data.ChartDataItem {
				rule := data.FormatRule{Name: "neg", Field: data.FieldValue, Op: data.OpLT, Threshold: 0, Color: "#f00"}
				c.SetConfig(c.Config().WithRules(rule))
				return sample()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := New(NewConfig())
			first, err := c.Render(ctx, sample())
			require.NoError(t, err)

			next, err := c.Render(ctx, tt.mutate(c))
			require.NoError(t, err)
			assert.Equal(t, SourceComputed, next.Source)
			assert.NotEqual(t, first.DataHash+first.ConfigHash, next.DataHash+next.ConfigHash)
		})
	}
}

func TestRenderUsesSharedStore(t *testing.T) {
	t.Parallel()

	store, err := cache.NewMemory(4)
	require.NoError(t, err)
	ctx := context.Background()
	cfg := NewConfig().WithShowTotal(true)

	first, err := New(cfg, WithStore(store)).Render(ctx, sample())
	require.NoError(t, err)
	assert.Equal(t, SourceComputed, first.Source)
	assert.Equal(t, 1, store.Len())

	second, err := New(cfg, WithStore(store)).Render(ctx, sample())
	require.NoError(t, err)
	assert.Equal(t, SourceStore, second.Source)
	assert.Equal(t, first.Items, second.Items)
}

func TestRenderMarginsNeverShrink(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	f, err := New(cfg).Render(context.Background(), []data.ChartDataItem{bar("A", 1234567), bar("B", -2345678)})
	require.NoError(t, err)

	assert.True(t, f.Margin.AtLeast(cfg.Margin()), "margin %+v below base %+v", f.Margin, cfg.Margin())
	assert.InDelta(t, cfg.Width()-f.Margin.Left-f.Margin.Right, f.InnerWidth, 1e-9)
	assert.InDelta(t, cfg.Height()-f.Margin.Top-f.Margin.Bottom, f.InnerHeight, 1e-9)

	for i, b := range f.Bars {
		assert.LessOrEqual(t, b.Top, b.Bottom, "bar %d", i)
		assert.GreaterOrEqual(t, b.Top, -1e-9, "bar %d above plot", i)
		assert.LessOrEqual(t, b.Bottom, f.InnerHeight+1e-9, "bar %d below plot", i)
	}
	assert.Less(t, f.Bars[0].X, f.Bars[1].X)
}

func TestRenderBreakdownDrillDown(t *testing.T) {
	t.Parallel()

	parent := bar("Sales", 10)
	parent.Breakdown = []data.ChartDataItem{bar("Online", 6), bar("Retail", 4)}
	items := []data.ChartDataItem{parent, bar("Returns", -3)}

	c := New(NewConfig().WithBreakdown(breakdown.WithSort(breakdown.SortValueDesc)))
	ctx := context.Background()

	collapsed, err := c.Render(ctx, items)
	require.NoError(t, err)
	require.Len(t, collapsed.Items, 2)
	node := collapsed.Items[0].Node
	require.NotNil(t, node)
	assert.True(t, node.HasBreakdown)

	require.NoError(t, c.Expand(node.ID))
	expanded, err := c.Render(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, SourceComputed, expanded.Source)
	assert.NotEqual(t, collapsed.ConfigHash, expanded.ConfigHash)

	var labels []string
	for _, it := range expanded.Items {
		labels = append(labels, it.Label)
	}
	assert.Equal(t, []string{"Online", "Retail", "Returns"}, labels)
	assert.InDelta(t, 7, expanded.Items[2].CumulativeTotal, 1e-9)

	path, err := c.Path(expanded.Items[0].Node.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sales", "Online"}, path)

	expandedNow, err := c.Toggle(node.ID)
	require.NoError(t, err)
	assert.False(t, expandedNow)
	again, err := c.Render(ctx, items)
	require.NoError(t, err)
	assert.Len(t, again.Items, 2)
	assert.Equal(t, collapsed.ConfigHash, again.ConfigHash)
}

func TestRenderRepeatedLabelsGetOwnSlots(t *testing.T) {
	t.Parallel()

	region := func(name string) data.ChartDataItem {
		it := bar(name, 10)
		it.Breakdown = []data.ChartDataItem{bar("a", 4), bar("b", 3), bar("c", 2), bar("d", 1)}
		return it
	}
	tests := map[string]struct {
		cfg    Config
		items  []data.ChartDataItem
		expand bool
	}{
		"duplicate labels": {
			cfg:   NewConfig(),
			items: []data.ChartDataItem{bar("Q", 10), bar("Q", 5)},
		},
		"expanded breakdowns with others": {
			cfg: NewConfig().WithShowTotal(true).WithBreakdown(
				breakdown.WithMaxBreakdowns(2),
				breakdown.WithOthers("", ""),
			),
			items:  []data.ChartDataItem{region("North"), region("South")},
			expand: true,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := New(tt.cfg)
			ctx := context.Background()
			f, err := c.Render(ctx, tt.items)
			require.NoError(t, err)
			if tt.expand {
				require.NoError(t, c.ExpandAll())
				f, err = c.Render(ctx, tt.items)
				require.NoError(t, err)
				require.Greater(t, len(f.Items), len(tt.items))
			}

			seen := make(map[float64]string, len(f.Bars))
			for i, b := range f.Bars {
				if prev, ok := seen[b.X]; ok {
					t.Fatalf("bar %d (%s) shares x=%v with %s", i, f.Items[i].Label, b.X, prev)
				}
				seen[b.X] = f.Items[i].Label
				if i > 0 {
					assert.Greater(t, b.X, f.Bars[i-1].X)
				}
			}
		})
	}
}

func TestDrillDownRequiresBreakdown(t *testing.T) {
	t.Parallel()

	c := New(NewConfig())
	assert.ErrorIs(t, c.Expand("x"), ErrBreakdownDisabled)
	assert.ErrorIs(t, c.ExpandAll(), ErrBreakdownDisabled)
	_, err := c.Toggle("x")
	assert.ErrorIs(t, err, ErrBreakdownDisabled)

	c = New(NewConfig().WithBreakdown())
	assert.ErrorIs(t, c.Expand("missing"), breakdown.ErrNodeNotFound)
	_, err = c.Path("missing")
	assert.ErrorIs(t, err, breakdown.ErrNodeNotFound)
}

func TestRenderFillsBlankColorsFromTheme(t *testing.T) {
	t.Parallel()

	theme := DefaultTheme()
	theme.Increase, theme.Decrease = "#0f0", "#f00"
	theme.Palette = []string{"#111", "#222"}

	items := []data.ChartDataItem{
		{Label: "Up", Stacks: []data.StackItem{{Value: 5}}},
		{Label: "Down", Stacks: []data.StackItem{{Value: -2}}},
		{Label: "Split", Stacks: []data.StackItem{{Value: 1, Label: "east"}, {Value: 1, Label: "west"}, {Value: 1, Label: "east"}}},
		{Label: "Kept", Stacks: []data.StackItem{{Value: 1, Color: "#abc"}}},
	}

	f, err := New(NewConfig(), WithTheme(theme)).Render(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, "#0f0", f.Items[0].Stacks[0].Color)
	assert.Equal(t, "#f00", f.Items[1].Stacks[0].Color)
	assert.Equal(t, "#111", f.Items[2].Stacks[0].Color)
	assert.Equal(t, "#222", f.Items[2].Stacks[1].Color)
	assert.Equal(t, "#111", f.Items[2].Stacks[2].Color)
	assert.Equal(t, "#abc", f.Items[3].Stacks[0].Color)
	assert.Empty(t, items[0].Stacks[0].Color, "input must not be modified")
}

func TestRenderTotalUsesThemeColor(t *testing.T) {
	t.Parallel()

	theme := DefaultTheme()
	theme.Total = "#123456"
	f, err := New(NewConfig().WithShowTotal(true), WithTheme(theme)).Render(context.Background(), sample())
	require.NoError(t, err)
	total := f.Items[len(f.Items)-1]
	require.True(t, total.IsTotal)
	assert.Equal(t, "#123456", total.Stacks[0].Color)
	assert.InDelta(t, 60, total.Stacks[0].Value, 1e-9)

	f, err = New(NewConfig().WithShowTotal(true).WithTotalColor("#fff"), WithTheme(theme)).Render(context.Background(), sample())
	require.NoError(t, err)
	assert.Equal(t, "#fff", f.Items[len(f.Items)-1].Stacks[0].Color)
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	c := New(NewConfig())

	_, err := c.Render(context.Background(), nil)
	assert.ErrorIs(t, err, data.ErrEmptyData)

	_, err = c.Render(context.Background(), []data.ChartDataItem{{Label: "A"}})
	var verr *data.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, verr.Index)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Render(ctx, sample())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderScaleTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		st     ScaleType
		labels []string
		want   scale.Kind
	}{
		{name: "band", st: ScaleBand, labels: []string{"1", "2", "3"}, want: scale.KindBand},
		{name: "auto numbers", st: ScaleAuto, labels: []string{"1", "2", "4"}, want: scale.KindLinear},
		{name: "auto dates", st: ScaleAuto, labels: []string{"2024-01-01", "2024-02-01", "2024-03-01"}, want: scale.KindTime},
		{name: "auto words", st: ScaleAuto, labels: []string{"a", "b", "c"}, want: scale.KindBand},
		{name: "time", st: ScaleTime, labels: []string{"2024-01", "2024-02", "2024-03"}, want: scale.KindTime},
		{name: "linear", st: ScaleLinear, labels: []string{"10", "20", "30"}, want: scale.KindLinear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			items := make([]data.ChartDataItem, len(tt.labels))
			for i, l := range tt.labels {
				items[i] = bar(l, float64(i+1))
			}
			f, err := New(NewConfig().WithScaleType(tt.st).WithShowTotal(true)).Render(context.Background(), items)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.X.Kind())
			require.Len(t, f.Bars, len(items)+1)
			for i := 1; i < len(f.Bars); i++ {
				assert.Less(t, f.Bars[i-1].X, f.Bars[i].X, "bar %d", i)
			}
		})
	}
}

func TestRenderRejectsUnparsableLabels(t *testing.T) {
	t.Parallel()

	_, err := New(NewConfig().WithScaleType(ScaleTime)).Render(context.Background(), sample())
	assert.ErrorIs(t, err, scale.ErrUnparsableValue)
}

func TestRenderRecordsTrace(t *testing.T) {
	t.Parallel()

	store, err := cache.NewMemory(4)
	require.NoError(t, err)
	tr := devtools.NewTracker(16)
	c := New(NewConfig(), WithTracker(tr), WithStore(store))
	ctx := context.Background()
	_, err = c.Render(ctx, sample())
	require.NoError(t, err)
	_, err = c.Render(ctx, sample())
	require.NoError(t, err)

	var stages, lookups []string
	for _, e := range tr.Events() {
		assert.Equal(t, "chart.Render", e.Origin)
		switch e.Kind {
		case devtools.KindStage:
			stages = append(stages, e.Name)
		case devtools.KindLookup:
			lookups = append(lookups, strings.Join(strings.Fields(e.Name)[:2], " "))
		}
	}
	assert.Equal(t, []string{"validate", "prepare", "layout", "validate", "layout"}, stages)
	assert.Equal(t, []string{"memory miss", "store miss", "memory hit"}, lookups)
}

func TestConfigIsImmutable(t *testing.T) {
	t.Parallel()

	rule := data.FormatRule{Name: "big", Field: data.FieldValue, Op: data.OpGT, Threshold: 10, Color: "#f00"}
	base := NewConfig()
	withRule := base.WithRules(rule)

	assert.Empty(t, base.Rules())
	assert.Len(t, withRule.Rules(), 1)

	rules := withRule.Rules()
	rules[0].Color = "#000"
	assert.Equal(t, "#f00", withRule.Rules()[0].Color)

	_, on := base.Breakdown()
	assert.False(t, on)
	bc, on := base.WithBreakdown(breakdown.WithMaxBreakdowns(3)).Breakdown()
	assert.True(t, on)
	assert.Equal(t, 3, bc.MaxBreakdowns)
	assert.Equal(t, breakdown.DefaultOthersLabel, bc.OthersLabel)
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	f, err := New(NewConfig().WithShowTotal(true)).Render(context.Background(), sample())
	require.NoError(t, err)

	a := Analyze(f.Items)
	assert.Equal(t, 3, a.Summary.Count)
	assert.InDelta(t, 60, a.Summary.Net, 1e-9)
	assert.Equal(t, 3, a.Bars.Count)
	assert.InDelta(t, 20, a.Bars.Mean, 1e-9)
	assert.Equal(t, 3, a.Trend.Count)
	assert.Less(t, a.Trend.Slope, 0.0)
	assert.Equal(t, 3, a.Quality.TotalValues)
	assert.Equal(t, 3, a.Outliers.Summary.TotalOutliers+len(a.Outliers.CleanData))

	empty := Analyze(nil)
	assert.Zero(t, empty.Bars.Count)
}

func TestSourceString(t *testing.T) {
	t.Parallel()

	for s, want := range map[Source]string{SourceComputed: "computed", SourceMemory: "memory", SourceStore: "store"} {
		assert.Equal(t, want, s.String())
	}
}
