package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coredds/mintwaterfall/internal/breakdown"
	"github.com/coredds/mintwaterfall/internal/chart"
	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/loader"
)

// chartFlags are the input and chart options shared by the data commands.
type chartFlags struct {
	format       string
	labelColumn  string
	valueColumn  string
	colorColumn  string
	defaultColor string

	total      bool
	totalLabel string
	totalColor string
	grouped    bool
	scale      string
	width      float64
	height     float64

	breakdown     bool
	expandAll     bool
	maxBreakdowns int
	others        string
	sort          string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.format, "format", "", "input format: json, csv or tsv (default from extension)")
	fl.StringVar(&f.labelColumn, "label-column", "label", "record field holding the bar label")
	fl.StringVar(&f.valueColumn, "value-column", "value", "record field holding the bar value")
	fl.StringVar(&f.colorColumn, "color-column", "color", "record field holding the bar color")
	fl.StringVar(&f.defaultColor, "default-color", "", "color for records without one")

	fl.BoolVar(&f.total, "total", true, "append a total bar")
	fl.StringVar(&f.totalLabel, "total-label", data.DefaultTotalLabel, "label of the total bar")
	fl.StringVar(&f.totalColor, "total-color", "", "color of the total bar")
	fl.BoolVar(&f.grouped, "grouped", false, "draw stacks side by side instead of stacked")
	fl.StringVar(&f.scale, "scale", string(chart.ScaleBand), "x scale: band, auto, time or linear")
	fl.Float64Var(&f.width, "width", chart.DefaultWidth, "chart width in pixels")
	fl.Float64Var(&f.height, "height", chart.DefaultHeight, "chart height in pixels")

	fl.BoolVar(&f.breakdown, "breakdown", false, "enable hierarchical breakdowns")
	fl.BoolVar(&f.expandAll, "expand-all", false, "expand every breakdown before rendering")
	fl.IntVar(&f.maxBreakdowns, "max-breakdowns", 0, "siblings shown before the rest fold into Others")
	fl.StringVar(&f.others, "others-label", "", "label of the Others bucket (enables it)")
	fl.StringVar(&f.sort, "sort", string(breakdown.SortNone), "breakdown sibling order: none, value-desc, value-asc, alphabetical")
}

func (f *chartFlags) transform() data.TransformConfig {
	return data.TransformConfig{
		LabelColumn:  f.labelColumn,
		ValueColumn:  f.valueColumn,
		ColorColumn:  f.colorColumn,
		DefaultColor: f.defaultColor,
	}
}

func (f *chartFlags) config() (chart.Config, error) {
	cfg := chart.NewConfig().
		WithSize(f.width, f.height).
		WithShowTotal(f.total).
		WithTotalLabel(f.totalLabel).
		WithTotalColor(f.totalColor).
		WithStacked(!f.grouped)

	switch st := chart.ScaleType(f.scale); st {
	case chart.ScaleBand, chart.ScaleAuto, chart.ScaleTime, chart.ScaleLinear:
		cfg = cfg.WithScaleType(st)
	default:
		return chart.Config{}, fmt.Errorf("unknown scale %q", f.scale)
	}

	if !f.breakdown && !f.expandAll && f.maxBreakdowns == 0 && f.others == "" {
		return cfg, nil
	}
	switch order := breakdown.SortOrder(f.sort); order {
	case breakdown.SortNone, breakdown.SortValueDesc, breakdown.SortValueAsc, breakdown.SortAlphabetical:
	default:
		return chart.Config{}, fmt.Errorf("unknown sort order %q", f.sort)
	}
	opts := []breakdown.Option{
		breakdown.WithSort(breakdown.SortOrder(f.sort)),
		breakdown.WithMaxBreakdowns(f.maxBreakdowns),
	}
	if f.others != "" || f.maxBreakdowns > 0 {
		opts = append(opts, breakdown.WithOthers(f.others, ""))
	}
	return cfg.WithBreakdown(opts...), nil
}

// load reads path and builds a chart over it.
func (f *chartFlags) load(ctx context.Context, env *runtimeEnv, path string) (*chart.Chart, []data.ChartDataItem, error) {
	format, err := loader.ParseFormat(f.format)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := f.config()
	if err != nil {
		return nil, nil, err
	}
	items, err := loader.LoadFile(path, format, f.transform())
	if err != nil {
		return nil, nil, err
	}

	c := chart.New(cfg,
		chart.WithLogger(env.log.With(zap.String("file", path))),
		chart.WithStore(env.store),
		chart.WithTracker(env.tracker),
	)
	if f.expandAll {
		if err := expandAll(ctx, c, items); err != nil {
			return nil, nil, err
		}
	}
	return c, items, nil
}

// expandAll needs one render so the breakdown tree exists before expanding.
func expandAll(ctx context.Context, c *chart.Chart, items []data.ChartDataItem) error {
	if _, err := c.Render(ctx, items); err != nil {
		return err
	}
	return c.ExpandAll()
}
