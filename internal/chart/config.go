package chart

import (
	"slices"

	"github.com/coredds/mintwaterfall/internal/breakdown"
	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/layout"
)

// ScaleType selects how bar labels are placed along the x axis.
type ScaleType string

const (
	// ScaleBand places one band per label in input order.
	ScaleBand ScaleType = "band"
	// ScaleAuto parses labels and picks time, linear or band by what parses.
	ScaleAuto ScaleType = "auto"
	// ScaleTime requires every label to parse as a date.
	ScaleTime ScaleType = "time"
	// ScaleLinear requires every label to parse as a number.
	ScaleLinear ScaleType = "linear"
)

// Defaults for a new Config.
const (
	DefaultWidth      = 800
	DefaultHeight     = 400
	DefaultBarPadding = 0.05
)

// Config is an immutable chart configuration. With* methods return a
// modified copy and never touch the receiver.
type Config struct {
	width      float64
	height     float64
	margin     layout.Margin
	showTotal  bool
	totalLabel string
	totalColor string
	stacked    bool
	barPadding float64
	scaleType  ScaleType
	rules      []data.FormatRule
	breakdown  *breakdown.Config
	layout     []layout.Option
}

// NewConfig returns the default configuration.
func NewConfig() Config {
	return Config{
		width:      DefaultWidth,
		height:     DefaultHeight,
		margin:     layout.DefaultMargin,
		totalLabel: data.DefaultTotalLabel,
		stacked:    true,
		barPadding: DefaultBarPadding,
		scaleType:  ScaleBand,
	}
}

func (c Config) Width() float64          { return c.width }
func (c Config) Height() float64         { return c.height }
func (c Config) Margin() layout.Margin   { return c.margin }
func (c Config) ShowTotal() bool         { return c.showTotal }
func (c Config) TotalLabel() string      { return c.totalLabel }
func (c Config) TotalColor() string      { return c.totalColor }
func (c Config) Stacked() bool           { return c.stacked }
func (c Config) BarPadding() float64     { return c.barPadding }
func (c Config) ScaleType() ScaleType    { return c.scaleType }
func (c Config) Rules() []data.FormatRule { return slices.Clone(c.rules) }

// Breakdown returns the drill-down strategy and whether drill-down is on.
func (c Config) Breakdown() (breakdown.Config, bool) {
	if c.breakdown == nil {
		return breakdown.Config{}, false
	}
	return *c.breakdown, true
}

func (c Config) WithSize(width, height float64) Config {
	c.width, c.height = width, height
	return c
}

func (c Config) WithMargin(m layout.Margin) Config {
	c.margin = m
	return c
}

func (c Config) WithShowTotal(on bool) Config {
	c.showTotal = on
	return c
}

func (c Config) WithTotalLabel(label string) Config {
	c.totalLabel = label
	return c
}

// WithTotalColor overrides the theme's total color.
func (c Config) WithTotalColor(color string) Config {
	c.totalColor = color
	return c
}

func (c Config) WithStacked(on bool) Config {
	c.stacked = on
	return c
}

// WithBarPadding sets the band padding as a fraction of the step, in [0, 1].
func (c Config) WithBarPadding(p float64) Config {
	c.barPadding = p
	return c
}

func (c Config) WithScaleType(t ScaleType) Config {
	c.scaleType = t
	return c
}

// WithRules replaces the conditional formatting rules. Order matters: the
// first rule that matches a stack wins.
func (c Config) WithRules(rules ...data.FormatRule) Config {
	c.rules = slices.Clone(rules)
	return c
}

// WithBreakdown enables drill-down with the given grouping options.
func (c Config) WithBreakdown(opts ...breakdown.Option) Config {
	bc := breakdown.DefaultConfig()
	for _, opt := range opts {
		opt(&bc)
	}
	c.breakdown = &bc
	return c
}

// WithoutBreakdown disables drill-down.
func (c Config) WithoutBreakdown() Config {
	c.breakdown = nil
	return c
}

// WithLayout sets label metrics used by the margin estimator.
func (c Config) WithLayout(opts ...layout.Option) Config {
	c.layout = slices.Clone(opts)
	return c
}

// innerSize is the plot area left after margin m.
func (c Config) innerSize(m layout.Margin) (float64, float64) {
	return max(c.width-m.Left-m.Right, 1), max(c.height-m.Top-m.Bottom, 1)
}
