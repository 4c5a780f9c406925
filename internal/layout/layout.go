// Package layout computes chart margins that leave room for value labels.
//
// Label positions depend on the value scale, and the scale's pixel range
// depends on the margins. Estimate breaks the cycle by projecting labels
// through a trial scale built on the base margins, then growing each side
// just enough to fit what it saw. Margins never shrink below the base.
package layout

import (
	"math"

	"charm.land/lipgloss/v2"

	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/format"
	"github.com/coredds/mintwaterfall/internal/mathutil"
	"github.com/coredds/mintwaterfall/internal/scale"
)

// Margin is a pixel inset on each side of the plot area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// AtLeast reports whether m is component-wise >= base.
func (m Margin) AtLeast(base Margin) bool {
	return m.Top >= base.Top && m.Right >= base.Right && m.Bottom >= base.Bottom && m.Left >= base.Left
}

// DefaultMargin is the base margin used when none is configured.
var DefaultMargin = Margin{Top: 60, Right: 80, Bottom: 60, Left: 80}

// Domain padding applied by the value scale.
const (
	negativePadding  = 0.05
	positiveHeadroom = 1.02
	tickCount        = 5
)

type config struct {
	labelHeight  float64
	labelPadding float64
	safety       float64
	minTop       float64
	perChar      float64
	format       format.Func
}

// Option tunes Estimate.
type Option func(*config)

// WithLabelHeight sets the height of a value label in pixels.
func WithLabelHeight(px float64) Option { return func(c *config) { c.labelHeight = px } }

// WithLabelPadding sets the gap between a bar and its label.
func WithLabelPadding(px float64) Option { return func(c *config) { c.labelPadding = px } }

// WithSafetyBuffer sets the extra space added to a grown margin.
func WithSafetyBuffer(px float64) Option { return func(c *config) { c.safety = px } }

// WithMinTop sets the top margin floor. Zero disables it.
func WithMinTop(px float64) Option { return func(c *config) { c.minTop = px } }

// WithCharWidth sets the estimated pixel width of one label cell.
func WithCharWidth(px float64) Option { return func(c *config) { c.perChar = px } }

// WithFormat sets the label formatter.
func WithFormat(f format.Func) Option { return func(c *config) { c.format = f } }

func newConfig(opts []Option) config {
	c := config{
		labelHeight:  14,
		labelPadding: 6,
		safety:       10,
		minTop:       80,
		perChar:      7,
		format:       format.Number,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Diagnostics explains an Estimate result.
type Diagnostics struct {
	DomainLo        float64 `json:"domainLo"`
	DomainHi        float64 `json:"domainHi"`
	HasNegative     bool    `json:"hasNegative"`
	HighestLabelY   float64 `json:"highestLabelY"`
	LowestLabelY    float64 `json:"lowestLabelY"`
	RequiredTop     float64 `json:"requiredTop"`
	BottomShortfall float64 `json:"bottomShortfall"`
	WidestLabel     string  `json:"widestLabel"`
	WidestLabelPx   float64 `json:"widestLabelPx"`
	WidestTickPx    float64 `json:"widestTickPx"`
}

// Domain returns the value domain a waterfall over items is drawn on,
// and whether any running or bar value is negative. With negatives the
// extent is padded by 5% of its span on both sides; otherwise it runs from
// zero to 2% above the maximum and is then niced.
func Domain(items []data.ProcessedDataItem) (lo, hi float64, negative bool) {
	for i, it := range items {
		a, b := barExtent(it)
		if i == 0 {
			lo, hi = a, b
		}
		lo = math.Min(lo, a)
		hi = math.Max(hi, b)
	}
	lo = math.Min(lo, 0)
	hi = math.Max(hi, 0)
	if lo < 0 {
		pad := (hi - lo) * negativePadding
		return lo - pad, hi + pad, true
	}
	lo, hi = scale.Nice(0, hi*positiveHeadroom, 10)
	return lo, hi, false
}

func barExtent(it data.ProcessedDataItem) (float64, float64) {
	return math.Min(it.PrevCumulativeTotal, it.CumulativeTotal), math.Max(it.PrevCumulativeTotal, it.CumulativeTotal)
}

// ValueScale returns the vertical scale for a plot innerHeight tall, with
// larger values toward the top (smaller y).
func ValueScale(items []data.ProcessedDataItem, innerHeight float64) *scale.Linear {
	lo, hi, _ := Domain(items)
	return scale.NewLinear(nil, scale.WithDomain(lo, hi), scale.WithRange(math.Max(innerHeight, 1), 0))
}

// Estimate returns margins for a chart height pixels tall over items,
// starting from base. The result is always component-wise >= base.
func Estimate(items []data.ProcessedDataItem, base Margin, height float64, opts ...Option) (Margin, Diagnostics) {
	c := newConfig(opts)
	out := base
	var d Diagnostics
	if len(items) == 0 {
		return out, d
	}

	innerHeight := math.Max(height-base.Top-base.Bottom, 1)
	d.DomainLo, d.DomainHi, d.HasNegative = Domain(items)
	trial := ValueScale(items, innerHeight)

	d.HighestLabelY = math.Inf(1)
	d.LowestLabelY = math.Inf(-1)
	for _, it := range items {
		lo, hi := barExtent(it)
		top := trial.Map(hi) - c.labelPadding
		d.HighestLabelY = math.Min(d.HighestLabelY, top)
		d.LowestLabelY = math.Max(d.LowestLabelY, trial.Map(lo))

		label := c.format(it.CumulativeTotal)
		if px := labelWidth(label, c.perChar); px > d.WidestLabelPx {
			d.WidestLabel, d.WidestLabelPx = label, px
		}
	}

	d.RequiredTop = math.Max(0, base.Top-d.HighestLabelY+c.labelHeight+c.labelPadding) + c.safety
	out.Top = mathutil.MaxOf(base.Top, d.RequiredTop, c.minTop)

	if d.HasNegative {
		d.BottomShortfall = math.Max(0, d.LowestLabelY+c.labelPadding+c.labelHeight-innerHeight)
		if d.BottomShortfall > 0 {
			out.Bottom = base.Bottom + d.BottomShortfall + c.safety
		}
	}

	out.Right = math.Max(base.Right, d.WidestLabelPx+c.labelPadding)

	for _, v := range trial.Ticks(tickCount) {
		d.WidestTickPx = math.Max(d.WidestTickPx, labelWidth(c.format(v), c.perChar))
	}
	out.Left = math.Max(base.Left, d.WidestTickPx+c.labelPadding)

	return out, d
}

func labelWidth(label string, perChar float64) float64 {
	return float64(lipgloss.Width(label)) * perChar
}
