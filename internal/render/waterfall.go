// Package render draws waterfall frames as terminal text.
package render

import (
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/coredds/mintwaterfall/internal/chart"
	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/format"
)

const (
	barRune       = '█'
	connectorRune = '┄'
)

// Styles holds the non-bar styles of the chart.
type Styles struct {
	Axis      lipgloss.Style
	Connector lipgloss.Style
	Muted     lipgloss.Style
	Value     lipgloss.Style
}

// StylesFromTheme derives styles from a chart theme.
func StylesFromTheme(t chart.Theme) Styles {
	return Styles{
		Axis:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Axis)),
		Connector: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Connector)),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Axis)),
		Value:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Label)),
	}
}

// Model draws one frame at a fixed terminal size.
type Model struct {
	styles       Styles
	customStyles bool
	width        int
	height       int
	frame        *chart.Frame
	labels       bool
	emptyMessage string
}

// Option is a functional option for configuring the model.
type Option func(*Model)

// New creates a model. Styles default to the frame's theme.
func New(opts ...Option) Model {
	m := Model{labels: true, emptyMessage: "no data"}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithStyles overrides the theme-derived styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles, m.customStyles = s, true }
}

// WithSize sets the size in terminal cells.
func WithSize(w, h int) Option {
	return func(m *Model) { m.width, m.height = w, h }
}

// WithFrame sets the frame to draw.
func WithFrame(f *chart.Frame) Option {
	return func(m *Model) {
		m.frame = f
	}
}

// WithValueLabels toggles running-total labels above bars.
func WithValueLabels(on bool) Option {
	return func(m *Model) { m.labels = on }
}

// WithEmptyMessage sets the text shown when nothing can be drawn.
func WithEmptyMessage(msg string) Option {
	return func(m *Model) { m.emptyMessage = msg }
}

// SetSize updates the dimensions.
func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
}

// SetFrame replaces the frame.
func (m *Model) SetFrame(f *chart.Frame) {
	m.frame = f
}

// SetValueLabels toggles running-total labels above bars.
func (m *Model) SetValueLabels(on bool) {
	m.labels = on
}

// ValueLabels reports whether running-total labels are drawn.
func (m Model) ValueLabels() bool { return m.labels }

func (m Model) currentStyles() Styles {
	if m.customStyles || m.frame == nil {
		return m.styles
	}
	return StylesFromTheme(m.frame.Theme)
}

// View renders the frame.
func (m Model) View() string {
	if m.width < 4 || m.height < 4 {
		return ""
	}
	f := m.frame
	if f == nil || len(f.Items) == 0 {
		return centered(m.width, m.height, m.emptyMessage)
	}
	st := m.currentStyles()

	// One line for x labels below the axis.
	rows := m.height - 1
	plotRows := rows - 1
	// Value labels sit one row above their bar, so the tallest bar needs headroom.
	top := 0.0
	if m.labels {
		top = 1
	}
	ys := f.Y.WithRange(float64(plotRows-1), top)

	yLabels := yAxisLabels(ys, plotRows)
	labelWidth := maxLabelWidth(yLabels)
	chartWidth := m.width - labelWidth - 1
	plotWidth := chartWidth - 1
	if plotWidth < len(f.Items) {
		return centered(m.width, m.height, "terminal too narrow")
	}

	c := canvas.New(chartWidth, rows, canvas.WithViewWidth(chartWidth), canvas.WithViewHeight(rows))
	graph.DrawXYAxis(&c, canvas.Point{X: 0, Y: rows - 1}, st.Axis)

	spans := columns(f, plotWidth)
	rowOf := func(v float64) int {
		return min(max(int(math.Round(ys.Map(v))), 0), plotRows-1)
	}

	for i, it := range f.Items {
		s := spans[i]
		for _, seg := range segments(it, f.Stacked, f.Theme) {
			top, bottom := rowOf(math.Max(seg.from, seg.to)), rowOf(math.Min(seg.from, seg.to))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(seg.color))
			for y := top; y <= bottom; y++ {
				for x := s.start; x < s.end; x++ {
					c.SetRuneWithStyle(canvas.Point{X: x + 1, Y: y}, barRune, style)
				}
			}
		}

		if i+1 < len(f.Items) && !f.Items[i+1].IsTotal {
			y := rowOf(it.CumulativeTotal)
			for x := s.end; x < spans[i+1].start; x++ {
				c.SetRuneWithStyle(canvas.Point{X: x + 1, Y: y}, connectorRune, st.Connector)
			}
		}

		if m.labels {
			valueLabel(&c, it, s, rowOf, st.Value)
		}
	}

	lines := strings.Split(c.View(), "\n")
	lines = applyYAxisLabels(lines, yLabels, labelWidth, st.Muted)

	names := make([]string, len(f.Items))
	for i, it := range f.Items {
		names[i] = it.Label
	}
	shifted := make([]span, len(spans))
	for i, s := range spans {
		shifted[i] = span{s.start + 1, s.end + 1}
	}
	xLine := st.Muted.Render(labelLine(chartWidth, names, shifted))
	lines = append(lines, strings.Repeat(" ", labelWidth)+" "+xLine)
	return strings.Join(lines, "\n")
}

func valueLabel(c *canvas.Model, it data.ProcessedDataItem, s span, rowOf func(float64) int, style lipgloss.Style) {
	row := rowOf(math.Max(it.PrevCumulativeTotal, it.CumulativeTotal)) - 1
	if row < 0 {
		return
	}
	label := ansi.Truncate(format.ShortNumber(it.CumulativeTotal), max(s.width(), 1), "")
	start := max(s.center()-len([]rune(label))/2, 0)
	for i, r := range []rune(label) {
		c.SetRuneWithStyle(canvas.Point{X: start + i + 1, Y: row}, r, style)
	}
}

// columns converts the frame's pixel geometry to plot columns, keeping at
// least one column per bar. Wide bars give up their last column so
// neighbours never touch and connectors stay visible.
func columns(f *chart.Frame, plotWidth int) []span {
	sx := float64(plotWidth) / math.Max(f.InnerWidth, 1)
	out := make([]span, len(f.Bars))
	for i, b := range f.Bars {
		start := min(max(int(math.Floor(b.X*sx)), 0), plotWidth-1)
		end := min(max(int(math.Round((b.X+b.Width)*sx)), start+1), plotWidth)
		if end-start >= 3 {
			end--
		}
		out[i] = span{start, end}
	}
	return out
}

type segment struct {
	from, to float64
	color    string
}

// segments splits a bar into its stacks, or returns the whole bar in one
// color when the chart is not stacked.
func segments(it data.ProcessedDataItem, stacked bool, t chart.Theme) []segment {
	if it.IsTotal {
		return []segment{{from: 0, to: it.CumulativeTotal, color: it.Stacks[0].Color}}
	}
	if !stacked || len(it.Stacks) == 1 {
		color := it.Stacks[0].Color
		if len(it.Stacks) > 1 {
			color = t.Increase
			if it.BarTotal < 0 {
				color = t.Decrease
			}
		}
		return []segment{{from: it.PrevCumulativeTotal, to: it.CumulativeTotal, color: color}}
	}
	out := make([]segment, 0, len(it.Stacks))
	at := it.PrevCumulativeTotal
	for _, s := range it.Stacks {
		out = append(out, segment{from: at, to: at + s.Value, color: s.Color})
		at += s.Value
	}
	return out
}
