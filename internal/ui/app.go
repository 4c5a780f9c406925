// Package ui renders the interactive breakdown explorer.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/coredds/mintwaterfall/internal/chart"
	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/format"
	"github.com/coredds/mintwaterfall/internal/jsonview"
	"github.com/coredds/mintwaterfall/internal/mathutil"
	"github.com/coredds/mintwaterfall/internal/render"
	"github.com/coredds/mintwaterfall/internal/ui/theme"
)

const (
	// sideBySideWidth is the terminal width from which the item list moves
	// beside the chart instead of below it.
	sideBySideWidth = 100
	listWidth       = 36
	totalRowKey     = "\x00total"
)

// frameMsg carries the result of a chart render.
type frameMsg struct {
	frame *chart.Frame
	err   error
}

// App is the explorer model.
type App struct {
	keys   KeyMap
	styles theme.Styles
	log    *zap.Logger

	chart *chart.Chart
	items []data.ChartDataItem
	frame *chart.Frame

	cursor     int
	selected   string
	showDetail bool

	waterfall render.Model
	detail    jsonview.Model

	width  int
	height int
	ready  bool
	status string
	err    error
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used for drill-down events.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithKeyMap overrides the default keybindings.
func WithKeyMap(k KeyMap) Option {
	return func(a *App) { a.keys = k }
}

// New creates an explorer over items rendered by c.
func New(c *chart.Chart, items []data.ChartDataItem, opts ...Option) App {
	a := App{
		keys:      DefaultKeyMap(),
		styles:    theme.NewStyles(),
		log:       zap.NewNop(),
		chart:     c,
		items:     items,
		waterfall: render.New(render.WithEmptyMessage("rendering...")),
		detail:    jsonview.New(jsonview.WithStyles(jsonview.ColorStyles())),
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.renderCmd()
}

func (a App) renderCmd() tea.Cmd {
	c, items := a.chart, a.items
	return func() tea.Msg {
		f, err := c.Render(context.Background(), items)
		return frameMsg{frame: f, err: err}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.frame = msg.frame
		a.waterfall.SetFrame(msg.frame)
		a.restoreCursor()
		a.syncDetail()

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resize()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, a.keys.Up):
			if a.showDetail {
				a.detail.ScrollBy(-1, 0)
			} else {
				a.move(-1)
			}

		case key.Matches(msg, a.keys.Down):
			if a.showDetail {
				a.detail.ScrollBy(1, 0)
			} else {
				a.move(1)
			}

		case key.Matches(msg, a.keys.Toggle):
			return a, a.toggle()

		case key.Matches(msg, a.keys.Parent):
			row, ok := a.current()
			if !ok || row.Node == nil || row.Node.ParentID == "" {
				a.status = "nothing to collapse"
				return a, nil
			}
			return a, a.collapseParent(row)

		case key.Matches(msg, a.keys.ExpandAll):
			return a, a.afterChange(a.chart.ExpandAll(), "expanded all")

		case key.Matches(msg, a.keys.CollapseAll):
			return a, a.afterChange(a.chart.CollapseAll(), "collapsed all")

		case key.Matches(msg, a.keys.Total):
			cfg := a.chart.Config()
			a.chart.SetConfig(cfg.WithShowTotal(!cfg.ShowTotal()))
			a.status = "total " + onOff(!cfg.ShowTotal())
			return a, a.renderCmd()

		case key.Matches(msg, a.keys.Labels):
			a.waterfall.SetValueLabels(!a.waterfall.ValueLabels())
			a.status = "labels " + onOff(a.waterfall.ValueLabels())

		case key.Matches(msg, a.keys.Details):
			a.showDetail = !a.showDetail
			a.resize()
			a.syncDetail()
		}
	}

	return a, nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// toggle expands the row under the cursor. Expanded nodes are replaced by
// their children, so enter on a child without a breakdown of its own
// collapses its parent instead.
func (a *App) toggle() tea.Cmd {
	row, ok := a.current()
	switch {
	case !ok || row.Node == nil:
		a.status = "nothing to expand"
		return nil
	case !row.Node.HasBreakdown && row.Node.ParentID != "":
		return a.collapseParent(row)
	case !row.Node.HasBreakdown:
		a.status = "nothing to expand"
		return nil
	}
	expanded, err := a.chart.Toggle(row.Node.ID)
	verb := "collapsed "
	if expanded {
		verb = "expanded "
	}
	a.log.Debug("toggle node", zap.String("id", row.Node.ID), zap.Bool("expanded", expanded), zap.Error(err))
	return a.afterChange(err, verb+row.Label)
}

// collapseParent folds row back into its parent and moves the cursor there.
func (a *App) collapseParent(row data.ProcessedDataItem) tea.Cmd {
	parent := row.Node.ParentID
	path, err := a.chart.Path(parent)
	if err != nil {
		return a.afterChange(err, "")
	}
	err = a.chart.Collapse(parent)
	a.log.Debug("collapse parent", zap.String("id", parent), zap.Error(err))
	if err == nil {
		a.selected = parent
	}
	return a.afterChange(err, "collapsed "+path[len(path)-1])
}

func (a *App) afterChange(err error, status string) tea.Cmd {
	switch {
	case errors.Is(err, chart.ErrBreakdownDisabled):
		a.status = "breakdown is disabled"
		return nil
	case err != nil:
		a.err = err
		return nil
	}
	a.status = status
	return a.renderCmd()
}

func (a App) rows() []data.ProcessedDataItem {
	if a.frame == nil {
		return nil
	}
	return a.frame.Items
}

func (a App) current() (data.ProcessedDataItem, bool) {
	rows := a.rows()
	if a.cursor < 0 || a.cursor >= len(rows) {
		return data.ProcessedDataItem{}, false
	}
	return rows[a.cursor], true
}

func rowKey(it data.ProcessedDataItem) string {
	switch {
	case it.IsTotal:
		return totalRowKey
	case it.Node != nil:
		return it.Node.ID
	default:
		return it.Label
	}
}

func (a *App) move(delta int) {
	rows := a.rows()
	if len(rows) == 0 {
		return
	}
	a.cursor = mathutil.Clamp(a.cursor+delta, 0, len(rows)-1)
	a.selected = rowKey(rows[a.cursor])
	a.syncDetail()
}

// restoreCursor keeps the cursor on the same row across re-renders, falling
// back to the nearest valid index when the row disappeared.
func (a *App) restoreCursor() {
	rows := a.rows()
	if len(rows) == 0 {
		a.cursor, a.selected = 0, ""
		return
	}
	for i, it := range rows {
		if a.selected != "" && rowKey(it) == a.selected {
			a.cursor = i
			return
		}
	}
	a.cursor = mathutil.Clamp(a.cursor, 0, len(rows)-1)
	a.selected = rowKey(rows[a.cursor])
}

func (a *App) syncDetail() {
	if !a.showDetail {
		return
	}
	row, ok := a.current()
	if !ok {
		_ = a.detail.SetValue(nil)
		return
	}
	if err := a.detail.SetValue(row); err != nil {
		a.err = err
	}
}

type paneLayout struct {
	chartW, chartH int
	listW, listH   int
	side           bool
}

func (a App) layout() paneLayout {
	body := max(a.height-2, 0)
	if a.width >= sideBySideWidth {
		return paneLayout{
			chartW: a.width - listWidth, chartH: body,
			listW: listWidth, listH: body,
			side: true,
		}
	}
	chartH := body * 3 / 5
	return paneLayout{chartW: a.width, chartH: chartH, listW: a.width, listH: body - chartH}
}

func (a *App) resize() {
	l := a.layout()
	a.waterfall.SetSize(max(l.chartW-2, 0), max(l.chartH-2, 0))
	a.detail.SetSize(max(l.listW-2, 0), max(l.listH-2, 0))
}

// View implements tea.Model.
func (a App) View() tea.View {
	var v tea.View
	v.AltScreen = true

	if !a.ready {
		v.SetContent("Initializing...")
		return v
	}
	v.SetContent(a.content())
	return v
}

func (a App) content() string {
	l := a.layout()

	chartPane := panel(a.chartTitle(), a.waterfall.View(), l.chartW, l.chartH, a.styles.Border, a.styles.Title)

	var listPane string
	if a.showDetail {
		listPane = panel("Details", a.detail.View(), l.listW, l.listH, a.styles.FocusBorder, a.styles.Title)
	} else {
		listPane = panel(a.listTitle(), a.listView(l.listW-2, l.listH-2), l.listW, l.listH, a.styles.FocusBorder, a.styles.Title)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, chartPane, listPane)
	if l.side {
		body = lipgloss.JoinHorizontal(lipgloss.Top, chartPane, listPane)
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.header(), body, a.helpBar())
}

func (a App) header() string {
	title := a.styles.Title.Render("mintwaterfall")
	switch {
	case a.err != nil:
		return title + " " + a.styles.Error.Render(a.err.Error())
	case a.status != "":
		return title + " " + a.styles.Muted.Render(a.status)
	}
	return title
}

func (a App) chartTitle() string {
	if a.frame == nil {
		return "Waterfall"
	}
	return fmt.Sprintf("Waterfall · %d bars · %s", len(a.frame.Items), a.frame.Source)
}

func (a App) listTitle() string {
	row, ok := a.current()
	if !ok || row.Node == nil {
		return "Items"
	}
	path, err := a.chart.Path(row.Node.ID)
	if err != nil || len(path) < 2 {
		return "Items"
	}
	return strings.Join(path, " › ")
}

func (a App) listView(width, height int) string {
	rows := a.rows()
	if width <= 0 || height <= 0 || len(rows) == 0 {
		return ""
	}

	start := 0
	if a.cursor >= height {
		start = a.cursor - height + 1
	}
	end := min(start+height, len(rows))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, a.rowLine(rows[i], width, i == a.cursor))
	}
	return strings.Join(lines, "\n")
}

func (a App) rowLine(it data.ProcessedDataItem, width int, selected bool) string {
	marker, indent := "  ", ""
	if it.Node != nil {
		indent = strings.Repeat("  ", it.Node.Level)
		if it.Node.HasBreakdown {
			marker = "▸ "
		}
	}

	value := format.Number(it.BarTotal)
	if !it.IsTotal {
		value = format.Signed(it.BarTotal)
	}
	labelWidth := max(width-lipgloss.Width(value)-1, 0)
	label := ansi.Truncate(indent+marker+it.Label, labelWidth, "…")
	label += strings.Repeat(" ", max(labelWidth-lipgloss.Width(label), 0))

	if selected {
		return a.styles.Selected.Render(label + " " + value)
	}

	valueStyle := a.styles.Increase
	switch {
	case it.IsTotal:
		valueStyle = a.styles.Title
	case it.BarTotal < 0:
		valueStyle = a.styles.Decrease
	}
	return a.styles.Text.Render(label) + " " + valueStyle.Render(value)
}

func (a App) helpBar() string {
	parts := make([]string, 0, len(a.keys.ShortHelp()))
	for _, b := range a.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, a.styles.HelpKey.Render(h.Key)+" "+a.styles.HelpDesc.Render(h.Desc))
	}
	return ansi.Truncate(strings.Join(parts, ""), max(a.width, 0), "")
}
