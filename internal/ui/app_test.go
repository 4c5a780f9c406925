package ui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/coredds/mintwaterfall/internal/breakdown"
	"github.com/coredds/mintwaterfall/internal/chart"
	"github.com/coredds/mintwaterfall/internal/data"
)

func bar(label string, v float64) data.ChartDataItem {
	return data.ChartDataItem{Label: label, Stacks: []data.StackItem{{Value: v, Color: "#000"}}}
}

func drillItems() []data.ChartDataItem {
	sales := bar("Sales", 10)
	sales.Breakdown = []data.ChartDataItem{bar("Online", 6), bar("Retail", 4)}
	return []data.ChartDataItem{sales, bar("Returns", -3)}
}

// send feeds msg to the app and runs any returned command to completion,
// feeding frame results back in.
func send(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	model, cmd := a.Update(msg)
	a = model.(App)
	if cmd == nil {
		return a
	}
	if next, ok := cmd().(frameMsg); ok {
		model, _ = a.Update(next)
		a = model.(App)
	}
	return a
}

// newTestApp renders drillItems with the total bar on and the window sized.
func newTestApp(t *testing.T, cfg chart.Config, width, height int) App {
	t.Helper()
	a := New(chart.New(cfg.WithShowTotal(true)), drillItems())
	a = send(t, a, tea.WindowSizeMsg{Width: width, Height: height})
	model, _ := a.Update(a.Init()())
	return model.(App)
}

func labels(a App) []string {
	var out []string
	for _, it := range a.rows() {
		out = append(out, it.Label)
	}
	return out
}

func equal(a, b []string) bool {
	return strings.Join(a, "|") == strings.Join(b, "|")
}

func TestAppToggleExpandsAndCollapses(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, chart.NewConfig().WithBreakdown(breakdown.WithSort(breakdown.SortValueDesc)), 80, 30)
	if got := labels(a); !equal(got, []string{"Sales", "Returns", "Total"}) {
		t.Fatalf("initial rows = %v", got)
	}

	a = send(t, a, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := labels(a); !equal(got, []string{"Online", "Retail", "Returns", "Total"}) {
		t.Fatalf("rows after expand = %v", got)
	}
	if a.status != "expanded Sales" {
		t.Fatalf("status = %q, want %q", a.status, "expanded Sales")
	}

	// Cursor falls back to the first row once "Sales" is replaced by its children.
	if row, _ := a.current(); row.Label != "Online" {
		t.Fatalf("cursor row = %q, want Online", row.Label)
	}

	a = send(t, a, tea.KeyPressMsg{Code: 'c'})
	if got := labels(a); !equal(got, []string{"Sales", "Returns", "Total"}) {
		t.Fatalf("rows after collapse all = %v", got)
	}

	a = send(t, a, tea.KeyPressMsg{Code: 'e'})
	if got := labels(a); !equal(got, []string{"Online", "Retail", "Returns", "Total"}) {
		t.Fatalf("rows after expand all = %v", got)
	}
}

func TestAppCollapseSingleNode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		moves int
		key   tea.KeyPressMsg
	}{
		"enter on first child":  {moves: 0, key: tea.KeyPressMsg{Code: tea.KeyEnter}},
		"enter on second child": {moves: 1, key: tea.KeyPressMsg{Code: tea.KeyEnter}},
		"left on child":         {moves: 1, key: tea.KeyPressMsg{Code: tea.KeyLeft}},
		"h on child":            {moves: 0, key: tea.KeyPressMsg{Code: 'h'}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a := newTestApp(t, chart.NewConfig().WithBreakdown(), 80, 30)
			a = send(t, a, tea.KeyPressMsg{Code: tea.KeyEnter})
			if got := labels(a); !equal(got, []string{"Online", "Retail", "Returns", "Total"}) {
				t.Fatalf("rows after expand = %v", got)
			}
			for range tt.moves {
				a = send(t, a, tea.KeyPressMsg{Code: 'j'})
			}

			a = send(t, a, tt.key)
			if got := labels(a); !equal(got, []string{"Sales", "Returns", "Total"}) {
				t.Fatalf("rows after collapse = %v", got)
			}
			if a.status != "collapsed Sales" {
				t.Fatalf("status = %q, want %q", a.status, "collapsed Sales")
			}
			if row, _ := a.current(); row.Label != "Sales" {
				t.Fatalf("cursor row = %q, want Sales", row.Label)
			}
		})
	}
}

func TestAppCollapseParentOnRoot(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, chart.NewConfig().WithBreakdown(), 80, 30)
	a = send(t, a, tea.KeyPressMsg{Code: tea.KeyLeft})
	if a.status != "nothing to collapse" {
		t.Fatalf("status = %q, want %q", a.status, "nothing to collapse")
	}
	if got := labels(a); !equal(got, []string{"Sales", "Returns", "Total"}) {
		t.Fatalf("rows = %v", got)
	}
}

func TestAppToggleOnLeaf(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, chart.NewConfig().WithBreakdown(), 80, 30)
	a = send(t, a, tea.KeyPressMsg{Code: 'j'})
	if row, _ := a.current(); row.Label != "Returns" {
		t.Fatalf("cursor row = %q, want Returns", row.Label)
	}
	a = send(t, a, tea.KeyPressMsg{Code: tea.KeyEnter})
	if a.status != "nothing to expand" {
		t.Fatalf("status = %q, want %q", a.status, "nothing to expand")
	}
}

func TestAppBreakdownDisabled(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, chart.NewConfig(), 80, 30)
	a = send(t, a, tea.KeyPressMsg{Code: 'e'})
	if a.status != "breakdown is disabled" {
		t.Fatalf("status = %q, want %q", a.status, "breakdown is disabled")
	}
	if a.err != nil {
		t.Fatalf("err = %v, want nil", a.err)
	}
}

func TestAppToggleTotal(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, chart.NewConfig(), 80, 30)
	a = send(t, a, tea.KeyPressMsg{Code: 't'})
	if got := labels(a); !equal(got, []string{"Sales", "Returns"}) {
		t.Fatalf("rows without total = %v", got)
	}
	if a.chart.Config().ShowTotal() {
		t.Fatal("ShowTotal() = true after toggle, want false")
	}
	a = send(t, a, tea.KeyPressMsg{Code: 't'})
	if got := labels(a); len(got) != 3 {
		t.Fatalf("rows with total = %v", got)
	}
}

func TestAppCursorBounds(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, chart.NewConfig(), 80, 30)
	a = send(t, a, tea.KeyPressMsg{Code: tea.KeyUp})
	if a.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", a.cursor)
	}
	for range 10 {
		a = send(t, a, tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if a.cursor != len(a.rows())-1 {
		t.Fatalf("cursor = %d, want %d", a.cursor, len(a.rows())-1)
	}
}

func TestAppContentFitsTerminal(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		width, height int
	}{
		"stacked":      {width: 80, height: 30},
		"side by side": {width: 120, height: 30},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a := newTestApp(t, chart.NewConfig().WithBreakdown(), tt.width, tt.height)
			out := a.content()
			lines := strings.Split(out, "\n")
			if len(lines) != tt.height {
				t.Fatalf("content height = %d, want %d", len(lines), tt.height)
			}
			for i, line := range lines {
				if w := ansi.StringWidth(line); w > tt.width {
					t.Fatalf("line %d width = %d, want <= %d", i, w, tt.width)
				}
			}
			plain := ansi.Strip(out)
			for _, want := range []string{"mintwaterfall", "▸ Sales", "Returns", "expand all"} {
				if !strings.Contains(plain, want) {
					t.Fatalf("content missing %q:\n%s", want, plain)
				}
			}
		})
	}
}

func TestAppDetails(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, chart.NewConfig(), 80, 30)
	a = send(t, a, tea.KeyPressMsg{Code: 'd'})
	if !a.showDetail {
		t.Fatal("showDetail = false after d")
	}
	plain := ansi.Strip(a.content())
	if !strings.Contains(plain, `"label": "Sales"`) {
		t.Fatalf("details missing selected item:\n%s", plain)
	}
}

func TestAppQuit(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, chart.NewConfig(), 80, 30)
	_, cmd := a.Update(tea.KeyPressMsg{Code: 'q'})
	if cmd == nil {
		t.Fatal("quit returned nil command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("quit command did not produce tea.QuitMsg")
	}
}

func TestPanel(t *testing.T) {
	t.Parallel()

	plain := lipgloss.NewStyle()
	out := ansi.Strip(panel("Items", "a\nb\nc", 11, 4, plain, plain))
	want := []string{
		"╭─ Items ─╮",
		"│a        │",
		"│b        │",
		"╰─────────╯",
	}
	if got := strings.Split(out, "\n"); !equal(got, want) {
		t.Fatalf("panel() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}
