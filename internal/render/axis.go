package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/coredds/mintwaterfall/internal/format"
	"github.com/coredds/mintwaterfall/internal/scale"
)

// yAxisLabels maps canvas rows to tick labels for rows plot rows.
func yAxisLabels(y *scale.Linear, rows int) map[int]string {
	labels := make(map[int]string)
	if rows <= 0 {
		return labels
	}
	for _, v := range y.Ticks(min(4, rows)) {
		row := int(math.Round(y.Map(v)))
		if row < 0 || row >= rows {
			continue
		}
		if _, taken := labels[row]; !taken {
			labels[row] = format.ShortNumber(v)
		}
	}
	return labels
}

// maxLabelWidth returns the maximum display width of labels.
func maxLabelWidth(labels map[int]string) int {
	w := 0
	for _, label := range labels {
		w = max(w, lipgloss.Width(label))
	}
	return w
}

// applyYAxisLabels prepends right-aligned labels to chart lines.
func applyYAxisLabels(lines []string, labels map[int]string, width int, style lipgloss.Style) []string {
	if width <= 0 {
		return lines
	}
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		raw := labels[i]
		prefix := strings.Repeat(" ", max(width-lipgloss.Width(raw), 0))
		if raw != "" {
			raw = style.Render(raw)
		}
		out = append(out, prefix+raw+" "+line)
	}
	return out
}

// span is a half-open column range [start, end).
type span struct{ start, end int }

func (s span) width() int  { return s.end - s.start }
func (s span) center() int { return s.start + s.width()/2 }

// labelLine writes each label centered on its span, truncated to the span
// width. Labels that would touch the previous one are dropped.
func labelLine(width int, labels []string, spans []span) string {
	line := []rune(strings.Repeat(" ", max(width, 0)))
	lastEnd := -2
	for i, label := range labels {
		if i >= len(spans) || label == "" {
			continue
		}
		s := spans[i]
		label = ansi.Truncate(label, max(s.width(), 1), "")
		runes := []rune(label)
		start := max(s.center()-len(runes)/2, 0)
		end := min(start+len(runes), width)
		if start <= lastEnd+1 || end <= start {
			continue
		}
		copy(line[start:end], runes[:end-start])
		lastEnd = end - 1
	}
	return string(line)
}

// centered places value in the middle of a width x height block.
func centered(width, height int, value string) string {
	if height < 1 {
		return ""
	}
	lines := make([]string, height)
	for i := range lines {
		lines[i] = strings.Repeat(" ", max(width, 0))
	}
	if width <= 0 {
		return strings.Join(lines, "\n")
	}
	content := strings.Split(value, "\n")
	start := max((height-len(content))/2, 0)
	for i, c := range content {
		idx := start + i
		if idx >= height {
			break
		}
		c = ansi.Truncate(c, width, "")
		pad := max((width-lipgloss.Width(c))/2, 0)
		lines[idx] = strings.Repeat(" ", pad) + c
	}
	return strings.Join(lines, "\n")
}
