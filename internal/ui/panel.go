package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// panel draws content inside a rounded box with the title set into the top
// border. Content lines beyond the box are dropped.
func panel(title, content string, width, height int, border, titleStyle lipgloss.Style) string {
	if width < 4 || height < 2 {
		return ""
	}
	b := lipgloss.RoundedBorder()
	inner := width - 2

	title = truncate(" "+title+" ", max(inner-2, 0))
	if strings.TrimSpace(title) == "" {
		title = ""
	}
	fill := max(inner-1-lipgloss.Width(title), 0)
	top := border.Render(b.TopLeft+b.Top) + titleStyle.Render(title) +
		border.Render(strings.Repeat(b.Top, fill)+b.TopRight)

	lines := strings.Split(content, "\n")
	rows := make([]string, 0, height)
	rows = append(rows, top)
	for i := range height - 2 {
		var line string
		if i < len(lines) {
			line = truncate(lines[i], inner)
		}
		line += strings.Repeat(" ", max(inner-lipgloss.Width(line), 0))
		rows = append(rows, border.Render(b.Left)+line+border.Render(b.Right))
	}
	rows = append(rows, border.Render(b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight))
	return strings.Join(rows, "\n")
}

func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
