// Package jsonview renders syntax-highlighted JSON for frames and reports.
package jsonview

import (
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/x/ansi"

	"github.com/coredds/mintwaterfall/internal/mathutil"
)

// Styles holds styles for JSON tokens.
type Styles struct {
	Text        lipgloss.Style
	Key         lipgloss.Style
	String      lipgloss.Style
	Number      lipgloss.Style
	Bool        lipgloss.Style
	Null        lipgloss.Style
	Punctuation lipgloss.Style
}

// PlainStyles renders tokens without decoration.
func PlainStyles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle(),
		Key:         lipgloss.NewStyle(),
		String:      lipgloss.NewStyle(),
		Number:      lipgloss.NewStyle(),
		Bool:        lipgloss.NewStyle(),
		Null:        lipgloss.NewStyle(),
		Punctuation: lipgloss.NewStyle(),
	}
}

// ColorStyles is the palette used for terminal output.
func ColorStyles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle(),
		Key:         lipgloss.NewStyle().Foreground(lipgloss.Color("#4dabf7")),
		String:      lipgloss.NewStyle().Foreground(lipgloss.Color("#69db7c")),
		Number:      lipgloss.NewStyle().Foreground(lipgloss.Color("#ffa94d")),
		Bool:        lipgloss.NewStyle().Foreground(lipgloss.Color("#da77f2")),
		Null:        lipgloss.NewStyle().Foreground(lipgloss.Color("#868e96")),
		Punctuation: lipgloss.NewStyle().Foreground(lipgloss.Color("#868e96")),
	}
}

// Model is a scrollable JSON document.
type Model struct {
	styles Styles
	width  int
	height int

	lines    []string
	tokens   [][]chroma.Token
	maxWidth int
	yOffset  int
	xOffset  int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new JSON view model.
func New(opts ...Option) Model {
	m := Model{styles: PlainStyles()}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithSize sets the viewport dimensions.
func WithSize(width, height int) Option {
	return func(m *Model) { m.width, m.height = width, height }
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.clampOffsets()
}

// LineCount returns the number of lines.
func (m Model) LineCount() int { return len(m.lines) }

// MaxWidth returns the widest line.
func (m Model) MaxWidth() int { return m.maxWidth }

// Offsets returns the current vertical and horizontal scroll.
func (m Model) Offsets() (y, x int) { return m.yOffset, m.xOffset }

// SetValue formats and tokenizes a JSON-serializable value and resets the
// scroll position.
func (m *Model) SetValue(value any) error {
	m.lines, m.tokens, m.maxWidth = nil, nil, 0
	m.yOffset, m.xOffset = 0, 0
	if value == nil {
		return nil
	}

	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("format json: %w", err)
	}

	text := string(b)
	m.lines = strings.Split(text, "\n")
	m.tokens = tokenizeLines(text)
	if len(m.tokens) != len(m.lines) {
		m.tokens = nil
	}
	for _, line := range m.lines {
		m.maxWidth = max(m.maxWidth, lipgloss.Width(line))
	}
	return nil
}

// ScrollBy moves the viewport, staying within the document.
func (m *Model) ScrollBy(dy, dx int) {
	m.yOffset += dy
	m.xOffset += dx
	m.clampOffsets()
}

func (m *Model) clampOffsets() {
	m.yOffset = mathutil.Clamp(m.yOffset, 0, max(len(m.lines)-m.height, 0))
	m.xOffset = mathutil.Clamp(m.xOffset, 0, max(m.maxWidth-m.width, 0))
}

// View renders the visible window of the document.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	out := make([]string, 0, m.height)
	for i := m.yOffset; i < len(m.lines) && len(out) < m.height; i++ {
		out = append(out, m.RenderLine(i, m.xOffset, m.width))
	}
	return strings.Join(out, "\n")
}

// RenderLine renders a single line with horizontal scroll and highlighting.
func (m Model) RenderLine(index, offset, width int) string {
	if width <= 0 || index < 0 || index >= len(m.lines) {
		return ""
	}
	if len(m.tokens) == len(m.lines) {
		return m.renderTokens(m.tokens[index], offset, width)
	}
	return m.styles.Text.Render(pad(ansi.Cut(m.lines[index], max(offset, 0), max(offset, 0)+width), width))
}

func (m Model) renderTokens(tokens []chroma.Token, offset, width int) string {
	offset = max(offset, 0)
	end := offset + width
	var b strings.Builder
	col := 0

	for _, token := range tokens {
		w := lipgloss.Width(token.Value)
		if w == 0 {
			continue
		}
		tokenStart, tokenEnd := col, col+w
		if tokenEnd > offset && tokenStart < end {
			start := mathutil.Clamp(offset-tokenStart, 0, w)
			stop := mathutil.Clamp(end-tokenStart, 0, w)
			if seg := ansi.Cut(token.Value, start, stop); seg != "" {
				b.WriteString(m.styleFor(token).Render(seg))
			}
		}
		col = tokenEnd
		if col >= end {
			break
		}
	}
	return pad(b.String(), width)
}

func (m Model) styleFor(token chroma.Token) lipgloss.Style {
	switch {
	case token.Type == chroma.NameTag:
		return m.styles.Key
	case token.Type.InSubCategory(chroma.LiteralString):
		return m.styles.String
	case token.Type.InSubCategory(chroma.LiteralNumber):
		return m.styles.Number
	case token.Type.InCategory(chroma.Keyword):
		if token.Value == "null" {
			return m.styles.Null
		}
		return m.styles.Bool
	case token.Type == chroma.Punctuation:
		return m.styles.Punctuation
	default:
		return m.styles.Text
	}
}

// Highlight formats value as indented, highlighted JSON in one string.
func Highlight(value any, s Styles) (string, error) {
	m := New(WithStyles(s))
	if err := m.SetValue(value); err != nil {
		return "", err
	}
	out := make([]string, m.LineCount())
	for i := range out {
		out[i] = strings.TrimRight(m.RenderLine(i, 0, m.maxWidth), " ")
	}
	return strings.Join(out, "\n"), nil
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func tokenizeLines(text string) [][]chroma.Token {
	if jsonLexer == nil {
		return nil
	}
	it, err := jsonLexer.Tokenise(nil, text)
	if err != nil {
		return nil
	}

	lines := [][]chroma.Token{{}}
	for _, token := range it.Tokens() {
		if token.Type == chroma.EOFType {
			break
		}
		for i, part := range strings.Split(token.Value, "\n") {
			if i > 0 {
				lines = append(lines, []chroma.Token{})
			}
			if part != "" {
				lines[len(lines)-1] = append(lines[len(lines)-1], chroma.Token{Type: token.Type, Value: part})
			}
		}
	}
	return lines
}

var jsonLexer = func() chroma.Lexer {
	lexer := lexers.Get("json")
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}()
