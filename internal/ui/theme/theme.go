// Package theme holds the explorer's adaptive colors and derived styles.
package theme

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/compat"
)

// Theme defines all colors used by the explorer.
type Theme struct {
	Primary compat.CompleteAdaptiveColor

	Text      compat.CompleteAdaptiveColor
	TextMuted compat.CompleteAdaptiveColor

	Border      compat.AdaptiveColor
	BorderFocus compat.CompleteAdaptiveColor

	SelectedFg compat.AdaptiveColor
	SelectedBg compat.AdaptiveColor
	Increase   compat.AdaptiveColor
	Decrease   compat.AdaptiveColor
	Error      compat.AdaptiveColor
}

// DefaultTheme is the adaptive color scheme used by default.
// Colors come from the Open Color palette: https://yeun.github.io/open-color/
var DefaultTheme = Theme{
	Primary: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#0b7285"), ANSI256: lipgloss.Color("31"), ANSI: lipgloss.Color("6")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#3bc9db"), ANSI256: lipgloss.Color("80"), ANSI: lipgloss.Color("14")},
	},

	Text: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#111827"), ANSI256: lipgloss.Color("0"), ANSI: lipgloss.Color("0")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#F9FAFB"), ANSI256: lipgloss.Color("15"), ANSI: lipgloss.Color("15")},
	},
	TextMuted: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#6B7280"), ANSI256: lipgloss.Color("240"), ANSI: lipgloss.Color("8")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#9CA3AF"), ANSI256: lipgloss.Color("250"), ANSI: lipgloss.Color("7")},
	},

	Border: compat.AdaptiveColor{
		Light: lipgloss.Color("#D1D5DB"),
		Dark:  lipgloss.Color("#374151"),
	},
	BorderFocus: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#0b7285"), ANSI256: lipgloss.Color("31"), ANSI: lipgloss.Color("6")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#3bc9db"), ANSI256: lipgloss.Color("80"), ANSI: lipgloss.Color("14")},
	},

	SelectedFg: compat.AdaptiveColor{
		Light: lipgloss.Color("229"),
		Dark:  lipgloss.Color("229"),
	},
	SelectedBg: compat.AdaptiveColor{
		Light: lipgloss.Color("57"),
		Dark:  lipgloss.Color("57"),
	},
	Increase: compat.AdaptiveColor{
		Light: lipgloss.Color("#2f9e44"),
		Dark:  lipgloss.Color("#51cf66"),
	},
	Decrease: compat.AdaptiveColor{
		Light: lipgloss.Color("#e03131"),
		Dark:  lipgloss.Color("#ff6b6b"),
	},
	Error: compat.AdaptiveColor{
		Light: lipgloss.Color("#FF0000"),
		Dark:  lipgloss.Color("#FF0000"),
	},
}

// Styles holds all lipgloss styles derived from a theme.
type Styles struct {
	Title lipgloss.Style
	Text  lipgloss.Style
	Muted lipgloss.Style

	// Node list
	Selected lipgloss.Style
	Increase lipgloss.Style
	Decrease lipgloss.Style
	Marker   lipgloss.Style

	// Panels
	Border      lipgloss.Style
	FocusBorder lipgloss.Style

	// Help bar
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	Error lipgloss.Style
}

// NewStyles creates a Styles instance from the default adaptive theme.
func NewStyles() Styles {
	t := DefaultTheme
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Text: lipgloss.NewStyle().
			Foreground(t.Text),

		Muted: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		Selected: lipgloss.NewStyle().
			Foreground(t.SelectedFg).
			Background(t.SelectedBg),

		Increase: lipgloss.NewStyle().
			Foreground(t.Increase),

		Decrease: lipgloss.NewStyle().
			Foreground(t.Decrease),

		Marker: lipgloss.NewStyle().
			Foreground(t.Primary),

		Border: lipgloss.NewStyle().
			Foreground(t.Border),

		FocusBorder: lipgloss.NewStyle().
			Foreground(t.BorderFocus),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Border).
			Padding(0, 1),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			PaddingRight(1),

		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),
	}
}
