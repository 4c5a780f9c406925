package breakdown

import "golang.org/x/text/language"

// SortOrder orders sibling breakdown items.
type SortOrder string

const (
	SortNone         SortOrder = "none"
	SortValueDesc    SortOrder = "value-desc"
	SortValueAsc     SortOrder = "value-asc"
	SortAlphabetical SortOrder = "alphabetical"
)

// Defaults for the consolidated tail bucket.
const (
	DefaultOthersLabel = "Others"
	DefaultOthersColor = "#bdc3c7"
	DefaultIndentSize  = 2
)

// Config is the grouping strategy applied to every sibling group.
type Config struct {
	// MaxBreakdowns caps visible siblings when ShowOthers is set. Zero
	// disables the cap.
	MaxBreakdowns int          `json:"maxBreakdowns"`
	ShowOthers    bool         `json:"showOthers"`
	OthersLabel   string       `json:"othersLabel"`
	OthersColor   string       `json:"othersColor"`
	Sort          SortOrder    `json:"sort"`
	IndentSize    int          `json:"indentSize"`
	Locale        language.Tag `json:"locale"`
}

// Option configures an Engine.
type Option func(*Config)

// WithMaxBreakdowns sets the sibling cap used with WithOthers.
func WithMaxBreakdowns(n int) Option {
	return func(c *Config) { c.MaxBreakdowns = n }
}

// WithOthers enables the Others bucket for siblings beyond the cap.
func WithOthers(label, color string) Option {
	return func(c *Config) {
		c.ShowOthers = true
		if label != "" {
			c.OthersLabel = label
		}
		if color != "" {
			c.OthersColor = color
		}
	}
}

// WithSort sets the sibling order.
func WithSort(order SortOrder) Option {
	return func(c *Config) { c.Sort = order }
}

// WithIndentSize sets the visual indent per level.
func WithIndentSize(n int) Option {
	return func(c *Config) { c.IndentSize = n }
}

// WithLocale sets the collation locale for alphabetical sorting.
func WithLocale(tag language.Tag) Option {
	return func(c *Config) { c.Locale = tag }
}

// WithConfig replaces the whole strategy, typically one previously read
// back with Engine.Config or built from DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// DefaultConfig returns the strategy used when no options are given.
func DefaultConfig() Config {
	return Config{
		OthersLabel: DefaultOthersLabel,
		OthersColor: DefaultOthersColor,
		Sort:        SortNone,
		IndentSize:  DefaultIndentSize,
		Locale:      language.English,
	}
}
