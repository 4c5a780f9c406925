// Package format provides number and label formatting helpers.
package format

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Func formats a numeric value for display.
type Func func(float64) string

// Formatter renders numbers with locale-aware digit grouping.
type Formatter struct {
	printer  *message.Printer
	decimals int
}

// New creates a formatter for the given language with a fixed number of
// decimal places. A negative decimals value selects automatic precision:
// integers print without a fraction, everything else with two places.
func New(tag language.Tag, decimals int) Formatter {
	return Formatter{
		printer:  message.NewPrinter(tag),
		decimals: decimals,
	}
}

// Format renders v, e.g. 1234567.5 -> "1,234,567.50".
func (f Formatter) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%v", v)
	}
	decimals := f.decimals
	if decimals < 0 {
		decimals = 0
		if v != math.Trunc(v) {
			decimals = 2
		}
	}
	return f.printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

var english = New(language.English, -1)

// Number formats a value with English digit grouping and automatic precision.
func Number(v float64) string {
	return english.Format(v)
}

// ShortNumber formats a value into a compact string (e.g., 999, 9.9K, 120K, -1.2M).
func ShortNumber(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	n := int64(math.Round(v))
	var out string
	switch {
	case v < 1_000 && v != math.Trunc(v):
		out = strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	case n < 1_000:
		out = fmt.Sprintf("%d", n)
	case n < 10_000:
		out = fmt.Sprintf("%.1fK", v/1_000)
	case n < 1_000_000:
		out = fmt.Sprintf("%dK", n/1_000)
	case n < 10_000_000:
		out = fmt.Sprintf("%.1fM", v/1_000_000)
	case n < 1_000_000_000:
		out = fmt.Sprintf("%dM", n/1_000_000)
	case n < 10_000_000_000:
		out = fmt.Sprintf("%.1fB", v/1_000_000_000)
	default:
		out = fmt.Sprintf("%dB", n/1_000_000_000)
	}
	if out == "0" {
		return out
	}
	return sign + out
}

// Signed formats a value with an explicit sign for positive deltas.
func Signed(v float64) string {
	if v > 0 {
		return "+" + Number(v)
	}
	return Number(v)
}

// Percent formats a percentage value (already scaled to 0-100).
func Percent(v float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", max(decimals, 0), v)
}
