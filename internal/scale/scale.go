// Package scale maps data values onto pixel ranges.
//
// Every scale carries an explicit Kind. Position and Bandwidth dispatch on
// it, so callers never type-assert a scale for optional methods.
package scale

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnparsableValue indicates a value of the wrong type for a scale.
	ErrUnparsableValue = errors.New("scale: value cannot be mapped by this scale")
	// ErrUnknownValue indicates a categorical value outside the domain.
	ErrUnknownValue = errors.New("scale: value not in domain")
	// ErrNotPositional indicates a scale that maps to colors, not pixels.
	ErrNotPositional = errors.New("scale: scale has no pixel positions")
)

// Kind tags the concrete type of a Scale.
type Kind int

const (
	KindBand Kind = iota
	KindLinear
	KindTime
	KindOrdinal
)

func (k Kind) String() string {
	switch k {
	case KindBand:
		return "band"
	case KindLinear:
		return "linear"
	case KindTime:
		return "time"
	case KindOrdinal:
		return "ordinal"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Scale is implemented by *Band, *Linear, *Time and *Ordinal.
type Scale interface {
	Kind() Kind
	// Range returns the output interval. Ordinal scales return 0, 0.
	Range() (r0, r1 float64)
}

// Position maps v through s.
func Position(s Scale, v any) (float64, error) {
	switch s.Kind() {
	case KindBand:
		b := s.(*Band)
		key, ok := v.(string)
		if !ok {
			key = fmt.Sprint(v)
		}
		x, ok := b.Map(key)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownValue, key)
		}
		return x, nil
	case KindLinear:
		f, ok := toFloat(v)
		if !ok {
			return 0, fmt.Errorf("%w: %T on linear scale", ErrUnparsableValue, v)
		}
		return s.(*Linear).Map(f), nil
	case KindTime:
		t, ok := v.(time.Time)
		if !ok {
			return 0, fmt.Errorf("%w: %T on time scale", ErrUnparsableValue, v)
		}
		return s.(*Time).Map(t), nil
	case KindOrdinal:
		return 0, ErrNotPositional
	}
	return 0, fmt.Errorf("scale: unknown kind %v", s.Kind())
}

// Bandwidth returns the band width of categorical scales and 0 otherwise.
func Bandwidth(s Scale) float64 {
	switch s.Kind() {
	case KindBand:
		return s.(*Band).Bandwidth()
	case KindLinear, KindTime, KindOrdinal:
		return 0
	}
	return 0
}

type options struct {
	r0, r1 float64

	padding      *float64
	paddingInner *float64
	paddingOuter *float64
	align        float64
	round        bool

	domain    *[2]float64
	nice      bool
	niceCount int
	zero      bool
	clamp     bool

	tickFormat string
	palette    []string
}

func newOptions(opts []Option) options {
	o := options{r0: 0, r1: 1, align: 0.5, niceCount: 10}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures scale constructors. Options that do not apply to a
// scale kind are ignored.
type Option func(*options)

// WithRange sets the output interval.
func WithRange(r0, r1 float64) Option {
	return func(o *options) {
		o.r0 = r0
		o.r1 = r1
	}
}

// WithPadding sets uniform inner and outer band padding.
func WithPadding(p float64) Option {
	return func(o *options) { o.padding = &p }
}

// WithPaddingInner sets inner band padding. It takes precedence over
// WithPadding regardless of option order.
func WithPaddingInner(p float64) Option {
	return func(o *options) { o.paddingInner = &p }
}

// WithPaddingOuter sets outer band padding. It takes precedence over
// WithPadding regardless of option order.
func WithPaddingOuter(p float64) Option {
	return func(o *options) { o.paddingOuter = &p }
}

// WithAlign distributes outer space: 0 left, 0.5 centered, 1 right.
func WithAlign(a float64) Option {
	return func(o *options) { o.align = a }
}

// WithRound rounds band starts and widths to whole pixels.
func WithRound(round bool) Option {
	return func(o *options) { o.round = round }
}

// WithDomain fixes a continuous domain instead of the value extent.
func WithDomain(lo, hi float64) Option {
	return func(o *options) { o.domain = &[2]float64{lo, hi} }
}

// WithNice extends continuous domains to round tick boundaries.
func WithNice(count int) Option {
	return func(o *options) {
		o.nice = true
		if count > 0 {
			o.niceCount = count
		}
	}
}

// WithZero widens linear domains to include zero.
func WithZero() Option {
	return func(o *options) { o.zero = true }
}

// WithClamp clamps continuous outputs to the range.
func WithClamp() Option {
	return func(o *options) { o.clamp = true }
}

// WithTickFormat overrides the automatic time label layout.
func WithTickFormat(layout string) Option {
	return func(o *options) { o.tickFormat = layout }
}

// WithPalette sets the ordinal output values.
func WithPalette(colors ...string) Option {
	return func(o *options) { o.palette = colors }
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
