package scale

import (
	"math"

	mscale "github.com/aclements/go-moremath/scale"
	mstats "github.com/aclements/go-moremath/stats"

	"github.com/coredds/mintwaterfall/internal/mathutil"
)

// Linear maps a continuous domain onto a continuous range.
type Linear struct {
	norm   mscale.Linear
	r0, r1 float64
}

// NewLinear returns a linear scale over the extent of values. NaN values
// are ignored; an empty sample yields the domain [0, 1].
func NewLinear(values []float64, opts ...Option) *Linear {
	o := newOptions(opts)

	var lo, hi float64
	switch {
	case o.domain != nil:
		lo, hi = o.domain[0], o.domain[1]
	default:
		lo, hi = extent(values)
	}
	if o.zero {
		lo = math.Min(0, lo)
		hi = math.Max(0, hi)
	}
	if o.nice {
		lo, hi = Nice(lo, hi, o.niceCount)
	}
	return &Linear{
		norm: mscale.Linear{Min: lo, Max: hi, Clamp: o.clamp},
		r0:   o.r0,
		r1:   o.r1,
	}
}

func extent(values []float64) (float64, float64) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if mathutil.IsFinite(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 1
	}
	return mstats.Bounds(finite)
}

func (l *Linear) Kind() Kind { return KindLinear }

func (l *Linear) Range() (float64, float64) { return l.r0, l.r1 }

// Domain returns the input interval.
func (l *Linear) Domain() (float64, float64) { return l.norm.Min, l.norm.Max }

// Clamped reports whether outputs are clamped to the range.
func (l *Linear) Clamped() bool { return l.norm.Clamp }

// Map maps v onto the range. A degenerate domain maps every value to the
// middle of the range.
func (l *Linear) Map(v float64) float64 {
	return mathutil.Lerp(l.r0, l.r1, l.norm.Map(v))
}

// Invert maps a range position back into the domain.
func (l *Linear) Invert(y float64) float64 {
	if l.r0 == l.r1 {
		return l.norm.Min
	}
	t := (y - l.r0) / (l.r1 - l.r0)
	if l.norm.Clamp {
		t = mathutil.Clamp(t, 0, 1)
	}
	return mathutil.Lerp(l.norm.Min, l.norm.Max, t)
}

// Nice returns a copy with the domain extended to round tick boundaries.
func (l *Linear) Nice(count int) *Linear {
	out := *l
	out.norm.Min, out.norm.Max = Nice(l.norm.Min, l.norm.Max, count)
	return &out
}

// WithRange returns a copy mapping onto [r0, r1].
func (l *Linear) WithRange(r0, r1 float64) *Linear {
	out := *l
	out.r0, out.r1 = r0, r1
	return &out
}

// Ticks returns about count round values within the domain.
func (l *Linear) Ticks(count int) []float64 {
	return Ticks(l.norm.Min, l.norm.Max, count)
}
