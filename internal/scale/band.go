package scale

import (
	"math"
	"slices"

	"github.com/coredds/mintwaterfall/internal/mathutil"
)

// Band divides a continuous range into uniform bands, one per distinct
// domain value, in first-seen order.
type Band struct {
	domain []string
	index  map[string]int

	r0, r1       float64
	paddingInner float64
	paddingOuter float64
	align        float64
	round        bool

	step      float64
	bandwidth float64
	starts    []float64
}

// NewBand returns a band scale over the distinct values.
func NewBand(values []string, opts ...Option) *Band {
	o := newOptions(opts)
	b := &Band{
		index: make(map[string]int, len(values)),
		r0:    o.r0,
		r1:    o.r1,
		align: mathutil.Clamp(o.align, 0, 1),
		round: o.round,
	}
	for _, v := range values {
		if _, ok := b.index[v]; ok {
			continue
		}
		b.index[v] = len(b.domain)
		b.domain = append(b.domain, v)
	}

	inner, outer := 0.0, 0.0
	if o.padding != nil {
		inner, outer = *o.padding, *o.padding
	}
	if o.paddingInner != nil {
		inner = *o.paddingInner
	}
	if o.paddingOuter != nil {
		outer = *o.paddingOuter
	}
	b.paddingInner = mathutil.Clamp(inner, 0, 1)
	b.paddingOuter = math.Max(0, outer)

	b.rescale()
	return b
}

func (b *Band) rescale() {
	n := float64(len(b.domain))
	reverse := b.r1 < b.r0
	start, stop := b.r0, b.r1
	if reverse {
		start, stop = stop, start
	}

	b.step = (stop - start) / math.Max(1, n-b.paddingInner+b.paddingOuter*2)
	if b.round {
		b.step = math.Floor(b.step)
	}
	start += (stop - start - b.step*(n-b.paddingInner)) * b.align
	b.bandwidth = b.step * (1 - b.paddingInner)
	if b.round {
		start = math.Round(start)
		b.bandwidth = math.Round(b.bandwidth)
	}

	b.starts = make([]float64, len(b.domain))
	for i := range b.starts {
		b.starts[i] = start + b.step*float64(i)
	}
	if reverse {
		slices.Reverse(b.starts)
	}
}

func (b *Band) Kind() Kind { return KindBand }

func (b *Band) Range() (float64, float64) { return b.r0, b.r1 }

// Domain returns the distinct values in first-seen order.
func (b *Band) Domain() []string { return slices.Clone(b.domain) }

// Map returns the start of the band for v.
func (b *Band) Map(v string) (float64, bool) {
	i, ok := b.index[v]
	if !ok {
		return 0, false
	}
	return b.starts[i], true
}

// Center returns the midpoint of the band for v.
func (b *Band) Center(v string) (float64, bool) {
	x, ok := b.Map(v)
	return x + b.bandwidth/2, ok
}

// Index returns the domain position of v, or -1.
func (b *Band) Index(v string) int {
	if i, ok := b.index[v]; ok {
		return i
	}
	return -1
}

// Bandwidth returns the width of each band.
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b *Band) Step() float64 { return b.step }

// PaddingInner returns the effective inner padding.
func (b *Band) PaddingInner() float64 { return b.paddingInner }

// PaddingOuter returns the effective outer padding.
func (b *Band) PaddingOuter() float64 { return b.paddingOuter }
