package scale

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func bandStarts(b *Band) []float64 {
	out := make([]float64, 0, len(b.Domain()))
	for _, v := range b.Domain() {
		x, _ := b.Map(v)
		out = append(out, x)
	}
	return out
}

func TestBandLayout(t *testing.T) {
	t.Parallel()

	approx := cmpopts.EquateApprox(0, 1e-6)
	tests := []struct {
		name      string
		values    []string
		opts      []Option
		starts    []float64
		bandwidth float64
		step      float64
	}{
		{
			name:      "no padding",
			values:    []string{"a", "b", "c"},
			opts:      []Option{WithRange(0, 120)},
			starts:    []float64{0, 40, 80},
			bandwidth: 40,
			step:      40,
		},
		{
			name:      "uniform padding",
			values:    []string{"a", "b", "c"},
			opts:      []Option{WithRange(0, 100), WithPadding(0.2)},
			starts:    []float64{6.25, 37.5, 68.75},
			bandwidth: 25,
			step:      31.25,
		},
		{
			name:      "reversed range",
			values:    []string{"a", "b"},
			opts:      []Option{WithRange(100, 0)},
			starts:    []float64{50, 0},
			bandwidth: 50,
			step:      50,
		},
		{
			name:      "rounded",
			values:    []string{"a", "b", "c"},
			opts:      []Option{WithRange(0, 100), WithRound(true)},
			starts:    []float64{1, 34, 67},
			bandwidth: 33,
			step:      33,
		},
		{
			name:      "left aligned",
			values:    []string{"a", "b"},
			opts:      []Option{WithRange(0, 100), WithPaddingOuter(0.5), WithAlign(0)},
			starts:    []float64{0, 33.333333333},
			bandwidth: 33.333333333,
			step:      33.333333333,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := NewBand(tt.values, tt.opts...)
			if diff := cmp.Diff(tt.starts, bandStarts(b), approx); diff != "" {
				t.Fatalf("starts mismatch (-want +got):\n%s", diff)
			}
			if !cmp.Equal(tt.bandwidth, b.Bandwidth(), approx) {
				t.Fatalf("Bandwidth() = %v, want %v", b.Bandwidth(), tt.bandwidth)
			}
			if !cmp.Equal(tt.step, b.Step(), approx) {
				t.Fatalf("Step() = %v, want %v", b.Step(), tt.step)
			}
		})
	}
}

func TestBandPaddingPrecedence(t *testing.T) {
	t.Parallel()

	orders := [][]Option{
		{WithPadding(0.2), WithPaddingInner(0)},
		{WithPaddingInner(0), WithPadding(0.2)},
	}
	for _, opts := range orders {
		b := NewBand([]string{"a", "b", "c"}, opts...)
		if b.PaddingInner() != 0 || b.PaddingOuter() != 0.2 {
			t.Fatalf("padding = (%v, %v), want (0, 0.2)", b.PaddingInner(), b.PaddingOuter())
		}
	}
}

func TestBandDomainDeduplicates(t *testing.T) {
	t.Parallel()

	b := NewBand([]string{"b", "a", "b", "c", "a"})
	if diff := cmp.Diff([]string{"b", "a", "c"}, b.Domain()); diff != "" {
		t.Fatalf("Domain() mismatch (-want +got):\n%s", diff)
	}
	if b.Index("c") != 2 || b.Index("z") != -1 {
		t.Fatalf("Index() = %d, %d; want 2, -1", b.Index("c"), b.Index("z"))
	}
	if _, ok := b.Map("z"); ok {
		t.Fatalf("Map(z) should miss")
	}
}

func TestBandEmptyDomain(t *testing.T) {
	t.Parallel()

	b := NewBand(nil, WithRange(0, 100))
	if b.Step() != 100 || len(b.Domain()) != 0 {
		t.Fatalf("empty band: step %v, domain %v", b.Step(), b.Domain())
	}
}
