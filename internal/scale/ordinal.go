package scale

import "slices"

// Category10 is the default ordinal palette.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Ordinal maps discrete values onto a cycling palette. Unknown values are
// appended to the domain on first use, so an Ordinal is not safe for
// concurrent use.
type Ordinal struct {
	domain  []string
	index   map[string]int
	palette []string
}

// NewOrdinal returns an ordinal scale over domain.
func NewOrdinal(domain []string, opts ...Option) *Ordinal {
	o := newOptions(opts)
	palette := o.palette
	if len(palette) == 0 {
		palette = Category10
	}
	s := &Ordinal{index: make(map[string]int, len(domain)), palette: slices.Clone(palette)}
	for _, v := range domain {
		s.add(v)
	}
	return s
}

func (s *Ordinal) add(v string) int {
	if i, ok := s.index[v]; ok {
		return i
	}
	i := len(s.domain)
	s.index[v] = i
	s.domain = append(s.domain, v)
	return i
}

func (s *Ordinal) Kind() Kind { return KindOrdinal }

func (s *Ordinal) Range() (float64, float64) { return 0, 0 }

// Map returns the palette entry for v, growing the domain if needed.
func (s *Ordinal) Map(v string) string {
	i := s.add(v)
	return s.palette[i%len(s.palette)]
}

// Domain returns the known values in first-seen order.
func (s *Ordinal) Domain() []string { return slices.Clone(s.domain) }
