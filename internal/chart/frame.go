package chart

import (
	"math"

	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/layout"
	"github.com/coredds/mintwaterfall/internal/scale"
)

// Source tells where a frame's processed data came from.
type Source int

const (
	SourceComputed Source = iota
	SourceMemory
	SourceStore
)

func (s Source) String() string {
	switch s {
	case SourceMemory:
		return "memory"
	case SourceStore:
		return "store"
	default:
		return "computed"
	}
}

// MarshalText renders the source by name in JSON output.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Bar is the plot-area rectangle of one processed item. X grows right and
// Y grows down, so Top <= Bottom.
type Bar struct {
	X      float64 `json:"x"`
	Width  float64 `json:"width"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Frame is everything a renderer needs for one draw. Items may be shared
// with the chart's cache and must be treated as read-only.
type Frame struct {
	Items       []data.ProcessedDataItem `json:"items"`
	Bars        []Bar                    `json:"bars"`
	Margin      layout.Margin            `json:"margin"`
	Diagnostics layout.Diagnostics       `json:"diagnostics"`
	Width       float64                  `json:"width"`
	Height      float64                  `json:"height"`
	InnerWidth  float64                  `json:"innerWidth"`
	InnerHeight float64                  `json:"innerHeight"`
	// X maps BandKey(i) for band scales and parsed labels otherwise.
	X           scale.Scale              `json:"-"`
	Y           *scale.Linear            `json:"-"`
	Stacked     bool                     `json:"stacked"`
	Theme       Theme                    `json:"theme"`
	DataHash    string                   `json:"dataHash"`
	ConfigHash  string                   `json:"configHash"`
	Source      Source                   `json:"source"`
	Duplicates  []string                 `json:"duplicateLabels,omitempty"`
}

// CacheHit reports whether processed data was reused.
func (f *Frame) CacheHit() bool { return f.Source != SourceComputed }

// bars places every item. xs holds the x values the scale was built from:
// one per item for band scales, one per non-total item otherwise.
func bars(items []data.ProcessedDataItem, x scale.Scale, xs []any, y *scale.Linear, innerWidth, padding float64) ([]Bar, error) {
	out := make([]Bar, len(items))
	continuous := x.Kind() != scale.KindBand
	width := scale.Bandwidth(x)
	if continuous {
		// One slot per item, shrunk by the bar padding.
		width = innerWidth / float64(max(len(items), 1)) * (1 - padding)
	}

	var last, spacing float64
	if continuous && len(xs) > 1 {
		first, err := scale.Position(x, xs[0])
		if err != nil {
			return nil, err
		}
		end, err := scale.Position(x, xs[len(xs)-1])
		if err != nil {
			return nil, err
		}
		spacing = (end - first) / float64(len(xs)-1)
	}

	j := 0
	for i, it := range items {
		var pos float64
		switch {
		case continuous && it.IsTotal:
			pos = last + math.Max(spacing, width)
		case continuous:
			c, err := scale.Position(x, xs[j])
			if err != nil {
				return nil, err
			}
			j++
			pos = c - width/2
			last = pos
		default:
			p, err := scale.Position(x, BandKey(i))
			if err != nil {
				return nil, err
			}
			pos = p
		}
		lo, hi := math.Min(it.PrevCumulativeTotal, it.CumulativeTotal), math.Max(it.PrevCumulativeTotal, it.CumulativeTotal)
		out[i] = Bar{X: pos, Width: width, Top: y.Map(hi), Bottom: y.Map(lo)}
	}
	return out, nil
}
