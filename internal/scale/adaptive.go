package scale

import (
	"fmt"
	"time"

	"github.com/coredds/mintwaterfall/internal/data"
)

// Dimension names a field of a processed item.
type Dimension string

const (
	DimLabel      Dimension = "label"
	DimBarTotal   Dimension = "barTotal"
	DimCumulative Dimension = "cumulativeTotal"
	DimPrevious   Dimension = "prevCumulativeTotal"
)

// Values extracts dim from every item.
func Values(items []data.ProcessedDataItem, dim Dimension) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, it := range items {
		switch dim {
		case DimLabel:
			out = append(out, it.Label)
		case DimBarTotal:
			out = append(out, it.BarTotal)
		case DimCumulative:
			out = append(out, it.CumulativeTotal)
		case DimPrevious:
			out = append(out, it.PrevCumulativeTotal)
		default:
			return nil, fmt.Errorf("scale: unknown dimension %q", dim)
		}
	}
	return out, nil
}

// NewAdaptive picks a scale kind from the dynamic types of values: all
// time.Time gives a Time scale, all numbers a Linear scale, and anything
// else (including mixed input) a Band scale over the printed values.
// Callers that need a fixed kind should use the typed constructors.
func NewAdaptive(values []any, opts ...Option) Scale {
	switch sniff(values) {
	case KindTime:
		ts := make([]time.Time, len(values))
		for i, v := range values {
			ts[i] = v.(time.Time)
		}
		return NewTime(ts, opts...)
	case KindLinear:
		fs := make([]float64, len(values))
		for i, v := range values {
			fs[i], _ = toFloat(v)
		}
		return NewLinear(fs, opts...)
	}
	keys := make([]string, len(values))
	for i, v := range values {
		if s, ok := v.(string); ok {
			keys[i] = s
			continue
		}
		keys[i] = fmt.Sprint(v)
	}
	return NewBand(keys, opts...)
}

// NewAdaptiveFor is NewAdaptive over one dimension of processed items.
func NewAdaptiveFor(items []data.ProcessedDataItem, dim Dimension, opts ...Option) (Scale, error) {
	values, err := Values(items, dim)
	if err != nil {
		return nil, err
	}
	return NewAdaptive(values, opts...), nil
}

func sniff(values []any) Kind {
	if len(values) == 0 {
		return KindBand
	}
	allTime, allNum := true, true
	for _, v := range values {
		if _, ok := v.(time.Time); !ok {
			allTime = false
		}
		if _, ok := toFloat(v); !ok {
			allNum = false
		}
	}
	switch {
	case allTime:
		return KindTime
	case allNum:
		return KindLinear
	}
	return KindBand
}
