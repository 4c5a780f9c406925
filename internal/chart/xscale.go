package chart

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/coredds/mintwaterfall/internal/data"
	"github.com/coredds/mintwaterfall/internal/scale"
)

// Label layouts accepted as dates, most specific first.
var dateLayouts = []string{time.RFC3339, time.DateTime, time.DateOnly, "2006-01"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

// xValues converts the labels of non-total items to the values the x scale
// maps. The total bar has no natural position on a continuous axis and is
// placed by Frame.Bar instead.
func xValues(items []data.ProcessedDataItem, t ScaleType) ([]any, error) {
	out := make([]any, 0, len(items))
	nums, dates := true, true
	for _, it := range items {
		if it.IsTotal {
			continue
		}
		_, isNum := parseNumber(it.Label)
		_, isDate := parseDate(it.Label)
		nums = nums && isNum
		dates = dates && isDate
		switch t {
		case ScaleLinear:
			if !isNum {
				return nil, fmt.Errorf("%w: label %q is not a number", scale.ErrUnparsableValue, it.Label)
			}
		case ScaleTime:
			if !isDate {
				return nil, fmt.Errorf("%w: label %q is not a date", scale.ErrUnparsableValue, it.Label)
			}
		}
	}
	if t == ScaleAuto {
		switch {
		case nums:
			t = ScaleLinear
		case dates:
			t = ScaleTime
		default:
			t = ScaleBand
		}
	}

	for _, it := range items {
		if it.IsTotal && t != ScaleBand {
			continue
		}
		switch t {
		case ScaleLinear:
			f, _ := parseNumber(it.Label)
			out = append(out, f)
		case ScaleTime:
			d, _ := parseDate(it.Label)
			out = append(out, d)
		default:
			out = append(out, it.Label)
		}
	}
	return out, nil
}

// xScale builds the horizontal scale. Continuous scales map the first and
// last data labels to the centers of the first and last slots, leaving the
// slot after them for the total bar.
func (c Config) xScale(items []data.ProcessedDataItem, width float64) (scale.Scale, []any, error) {
	values, err := xValues(items, c.scaleType)
	if err != nil {
		return nil, nil, err
	}
	if c.scaleType == ScaleBand || len(values) < 2 || isStrings(values) {
		keys := make([]string, len(items))
		for i := range items {
			keys[i] = BandKey(i)
		}
		band := scale.NewBand(keys, scale.WithRange(0, width), scale.WithPadding(c.barPadding))
		return band, nil, nil
	}
	slot := width / float64(len(items))
	r0, r1 := slot/2, slot*(float64(len(values))-0.5)
	return scale.NewAdaptive(values, scale.WithRange(r0, r1)), values, nil
}

// BandKey is the band domain value of the item at index i. Labels may repeat
// (breakdown children, Others rows), so band slots are keyed by row.
func BandKey(i int) string { return strconv.Itoa(i) }

func isStrings(values []any) bool {
	for _, v := range values {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}
