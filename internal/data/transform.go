package data

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultColor is used for transformed records without a color column.
const DefaultColor = "#3498db"

// TransformConfig maps flat records onto single-stack items.
type TransformConfig struct {
	LabelColumn  string
	ValueColumn  string
	ColorColumn  string
	DefaultColor string
	// ParseNumbers accepts numeric strings, ignoring "," and "$".
	ParseNumbers bool
}

var numberNoise = strings.NewReplacer(",", "", "$", "", " ", "")

// TransformRecords converts flat records (as decoded from JSON or CSV) into
// chart items with one stack each.
func TransformRecords(records []map[string]any, cfg TransformConfig) ([]ChartDataItem, error) {
	if len(records) == 0 {
		return nil, &ValidationError{Index: -1, Field: "data", Reason: "must not be empty", Err: ErrEmptyData}
	}
	labelCol := cmp.Or(cfg.LabelColumn, "label")
	valueCol := cmp.Or(cfg.ValueColumn, "value")
	colorCol := cmp.Or(cfg.ColorColumn, "color")
	fallback := cmp.Or(cfg.DefaultColor, DefaultColor)

	items := make([]ChartDataItem, 0, len(records))
	for i, rec := range records {
		rawLabel, ok := rec[labelCol]
		if !ok || rawLabel == nil {
			return nil, invalid(i, labelCol, "is missing")
		}
		v, err := parseValue(rec[valueCol], cfg.ParseNumbers)
		if err != nil {
			return nil, invalid(i, valueCol, err.Error())
		}
		color := fallback
		if c, ok := rec[colorCol].(string); ok && c != "" {
			color = c
		}
		label := fmt.Sprint(rawLabel)
		items = append(items, ChartDataItem{
			Label:  label,
			Stacks: []StackItem{{Value: v, Color: color, Label: label}},
		})
	}
	return items, nil
}

func parseValue(raw any, parse bool) (float64, error) {
	if v, ok := number(raw); ok {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errors.New("must be a finite number")
		}
		return v, nil
	}
	s, ok := raw.(string)
	if !ok || !parse {
		return 0, errors.New("must be a number")
	}
	v, err := strconv.ParseFloat(numberNoise.Replace(strings.TrimSpace(s)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("cannot parse %q as a number", s)
	}
	return v, nil
}

// DecodeJSON unmarshals an array of items or flat records. Flat records
// (objects without a "stacks" field) go through TransformRecords with cfg.
func DecodeJSON(b []byte, cfg TransformConfig) ([]ChartDataItem, error) {
	var raw []any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if len(raw) == 0 {
		return nil, &ValidationError{Index: -1, Field: "data", Reason: "must not be empty", Err: ErrEmptyData}
	}
	if first, ok := raw[0].(map[string]any); ok {
		if _, hasStacks := first["stacks"]; !hasStacks {
			records := make([]map[string]any, 0, len(raw))
			for i, r := range raw {
				rec, ok := r.(map[string]any)
				if !ok {
					return nil, invalid(i, "item", "must be an object")
				}
				records = append(records, rec)
			}
			return TransformRecords(records, cfg)
		}
	}
	return Normalize(raw)
}
