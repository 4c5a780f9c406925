package data

import (
	"encoding/json"
	"fmt"
	"math"
)

// Report lists non-fatal findings of Validate.
type Report struct {
	// DuplicateLabels holds labels used by more than one top-level item,
	// in first-seen order.
	DuplicateLabels []string `json:"duplicateLabels"`
}

// Validate checks items and fails on the first malformed record. Duplicate
// labels are reported but accepted.
func Validate(items []ChartDataItem) (Report, error) {
	report := Report{DuplicateLabels: []string{}}
	if len(items) == 0 {
		return report, &ValidationError{Index: -1, Field: "data", Reason: "must not be empty", Err: ErrEmptyData}
	}

	seen := make(map[string]int, len(items))
	for i, it := range items {
		if err := validateItem(i, "", it); err != nil {
			return report, err
		}
		seen[it.Label]++
		if seen[it.Label] == 2 {
			report.DuplicateLabels = append(report.DuplicateLabels, it.Label)
		}
	}
	return report, nil
}

func validateItem(index int, prefix string, it ChartDataItem) error {
	if len(it.Stacks) == 0 {
		return invalid(index, prefix+"stacks", "must not be empty")
	}
	for j, s := range it.Stacks {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return invalid(index, fmt.Sprintf("%sstacks[%d].value", prefix, j), "must be a finite number")
		}
	}
	for j, child := range it.Breakdown {
		if err := validateItem(index, fmt.Sprintf("%sbreakdown[%d].", prefix, j), child); err != nil {
			return err
		}
	}
	return nil
}

// Normalize converts JSON-decoded input (an array of objects) into items,
// checking field types on the way. Numbers may be float64 or json.Number.
func Normalize(raw []any) ([]ChartDataItem, error) {
	if len(raw) == 0 {
		return nil, &ValidationError{Index: -1, Field: "data", Reason: "must not be empty", Err: ErrEmptyData}
	}
	items := make([]ChartDataItem, 0, len(raw))
	for i, r := range raw {
		it, err := normalizeItem(i, "", r)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func normalizeItem(index int, prefix string, raw any) (ChartDataItem, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return ChartDataItem{}, invalid(index, prefix+"item", "must be an object")
	}

	var it ChartDataItem
	label, ok := obj["label"].(string)
	if !ok {
		return it, invalid(index, prefix+"label", "must be a string")
	}
	it.Label = label

	stacks, ok := obj["stacks"].([]any)
	if !ok {
		return it, invalid(index, prefix+"stacks", "must be an array")
	}
	if len(stacks) == 0 {
		return it, invalid(index, prefix+"stacks", "must not be empty")
	}
	it.Stacks = make([]StackItem, 0, len(stacks))
	for j, rs := range stacks {
		field := fmt.Sprintf("%sstacks[%d]", prefix, j)
		s, ok := rs.(map[string]any)
		if !ok {
			return it, invalid(index, field, "must be an object")
		}
		v, ok := number(s["value"])
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return it, invalid(index, field+".value", "must be a finite number")
		}
		color, ok := s["color"].(string)
		if !ok {
			return it, invalid(index, field+".color", "must be a string")
		}
		stack := StackItem{Value: v, Color: color}
		if l, present := s["label"]; present && l != nil {
			if stack.Label, ok = l.(string); !ok {
				return it, invalid(index, field+".label", "must be a string")
			}
		}
		it.Stacks = append(it.Stacks, stack)
	}

	if rb, present := obj["breakdown"]; present && rb != nil {
		children, ok := rb.([]any)
		if !ok {
			return it, invalid(index, prefix+"breakdown", "must be an array")
		}
		for j, rc := range children {
			child, err := normalizeItem(index, fmt.Sprintf("%sbreakdown[%d].", prefix, j), rc)
			if err != nil {
				return it, err
			}
			it.Breakdown = append(it.Breakdown, child)
		}
	}
	return it, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
