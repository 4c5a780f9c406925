package data

import "fmt"

// Field selects the quantity a FormatRule compares.
type Field string

const (
	// FieldValue compares each stack value and recolors matching stacks only.
	FieldValue Field = "value"
	// FieldBarTotal compares the bar total and recolors the whole bar.
	FieldBarTotal Field = "barTotal"
	// FieldCumulative compares the running total and recolors the whole bar.
	FieldCumulative Field = "cumulativeTotal"
)

// Op is a comparison operator.
type Op string

const (
	OpGT      Op = "gt"
	OpGTE     Op = "gte"
	OpLT      Op = "lt"
	OpLTE     Op = "lte"
	OpEQ      Op = "eq"
	OpNEQ     Op = "neq"
	OpBetween Op = "between"
)

// FormatRule recolors or relabels stacks whose selected Field satisfies Op.
// Rules are evaluated in order and the first match wins. Between is
// inclusive on both Threshold and Upper.
type FormatRule struct {
	Name      string  `json:"name"`
	Field     Field   `json:"field"`
	Op        Op      `json:"op"`
	Threshold float64 `json:"threshold"`
	Upper     float64 `json:"upper,omitempty"`
	Color     string  `json:"color,omitempty"`
	Label     string  `json:"label,omitempty"`
}

// Check reports a malformed rule.
func (r FormatRule) Check() error {
	switch r.Field {
	case FieldValue, FieldBarTotal, FieldCumulative:
	default:
		return fmt.Errorf("%w %q: unknown field %q", ErrInvalidRule, r.Name, r.Field)
	}
	switch r.Op {
	case OpGT, OpGTE, OpLT, OpLTE, OpEQ, OpNEQ:
	case OpBetween:
		if r.Upper < r.Threshold {
			return fmt.Errorf("%w %q: upper bound below threshold", ErrInvalidRule, r.Name)
		}
	default:
		return fmt.Errorf("%w %q: unknown operator %q", ErrInvalidRule, r.Name, r.Op)
	}
	if r.Color == "" && r.Label == "" {
		return fmt.Errorf("%w %q: sets neither color nor label", ErrInvalidRule, r.Name)
	}
	return nil
}

// Matches reports whether v satisfies the rule's comparison.
func (r FormatRule) Matches(v float64) bool {
	switch r.Op {
	case OpGT:
		return v > r.Threshold
	case OpGTE:
		return v >= r.Threshold
	case OpLT:
		return v < r.Threshold
	case OpLTE:
		return v <= r.Threshold
	case OpEQ:
		return v == r.Threshold
	case OpNEQ:
		return v != r.Threshold
	case OpBetween:
		return v >= r.Threshold && v <= r.Upper
	}
	return false
}

func (r FormatRule) apply(s *StackItem) {
	if r.Color != "" {
		s.Color = r.Color
	}
	if r.Label != "" {
		s.Label = r.Label
	}
}

// applyRules formats p in place. Stacks of p must already be a private copy.
func applyRules(p *ProcessedDataItem, rules []FormatRule) {
	for i := range p.Stacks {
		for _, r := range rules {
			var v float64
			switch r.Field {
			case FieldValue:
				v = p.Stacks[i].Value
			case FieldBarTotal:
				v = p.BarTotal
			case FieldCumulative:
				v = p.CumulativeTotal
			}
			if r.Matches(v) {
				r.apply(&p.Stacks[i])
				if p.Rule == "" {
					p.Rule = r.Name
				}
				break
			}
		}
	}
}
