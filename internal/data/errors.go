package data

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyData indicates that no records were supplied.
	ErrEmptyData = errors.New("data: input must contain at least one item")
	// ErrDuplicateKey indicates two records share an IndexBy key path.
	ErrDuplicateKey = errors.New("data: duplicate index key")
	// ErrUnknownInterval indicates an unsupported time bucket.
	ErrUnknownInterval = errors.New("data: unknown time interval")
	// ErrUnknownAggregation indicates an unsupported bucket reducer.
	ErrUnknownAggregation = errors.New("data: unknown aggregation")
	// ErrInvalidRule indicates a malformed conditional formatting rule.
	ErrInvalidRule = errors.New("data: invalid format rule")
)

// ValidationError reports the first malformed field of an input record.
// Index is -1 when the problem concerns the whole input.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("data: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("data: item %d: %s %s", e.Index, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(index int, field, reason string) *ValidationError {
	return &ValidationError{Index: index, Field: field, Reason: reason}
}

// MaxGroupDepth is the deepest supported grouping nesting.
const MaxGroupDepth = 3

// UnsupportedDepthError is returned when grouping is asked for zero or more
// than MaxGroupDepth key levels.
type UnsupportedDepthError struct {
	Depth int
	Max   int
}

func (e *UnsupportedDepthError) Error() string {
	return fmt.Sprintf("data: grouping depth %d not supported (1..%d)", e.Depth, e.Max)
}
