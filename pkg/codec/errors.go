package codec

import (
	"errors"
	"fmt"
)

// ErrRange indicates a value or byte slice outside the representable width.
var ErrRange = errors.New("codec: value out of range")

// RangeError describes which conversion rejected its input.
type RangeError struct {
	Op    string // Conversion that failed
	Value int64  // Offending value or input length
	Limit string // Accepted range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("codec: %s: %d out of range (%s)", e.Op, e.Value, e.Limit)
}

func (e *RangeError) Unwrap() error {
	return ErrRange
}
