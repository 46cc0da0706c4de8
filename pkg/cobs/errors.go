package cobs

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrInvalidFormat indicates a malformed frame on a stream.
	ErrInvalidFormat = errors.New("cobs: invalid format")

	// ErrTooLarge indicates a frame exceeds the configured maximum length.
	ErrTooLarge = errors.New("cobs: frame exceeds maximum length")

	// ErrEmptyPayload indicates an attempt to frame an empty payload.
	ErrEmptyPayload = errors.New("cobs: empty payload")

	// ErrRunTooLong indicates a zero-free run the control byte cannot express.
	ErrRunTooLong = errors.New("cobs: zero-free run exceeds limit")
)

// FormatError provides detailed information about a stream decoding error.
type FormatError struct {
	Offset int    // Byte offset in the stream where the error occurred
	Reason string // Human-readable explanation
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cobs: format error at offset %d: %s", e.Offset, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}
