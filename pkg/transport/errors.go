package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrConnect indicates the responder could not be reached.
	ErrConnect = errors.New("transport: connection failed")

	// ErrNotOpen indicates Read was called on a closed transport.
	ErrNotOpen = errors.New("transport: not open")

	// ErrTimeout indicates no complete response arrived in time.
	ErrTimeout = errors.New("transport: timed out waiting for response")
)

// ConnectError reports a failed Open.
type ConnectError struct {
	Addr string // Address or device path
	Err  error  // Underlying cause
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("transport: connect %s: %v", e.Addr, e.Err)
}

// Unwrap exposes both ErrConnect and the underlying cause to errors.Is.
func (e *ConnectError) Unwrap() []error {
	return []error{ErrConnect, e.Err}
}
