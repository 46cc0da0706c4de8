package cobs

import "fmt"

// Encode stuffs payload into a frame. An empty payload yields an empty
// frame. The returned frame is two bytes longer than payload and ends with
// the Delimiter.
//
// Encode does not split zero-free runs longer than MaxRun; use CheckRuns to
// validate untrusted payloads.
func Encode(payload []byte) []byte {
	if len(payload) == 0 {
		return []byte{}
	}

	// The last byte stays zero and becomes the delimiter.
	frame := make([]byte, len(payload)+Overhead)
	code := 1
	marker := 0

	for i, b := range payload {
		if b == 0 {
			frame[marker] = byte(code)
			marker = i + 1
			code = 1
			continue
		}
		frame[i+1] = b
		code++
	}
	frame[marker] = byte(code)

	return frame
}

// CheckRuns reports whether payload can be framed without loss.
//
// A run of more than MaxRun non-zero bytes overflows its control byte. A run
// of exactly MaxRun bytes produces the control byte 0xFF, which implies no
// trailing zero, so such a run may only end the payload.
func CheckRuns(payload []byte) error {
	run := 0
	for i, b := range payload {
		if b != 0 {
			run++
			if run > MaxRun {
				return fmt.Errorf("%w: run of more than %d bytes ending at offset %d", ErrRunTooLong, MaxRun, i)
			}
			continue
		}
		if run == MaxRun {
			return fmt.Errorf("%w: run of %d bytes followed by zero at offset %d", ErrRunTooLong, MaxRun, i)
		}
		run = 0
	}
	return nil
}

// Encode writes payload as a single frame.
//
// Empty payloads are rejected with ErrEmptyPayload since they produce no
// frame on the wire. Payloads failing CheckRuns are rejected as well.
func (e *Encoder) Encode(payload []byte) error {
	if len(payload) == 0 {
		return ErrEmptyPayload
	}
	if err := CheckRuns(payload); err != nil {
		return err
	}

	_, err := e.w.Write(Encode(payload))
	return err
}
