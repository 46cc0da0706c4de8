package cobs

import (
	"fmt"
	"io"
)

// Decode reverses Encode. Frames shorter than three bytes decode to an
// empty payload. The final byte of frame is treated as the delimiter and is
// never copied into the payload.
//
// Malformed input never fails: a control byte that runs past the end of the
// frame truncates the payload.
func Decode(frame []byte) []byte {
	if len(frame) < 3 {
		return []byte{}
	}

	payload := make([]byte, len(frame)-Overhead)
	limit := len(frame) - 1
	read, write := 0, 0

	for read < limit {
		code := int(frame[read])
		read++
		for c := 1; c < code && read < limit; c++ {
			payload[write] = frame[read]
			write++
			read++
		}
		if code != 0xFF && read < limit {
			payload[write] = 0
			write++
		}
	}

	return payload[:write]
}

// Decode reads the next frame up to and including its delimiter and
// returns the decoded payload.
//
// Returns io.EOF when the stream ends on a frame boundary.
func (d *Decoder) Decode() ([]byte, error) {
	frame, err := d.readFrame()
	if err != nil {
		return nil, err
	}
	return Decode(frame), nil
}

// readFrame collects raw frame bytes through the delimiter.
func (d *Decoder) readFrame() ([]byte, error) {
	var frame []byte
	for {
		b, err := d.readByte()
		if err != nil {
			if err == io.EOF && len(frame) > 0 {
				return nil, &FormatError{
					Offset: d.offset,
					Reason: fmt.Sprintf("unexpected EOF: %d bytes without delimiter", len(frame)),
				}
			}
			return nil, err
		}

		frame = append(frame, b)
		if len(frame) > d.maxLength {
			return nil, ErrTooLarge
		}
		if b == Delimiter {
			return frame, nil
		}
	}
}

// readByte reads a single byte and tracks position for error reporting.
func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err == nil {
		d.offset++
	}
	return b, err
}
