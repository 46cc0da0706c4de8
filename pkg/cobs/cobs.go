package cobs

import "io"

const (
	// Delimiter terminates every frame.
	Delimiter byte = 0x00

	// MaxRun is the longest zero-free payload run a control byte can express.
	MaxRun = 254

	// Overhead is the number of bytes a frame adds to its payload.
	Overhead = 2
)

// FrameLen returns the encoded length of a payload of n bytes.
func FrameLen(n int) int {
	if n == 0 {
		return 0
	}
	return n + Overhead
}

// Decoder reads frames from an io.ByteReader.
//
// io.ByteReader is implemented by *bufio.Reader and *bytes.Reader.
// For network streams, wrap your io.Reader in bufio.Reader:
//
//	dec := cobs.NewDecoder(bufio.NewReader(conn))
type Decoder struct {
	r         io.ByteReader
	maxLength int
	offset    int // Track position for error reporting
}

// NewDecoder creates a new frame decoder reading from r.
func NewDecoder(r io.ByteReader, opts ...Option) *Decoder {
	cfg := &config{
		maxLength: defaultMaxLength,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Decoder{
		r:         r,
		maxLength: cfg.maxLength,
	}
}

// Encoder writes frames to an io.Writer. Writes are unbuffered.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates a new frame encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}
