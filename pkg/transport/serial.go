package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.bug.st/serial"

	"github.com/yap-protocol/yap/pkg/cobs"
	"github.com/yap-protocol/yap/pkg/datapoint"
)

// Port is the subset of serial.Port the transport uses.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

type portOpener func(path string, mode *serial.Mode) (Port, error)

func openSerialPort(path string, mode *serial.Mode) (Port, error) {
	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Serial talks to a responder attached to a serial line.
//
// A serial line never signals end of response the way a TCP peer does by
// closing, so the response is read up to its frame delimiter.
type Serial struct {
	path string
	mode *serial.Mode
	opts options
	open portOpener

	mu     sync.Mutex
	port   Port
	connID string
}

var _ Transport = (*Serial)(nil)

// NewSerial creates a transport for the device at path. The port options
// are validated here; the device is not touched until Open.
func NewSerial(path string, portOpts PortOptions, opts ...Option) (*Serial, error) {
	mode, err := portOpts.Mode()
	if err != nil {
		return nil, fmt.Errorf("transport: serial %s: %w", path, err)
	}
	return &Serial{
		path: path,
		mode: mode,
		opts: applyOptions(opts),
		open: openSerialPort,
	}, nil
}

// Open opens the device.
func (s *Serial) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port != nil {
		_ = s.port.Close()
		s.port = nil
	}
	if err := ctx.Err(); err != nil {
		return &ConnectError{Addr: s.path, Err: err}
	}

	port, err := s.open(s.path, s.mode)
	if err != nil {
		s.opts.logger.Debug("open failed", "path", s.path, "error", err)
		return &ConnectError{Addr: s.path, Err: err}
	}
	if err := port.SetReadTimeout(s.opts.timeout); err != nil {
		_ = port.Close()
		return &ConnectError{Addr: s.path, Err: err}
	}

	s.port = port
	s.connID = uuid.NewString()
	s.opts.logger.Debug("port open", "path", s.path, "baud", s.mode.BaudRate, "conn", s.connID)
	return nil
}

// Read sends the identifier of dp and reads one response frame.
func (s *Serial) Read(ctx context.Context, dp datapoint.DataPoint) (datapoint.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return datapoint.Result{}, ErrNotOpen
	}
	log := s.opts.logger.With("conn", s.connID, "datapoint", dp.Name)

	// Closing the port is the only way to abandon a blocked read.
	port := s.port
	stop := context.AfterFunc(ctx, func() { _ = port.Close() })
	defer stop()

	fail := func(err error) (datapoint.Result, error) {
		if ctx.Err() != nil {
			s.port = nil
			return datapoint.Result{}, ctx.Err()
		}
		return datapoint.Result{}, err
	}

	if err := port.ResetInputBuffer(); err != nil {
		return fail(fmt.Errorf("transport: reset input: %w", err))
	}

	request := cobs.Encode(dp.ID.Bytes())
	if err := writeFull(port, request); err != nil {
		return fail(fmt.Errorf("transport: write request: %w", err))
	}
	log.Debug("request sent", "frame", fmt.Sprintf("% x", request))

	dec := cobs.NewDecoder(&portReader{port: port}, cobs.MaxLength(s.opts.maxResponse))
	payload, err := dec.Decode()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return fail(fmt.Errorf("transport: read response: %w", err))
	}
	log.Debug("response received", "payload", fmt.Sprintf("% x", payload))

	return datapoint.NewResult(dp, payload)
}

// Close closes the device. It is a no-op when nothing is open.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	s.opts.logger.Debug("port closed", "conn", s.connID)
	return err
}

// portReader adapts a Port to io.ByteReader. A read that returns no data
// means the port read timeout expired.
type portReader struct {
	port Port
	buf  [readChunk]byte
	pos  int
	end  int
}

func (r *portReader) ReadByte() (byte, error) {
	if r.pos == r.end {
		n, err := r.port.Read(r.buf[:])
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, ErrTimeout
		}
		r.pos, r.end = 0, n
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}
