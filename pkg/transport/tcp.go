package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yap-protocol/yap/pkg/cobs"
	"github.com/yap-protocol/yap/pkg/datapoint"
)

// TCP talks to a responder over a TCP connection.
type TCP struct {
	addr string
	opts options

	mu     sync.Mutex
	conn   net.Conn
	connID string
}

var _ Transport = (*TCP)(nil)

// NewTCP creates a TCP transport for addr ("host:port").
func NewTCP(addr string, opts ...Option) *TCP {
	return &TCP{addr: addr, opts: applyOptions(opts)}
}

// Addr returns the responder address.
func (t *TCP) Addr() string { return t.addr }

// Open dials the responder. An already open connection is closed first.
func (t *TCP) Open(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		_ = t.conn.Close()
		t.conn = nil
	}

	d := net.Dialer{Timeout: t.opts.connectTimeout}
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		t.opts.logger.Debug("connect failed", "addr", t.addr, "error", err)
		return &ConnectError{Addr: t.addr, Err: err}
	}

	t.conn = conn
	t.connID = uuid.NewString()
	t.opts.logger.Debug("connected", "addr", t.addr, "conn", t.connID)
	return nil
}

// Read sends the identifier of dp and collects the response until the
// responder closes its side, the response limit is reached, or the read
// timeout expires. Whatever was collected is then decoded.
func (t *TCP) Read(ctx context.Context, dp datapoint.DataPoint) (datapoint.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return datapoint.Result{}, ErrNotOpen
	}
	log := t.opts.logger.With("conn", t.connID, "datapoint", dp.Name)

	// Cancellation unblocks pending I/O by expiring the deadline.
	stop := context.AfterFunc(ctx, func() {
		_ = t.conn.SetDeadline(time.Now())
	})
	defer stop()

	request := cobs.Encode(dp.ID.Bytes())
	if err := t.conn.SetWriteDeadline(deadline(ctx, t.opts.timeout)); err != nil {
		return datapoint.Result{}, fmt.Errorf("transport: set write deadline: %w", err)
	}
	if err := writeFull(t.conn, request); err != nil {
		if err := ctxErr(ctx); err != nil {
			return datapoint.Result{}, err
		}
		return datapoint.Result{}, fmt.Errorf("transport: write request: %w", err)
	}
	log.Debug("request sent", "frame", fmt.Sprintf("% x", request))

	response, err := t.collect(ctx)
	if err != nil {
		return datapoint.Result{}, err
	}
	log.Debug("response received", "frame", fmt.Sprintf("% x", response))

	return datapoint.NewResult(dp, cobs.Decode(response))
}

// collect runs the bounded read loop.
func (t *TCP) collect(ctx context.Context) ([]byte, error) {
	if err := t.conn.SetReadDeadline(deadline(ctx, t.opts.timeout)); err != nil {
		return nil, fmt.Errorf("transport: set read deadline: %w", err)
	}

	response := make([]byte, 0, readChunk)
	chunk := make([]byte, readChunk)
	for len(response) < t.opts.maxResponse {
		want := min(readChunk, t.opts.maxResponse-len(response))
		n, err := t.conn.Read(chunk[:want])
		response = append(response, chunk[:n]...)
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err := ctxErr(ctx); err != nil {
			return nil, err
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			t.opts.logger.Debug("read timeout", "conn", t.connID, "collected", len(response))
			break
		}
		return nil, fmt.Errorf("transport: read response: %w", err)
	}
	return response, nil
}

// Close closes the connection. It is a no-op when nothing is open.
func (t *TCP) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	t.opts.logger.Debug("closed", "conn", t.connID)
	return err
}

func writeFull(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
