package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/yap-protocol/yap/pkg/datapoint"
)

// Transport is a byte channel to a responder.
type Transport interface {
	// Open establishes the channel. It must be called before Read.
	Open(ctx context.Context) error
	// Read requests dp and interprets the response payload.
	Read(ctx context.Context, dp datapoint.DataPoint) (datapoint.Result, error)
	// Close releases the channel. It is safe to call more than once and
	// after a failed Open.
	Close() error
}

const (
	// DefaultTimeout bounds the wait for a response.
	DefaultTimeout = 5 * time.Second
	// DefaultConnectTimeout bounds connection establishment.
	DefaultConnectTimeout = 5 * time.Second
	// DefaultMaxResponse caps the bytes collected for one response.
	DefaultMaxResponse = 1024

	// readChunk is the size of a single socket read.
	readChunk = 32
)

type options struct {
	logger         *slog.Logger
	timeout        time.Duration
	connectTimeout time.Duration
	maxResponse    int
}

func defaultOptions() options {
	return options{
		logger:         slog.New(slog.DiscardHandler),
		timeout:        DefaultTimeout,
		connectTimeout: DefaultConnectTimeout,
		maxResponse:    DefaultMaxResponse,
	}
}

// Option configures a transport.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTimeout sets how long Read waits for response bytes.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithConnectTimeout sets how long Open waits for the connection.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.connectTimeout = d
		}
	}
}

// WithMaxResponse caps the number of response bytes collected by Read.
func WithMaxResponse(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxResponse = n
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// deadline returns the earlier of now+d and ctx's deadline.
func deadline(ctx context.Context, d time.Duration) time.Time {
	t := time.Now().Add(d)
	if dl, ok := ctx.Deadline(); ok && dl.Before(t) {
		return dl
	}
	return t
}

// ctxErr is ctx.Err, except that a passed deadline counts even before the
// context's own timer has fired.
func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
		return context.DeadlineExceeded
	}
	return nil
}
