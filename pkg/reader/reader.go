// Package reader requests data points from a responder, one connection
// per data point.
package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/yap-protocol/yap/pkg/datapoint"
	"github.com/yap-protocol/yap/pkg/transport"
)

// NoConnectionMessage is printed when the responder cannot be reached.
const NoConnectionMessage = "No connection possible, is the responder running?"

// Reader reads data points through a transport.
type Reader struct {
	transport transport.Transport
	log       *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the reader logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Reader) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a Reader using t.
func New(t transport.Transport, opts ...Option) *Reader {
	r := &Reader{
		transport: t,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Read opens the transport, reads dp and closes the transport again, even
// when the read fails.
func (r *Reader) Read(ctx context.Context, dp datapoint.DataPoint) (res datapoint.Result, err error) {
	if err = r.transport.Open(ctx); err != nil {
		return datapoint.Result{}, err
	}
	defer func() {
		if cerr := r.transport.Close(); cerr != nil {
			r.log.Debug("close failed", "datapoint", dp.Name, "error", cerr)
			if err == nil {
				err = fmt.Errorf("reader: close: %w", cerr)
			}
		}
	}()

	res, err = r.transport.Read(ctx, dp)
	if err != nil {
		return datapoint.Result{}, fmt.Errorf("reader: %s: %w", dp.Name, err)
	}
	r.log.Debug("read", "datapoint", dp.Name, "kind", res.Kind().String(), "value", res.FormatValue())
	return res, nil
}

// ReadAll reads each point in order and passes every outcome to fn. A
// non-nil error from fn stops the iteration and is returned.
func (r *Reader) ReadAll(ctx context.Context, points []datapoint.DataPoint, fn func(datapoint.Result, error) error) error {
	for _, dp := range points {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := r.Read(ctx, dp)
		if err != nil {
			// Keep the data point so callers can name it.
			res = resultFor(dp)
		}
		if err := fn(res, err); err != nil {
			return err
		}
	}
	return nil
}

// Print reads points in order and writes one rendered line per result.
//
// When the responder cannot be reached Print writes NoConnectionMessage
// and returns the connection error without reading the remaining points.
// Other failures are reported inline and the next point is read.
func (r *Reader) Print(ctx context.Context, w io.Writer, points []datapoint.DataPoint) error {
	return r.ReadAll(ctx, points, func(res datapoint.Result, err error) error {
		switch {
		case errors.Is(err, transport.ErrConnect):
			r.log.Warn("responder unreachable", "error", err)
			fmt.Fprintln(w, NoConnectionMessage)
			return err
		case err != nil:
			_, werr := fmt.Fprintf(w, "DataPoint: %s => error: %v\n", res.Point().Name, err)
			return werr
		default:
			_, werr := fmt.Fprintln(w, res.String())
			return werr
		}
	})
}

// resultFor returns an empty result that only carries dp.
func resultFor(dp datapoint.DataPoint) datapoint.Result {
	res, _ := datapoint.NewResult(dp, datapoint.UnknownPayload)
	return res
}
