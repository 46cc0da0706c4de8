package responder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yap-protocol/yap/pkg/cobs"
	"github.com/yap-protocol/yap/pkg/datapoint"
)

// DefaultReadTimeout bounds how long a connection may take to send its request.
const DefaultReadTimeout = 5 * time.Second

// Server is the reference responder.
type Server struct {
	listen      string
	source      Source
	registry    *datapoint.Registry
	log         *slog.Logger
	readTimeout time.Duration

	lock      sync.Mutex
	listener  net.Listener
	ready     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRegistry sets the registry used to resolve identifiers.
func WithRegistry(reg *datapoint.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithReadTimeout bounds the wait for a request on an accepted connection.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

// New creates a responder for listen ("host:port"). This does not start
// listening; call Serve.
func New(listen string, src Source, opts ...Option) *Server {
	s := &Server{
		listen:      listen,
		source:      src,
		registry:    datapoint.Default,
		log:         slog.New(slog.DiscardHandler),
		readTimeout: DefaultReadTimeout,
		ready:       make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Serve listens and answers connections one at a time until ctx is
// cancelled or Close is called. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		s.Close()
		return fmt.Errorf("responder: unable to listen on %s: %w", s.listen, err)
	}
	s.lock.Lock()
	select {
	case <-s.done:
		s.lock.Unlock()
		_ = ln.Close()
		return nil
	default:
	}
	s.listener = ln
	s.lock.Unlock()
	close(s.ready)
	s.log.Info("listening", "address", ln.Addr().String())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-s.done:
		}
		s.Close()
		return nil
	})
	g.Go(func() error {
		defer s.Close()
		return s.acceptLoop(ctx, ln)
	})
	return g.Wait()
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Warn("unable to accept connection", "error", err)
				continue
			}
			return fmt.Errorf("responder: accept: %w", err)
		}
		s.handle(conn)
	}
}

// handle answers a single request and closes conn.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	log := s.log.With("conn", uuid.NewString(), "remote", conn.RemoteAddr().String())

	if err := conn.SetDeadline(time.Now().Add(s.readTimeout)); err != nil {
		log.Warn("unable to set deadline", "error", err)
		return
	}

	id, err := cobs.NewDecoder(bufio.NewReader(conn)).Decode()
	if err != nil {
		log.Warn("unable to read request", "error", err)
		return
	}

	payload := s.respond(id, log)
	if _, err := conn.Write(cobs.Encode(payload)); err != nil {
		log.Warn("unable to write response", "error", err)
	}
}

// respond resolves a request identifier to the payload to send back.
func (s *Server) respond(id []byte, log *slog.Logger) []byte {
	dp, ok := s.registry.Lookup(id)
	if !ok {
		log.Info("unknown identifier", "id", fmt.Sprintf("% x", id))
		return datapoint.UnknownPayload
	}
	payload, ok := s.source.Value(dp)
	if !ok || len(payload) == 0 {
		log.Info("no value", "datapoint", dp.Name)
		return datapoint.UnknownPayload
	}
	log.Debug("answered", "datapoint", dp.Name, "payload", fmt.Sprintf("% x", payload))
	return payload
}

// Addr returns the bound listener address, or nil before Serve has bound.
func (s *Server) Addr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Done is closed once the server has shut down.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Close stops the server.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		if s.listener != nil {
			_ = s.listener.Close()
		}
		close(s.done)
	})
}
