// Package httpapi exposes data point reads over HTTP as JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yap-protocol/yap/pkg/datapoint"
	"github.com/yap-protocol/yap/pkg/reader"
)

// DefaultRequestTimeout bounds a single HTTP request.
const DefaultRequestTimeout = 30 * time.Second

// Point describes a registry entry.
type Point struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Type      string `json:"type"`
	ByteOrder string `json:"byte_order,omitempty"`
	Length    int    `json:"length"`
}

// Reading is one entry of a /readings response. Exactly one of Result and
// Error is set.
type Reading struct {
	Name   string            `json:"name"`
	Result *datapoint.Result `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Config holds the gateway dependencies.
type Config struct {
	Registry *datapoint.Registry
	Reader   *reader.Reader
	Logger   *slog.Logger
	Timeout  time.Duration
}

type gateway struct {
	registry *datapoint.Registry
	reader   *reader.Reader
	log      *slog.Logger

	// The responder handles one connection at a time.
	mu sync.Mutex
}

// New returns the gateway router.
func New(cfg Config) http.Handler {
	g := &gateway{
		registry: cfg.Registry,
		reader:   cfg.Reader,
		log:      cfg.Logger,
	}
	if g.registry == nil {
		g.registry = datapoint.Default
	}
	if g.log == nil {
		g.log = slog.New(slog.DiscardHandler)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/datapoints", g.listPoints)
	r.Get("/datapoints/{name}", g.readPoint)
	r.Get("/readings", g.readAll)
	return r
}

func (g *gateway) listPoints(w http.ResponseWriter, r *http.Request) {
	all := g.registry.All()
	points := make([]Point, 0, len(all))
	for _, dp := range all {
		p := Point{
			Name:   dp.Name,
			ID:     dp.ID.String(),
			Type:   dp.Type.String(),
			Length: dp.WireLength(),
		}
		if dp.Type != datapoint.String {
			p.ByteOrder = dp.Order.String()
		}
		points = append(points, p)
	}
	g.writeJSON(w, http.StatusOK, points)
}

func (g *gateway) readPoint(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	dp, ok := g.registry.ByName(name)
	if !ok {
		g.writeError(w, http.StatusNotFound, "unknown data point: "+name)
		return
	}

	res, err := g.read(r.Context(), dp)
	if err != nil {
		g.log.Warn("read failed", "datapoint", dp.Name, "request_id", middleware.GetReqID(r.Context()), "error", err)
		g.writeError(w, statusFor(err), err.Error())
		return
	}
	g.writeJSON(w, http.StatusOK, res)
}

func (g *gateway) readAll(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var readings []Reading
	err := g.reader.ReadAll(r.Context(), g.registry.All(), func(res datapoint.Result, err error) error {
		name := res.Point().Name
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || isConnect(err) {
				return err
			}
			readings = append(readings, Reading{Name: name, Error: err.Error()})
			return nil
		}
		readings = append(readings, Reading{Name: name, Result: &res})
		return nil
	})
	if err != nil {
		g.log.Warn("readings failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		g.writeError(w, statusFor(err), err.Error())
		return
	}
	g.writeJSON(w, http.StatusOK, readings)
}

func (g *gateway) read(ctx context.Context, dp datapoint.DataPoint) (datapoint.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reader.Read(ctx, dp)
}

func (g *gateway) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		g.writeError(w, http.StatusInternalServerError, "failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func (g *gateway) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(message))
}
