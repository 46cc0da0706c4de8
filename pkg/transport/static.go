package transport

import (
	"context"
	"sync"

	"github.com/yap-protocol/yap/pkg/datapoint"
)

// Static answers reads from a fixed table of payloads without any I/O.
// Identifiers missing from the table get the unknown marker.
type Static struct {
	mu       sync.Mutex
	payloads map[datapoint.ID][]byte
	open     bool
}

var _ Transport = (*Static)(nil)

// NewStatic creates a Static transport. The payloads are copied.
func NewStatic(payloads map[datapoint.ID][]byte) *Static {
	s := &Static{payloads: make(map[datapoint.ID][]byte, len(payloads))}
	for id, p := range payloads {
		s.payloads[id] = append([]byte(nil), p...)
	}
	return s
}

func (s *Static) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
	return nil
}

func (s *Static) Read(ctx context.Context, dp datapoint.DataPoint) (datapoint.Result, error) {
	if err := ctx.Err(); err != nil {
		return datapoint.Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return datapoint.Result{}, ErrNotOpen
	}
	payload, ok := s.payloads[dp.ID]
	if !ok {
		payload = datapoint.UnknownPayload
	}
	return datapoint.NewResult(dp, payload)
}

func (s *Static) Close() error {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
	return nil
}
