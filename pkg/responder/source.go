package responder

import (
	"fmt"

	"github.com/yap-protocol/yap/pkg/datapoint"
)

// Source supplies response payloads.
type Source interface {
	// Value returns the payload for dp, or false if dp has no value.
	Value(dp datapoint.DataPoint) ([]byte, bool)
}

// StaticSource serves fixed payloads keyed by data point identifier.
type StaticSource struct {
	payloads map[datapoint.ID][]byte
}

var _ Source = (*StaticSource)(nil)

// NewStaticSource encodes values (keyed by data point name) against reg.
func NewStaticSource(reg *datapoint.Registry, values map[string]any) (*StaticSource, error) {
	s := &StaticSource{payloads: make(map[datapoint.ID][]byte, len(values))}
	for name, v := range values {
		dp, ok := reg.ByName(name)
		if !ok {
			return nil, fmt.Errorf("responder: unknown data point %q", name)
		}
		payload, err := datapoint.EncodeValue(dp, v)
		if err != nil {
			return nil, fmt.Errorf("responder: %s: %w", dp.Name, err)
		}
		s.payloads[dp.ID] = payload
	}
	return s, nil
}

// Value implements Source.
func (s *StaticSource) Value(dp datapoint.DataPoint) ([]byte, bool) {
	p, ok := s.payloads[dp.ID]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), p...), true
}

// ReferenceValues returns the values served by the reference responder.
func ReferenceValues() map[string]any {
	return map[string]any{
		datapoint.SerialNumber.Name:            "AFG4387X01",
		datapoint.ProductType.Name:             "YAP-Reader",
		datapoint.PowerInputWatt.Name:          float32(1234.5),
		datapoint.PowerOutputWatt.Name:         float32(23456.54321),
		datapoint.WorkInputKilowattHours.Name:  int64(23),
		datapoint.WorkOutputKilowattHours.Name: int64(42),
		datapoint.WorkingHours.Name:            int64(4294967295),
	}
}

// ReferenceSource returns a StaticSource serving ReferenceValues from the
// default registry.
func ReferenceSource() *StaticSource {
	s, err := NewStaticSource(datapoint.Default, ReferenceValues())
	if err != nil {
		panic(err)
	}
	return s
}
