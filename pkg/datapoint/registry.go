package datapoint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicate indicates two registry entries share an identifier or name.
var ErrDuplicate = errors.New("datapoint: duplicate entry")

// Registry is an ordered, immutable set of data points.
type Registry struct {
	points []DataPoint
	byID   map[ID]int
	byName map[string]int
}

// Default is the reference registry in canonical read order.
var Default = MustRegistry(
	SerialNumber,
	ProductType,
	PowerInputWatt,
	PowerOutputWatt,
	WorkInputKilowattHours,
	WorkOutputKilowattHours,
	WorkingHours,
)

// NewRegistry builds a registry. Identifiers and names (case-insensitive)
// must be unique.
func NewRegistry(points ...DataPoint) (*Registry, error) {
	r := &Registry{
		points: make([]DataPoint, 0, len(points)),
		byID:   make(map[ID]int, len(points)),
		byName: make(map[string]int, len(points)),
	}
	for _, p := range points {
		if _, ok := r.byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: id %s", ErrDuplicate, p.ID)
		}
		key := strings.ToUpper(p.Name)
		if _, ok := r.byName[key]; ok {
			return nil, fmt.Errorf("%w: name %s", ErrDuplicate, p.Name)
		}
		r.byID[p.ID] = len(r.points)
		r.byName[key] = len(r.points)
		r.points = append(r.points, p)
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(points ...DataPoint) *Registry {
	r, err := NewRegistry(points...)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns the data points in registry order.
func (r *Registry) All() []DataPoint {
	out := make([]DataPoint, len(r.points))
	copy(out, r.points)
	return out
}

// Len returns the number of data points.
func (r *Registry) Len() int {
	return len(r.points)
}

// Lookup finds the data point whose identifier equals id exactly.
// Identifiers of any length other than IDLen never match.
func (r *Registry) Lookup(id []byte) (DataPoint, bool) {
	if len(id) != IDLen {
		return DataPoint{}, false
	}
	i, ok := r.byID[ID(id)]
	if !ok {
		return DataPoint{}, false
	}
	return r.points[i], true
}

// ByName finds a data point by name, ignoring case.
func (r *Registry) ByName(name string) (DataPoint, bool) {
	i, ok := r.byName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return DataPoint{}, false
	}
	return r.points[i], true
}

// Select resolves names in the order given. No names selects every data
// point in registry order.
func (r *Registry) Select(names ...string) ([]DataPoint, error) {
	if len(names) == 0 {
		return r.All(), nil
	}
	out := make([]DataPoint, 0, len(names))
	for _, n := range names {
		p, ok := r.ByName(n)
		if !ok {
			return nil, fmt.Errorf("datapoint: unknown data point %q", n)
		}
		out = append(out, p)
	}
	return out, nil
}
