// Package datapoint holds the protocol's data point registry and the typed
// results produced from response payloads.
//
// A DataPoint maps a 4-byte identifier to a value type and byte order. The
// Default registry lists the reference data points in their canonical read
// order. Registries are immutable once built and safe for concurrent use.
package datapoint
