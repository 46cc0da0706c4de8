package datapoint

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/yap-protocol/yap/pkg/codec"
)

// ErrTypeMismatch indicates a Go value that does not fit a data point's type.
var ErrTypeMismatch = errors.New("datapoint: value type mismatch")

// EncodeValue produces the payload a responder sends for v.
//
// String data points take a string or []byte. UInt32 data points take any
// integer in [0, 2^32-1]. Float data points take float32, float64 or an
// integer.
func EncodeValue(dp DataPoint, v any) ([]byte, error) {
	switch dp.Type {
	case String:
		switch s := v.(type) {
		case string:
			return codec.StringToBytes(s), nil
		case []byte:
			return append([]byte(nil), s...), nil
		}
	case UInt32:
		if n, ok := toInt64(v); ok {
			return codec.UintToBytes(n, dp.Order)
		}
	case Float:
		switch f := v.(type) {
		case float32:
			return codec.FloatToBytes(f, dp.Order), nil
		case float64:
			return codec.FloatToBytes(float32(f), dp.Order), nil
		}
		if n, ok := toInt64(v); ok {
			return codec.FloatToBytes(float32(n), dp.Order), nil
		}
	}
	return nil, fmt.Errorf("%w: %s wants %s, got %T", ErrTypeMismatch, dp.Name, dp.Type, v)
}

// toInt64 widens any integer. Unsigned values beyond int64 saturate so the
// range check downstream rejects them.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return saturate(uint64(n)), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return saturate(n), true
	case *big.Int:
		if n.IsInt64() {
			return n.Int64(), true
		}
		if n.Sign() < 0 {
			return math.MinInt64, true
		}
		return math.MaxInt64, true
	default:
		return 0, false
	}
}

func saturate(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}
