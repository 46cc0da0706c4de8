package codec

import (
	"math"
	"unicode/utf8"
)

const (
	// MaxUint32 is the largest value UintToBytes accepts.
	MaxUint32 = math.MaxUint32

	uintWidth  = 4
	wideWidth  = 8
	floatWidth = 4
)

// UintToBytes returns the 4-byte representation of v in order.
// v must lie within [0, MaxUint32].
func UintToBytes(v int64, order ByteOrder) ([]byte, error) {
	if v < 0 || v > MaxUint32 {
		return nil, &RangeError{Op: "uint to bytes", Value: v, Limit: "0..4294967295"}
	}
	buf := make([]byte, uintWidth)
	order.Binary().PutUint32(buf, uint32(v))
	return buf, nil
}

// BytesToUint interprets up to 8 bytes as an unsigned integer in order.
// Shorter inputs are zero-extended at the most significant end, so values
// wider than 32 bits survive when the caller supplies them.
func BytesToUint(b []byte, order ByteOrder) (uint64, error) {
	if len(b) > wideWidth {
		return 0, &RangeError{Op: "bytes to uint", Value: int64(len(b)), Limit: "at most 8 bytes"}
	}

	var wide [wideWidth]byte
	if order == BigEndian {
		copy(wide[wideWidth-len(b):], b)
	} else {
		copy(wide[:], b)
	}
	return order.Binary().Uint64(wide[:]), nil
}

// FloatToBytes returns the IEEE-754 single precision encoding of v.
func FloatToBytes(v float32, order ByteOrder) []byte {
	buf := make([]byte, floatWidth)
	order.Binary().PutUint32(buf, math.Float32bits(v))
	return buf
}

// BytesToFloat decodes exactly 4 bytes as an IEEE-754 single precision value.
func BytesToFloat(b []byte, order ByteOrder) (float32, error) {
	if len(b) != floatWidth {
		return 0, &RangeError{Op: "bytes to float", Value: int64(len(b)), Limit: "exactly 4 bytes"}
	}
	return math.Float32frombits(order.Binary().Uint32(b)), nil
}

// BytesToString interprets b as UTF-8. Invalid sequences are replaced with
// utf8.RuneError so the result is always printable.
func BytesToString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	runes := make([]rune, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		runes = append(runes, r)
		b = b[size:]
	}
	return string(runes)
}

// StringToBytes returns the UTF-8 bytes of s.
func StringToBytes(s string) []byte {
	return []byte(s)
}
