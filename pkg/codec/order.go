package codec

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ByteOrder selects the layout of multi-byte values on the wire.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little-endian"
	case BigEndian:
		return "big-endian"
	default:
		return fmt.Sprintf("ByteOrder(%d)", int(o))
	}
}

// Binary returns the encoding/binary implementation of o.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ParseByteOrder accepts "le", "little", "little-endian" and the big-endian
// equivalents, case-insensitively.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "le", "little", "little-endian", "littleendian":
		return LittleEndian, nil
	case "be", "big", "big-endian", "bigendian":
		return BigEndian, nil
	default:
		return 0, fmt.Errorf("codec: unknown byte order %q", s)
	}
}
