package datapoint

import (
	"encoding/hex"
	"fmt"

	"github.com/yap-protocol/yap/pkg/codec"
)

// ValueType tags how a data point's payload is interpreted.
type ValueType int

const (
	String ValueType = iota
	UInt32
	Float
)

func (t ValueType) String() string {
	switch t {
	case String:
		return "String"
	case UInt32:
		return "UInt32"
	case Float:
		return "Float"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// IDLen is the length of a data point identifier on the wire.
const IDLen = 4

// ID is the raw identifier of a data point. It is compared byte for byte
// and never interpreted as a number.
type ID [IDLen]byte

// Bytes returns a copy of the identifier bytes.
func (id ID) Bytes() []byte {
	b := make([]byte, IDLen)
	copy(b, id[:])
	return b
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// ParseID parses the hex form produced by ID.String. Spaces are ignored.
func ParseID(s string) (ID, error) {
	var id ID
	clean := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			clean = append(clean, s[i])
		}
	}
	b, err := hex.DecodeString(string(clean))
	if err != nil {
		return id, fmt.Errorf("datapoint: invalid id %q: %w", s, err)
	}
	if len(b) != IDLen {
		return id, fmt.Errorf("datapoint: invalid id %q: want %d bytes, got %d", s, IDLen, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// DataPoint is one field of the protocol.
type DataPoint struct {
	Name  string
	ID    ID
	Type  ValueType
	Order codec.ByteOrder // UInt32 and Float only
	// Length is the documented byte length of String values; 0 for numeric types.
	Length int
}

// WireLength returns the payload length a responder sends for d.
func (d DataPoint) WireLength() int {
	if d.Type == String {
		return d.Length
	}
	return 4
}

func (d DataPoint) String() string {
	return d.Name
}

// Reference data points.
var (
	SerialNumber = DataPoint{
		Name: "SERIAL_NUMBER", ID: ID{0x00, 0x00, 0x00, 0x01}, Type: String, Length: 10,
	}
	ProductType = DataPoint{
		Name: "PRODUCT_TYPE", ID: ID{0x00, 0x00, 0x00, 0x02}, Type: String, Length: 10,
	}
	PowerInputWatt = DataPoint{
		Name: "POWER_INPUT_WATT", ID: ID{0x00, 0x00, 0x01, 0x01}, Type: Float, Order: codec.LittleEndian,
	}
	PowerOutputWatt = DataPoint{
		Name: "POWER_OUTPUT_WATT", ID: ID{0x00, 0x00, 0x01, 0x02}, Type: Float, Order: codec.LittleEndian,
	}
	WorkInputKilowattHours = DataPoint{
		Name: "WORK_INPUT_KILOWATTHOURS", ID: ID{0x00, 0x00, 0x02, 0x01}, Type: UInt32, Order: codec.BigEndian,
	}
	WorkOutputKilowattHours = DataPoint{
		Name: "WORK_OUTPUT_KILOWATTHOURS", ID: ID{0x00, 0x00, 0x02, 0x02}, Type: UInt32, Order: codec.BigEndian,
	}
	WorkingHours = DataPoint{
		Name: "WORKING_HOURS", ID: ID{0x00, 0x00, 0x04, 0x01}, Type: UInt32, Order: codec.LittleEndian,
	}
)
