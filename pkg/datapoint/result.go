package datapoint

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/yap-protocol/yap/pkg/codec"
)

// Kind is the interpretation attached to a Result.
type Kind int

const (
	KindString Kind = iota
	KindUInt32
	KindFloat
	// KindUnknown marks a response to an identifier the responder did not recognise.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return String.String()
	case KindUInt32:
		return UInt32.String()
	case KindFloat:
		return Float.String()
	default:
		return "Unknown"
	}
}

// UnknownPayload is the payload a responder sends for an unrecognised identifier.
var UnknownPayload = []byte{0x00}

// Result is a decoded response payload together with its typed value.
// It is computed once by NewResult and never changes.
type Result struct {
	point DataPoint
	raw   []byte
	kind  Kind
	text  string
	num   uint64
	flt   float32
}

// NewResult interprets raw according to dp's value type.
func NewResult(dp DataPoint, raw []byte) (Result, error) {
	r := Result{point: dp, raw: append([]byte(nil), raw...)}

	if dp.WireLength() != len(UnknownPayload) && bytes.Equal(raw, UnknownPayload) {
		r.kind = KindUnknown
		return r, nil
	}

	switch dp.Type {
	case String:
		r.kind = KindString
		r.text = codec.BytesToString(raw)
	case UInt32:
		v, err := codec.BytesToUint(raw, dp.Order)
		if err != nil {
			return Result{}, err
		}
		r.kind = KindUInt32
		r.num = v
	case Float:
		v, err := codec.BytesToFloat(raw, dp.Order)
		if err != nil {
			return Result{}, err
		}
		r.kind = KindFloat
		r.flt = v
	default:
		r.kind = KindUnknown
	}
	return r, nil
}

// Point returns the data point the result belongs to.
func (r Result) Point() DataPoint { return r.point }

// Raw returns a copy of the decoded payload.
func (r Result) Raw() []byte { return append([]byte(nil), r.raw...) }

// Kind returns the interpretation of the result.
func (r Result) Kind() Kind { return r.kind }

// Text returns the string value of a String result.
func (r Result) Text() (string, bool) { return r.text, r.kind == KindString }

// Uint returns the value of a UInt32 result.
func (r Result) Uint() (uint64, bool) { return r.num, r.kind == KindUInt32 }

// Float returns the value of a Float result.
func (r Result) Float() (float32, bool) { return r.flt, r.kind == KindFloat }

// Value returns the typed value, or nil for unknown results.
func (r Result) Value() any {
	switch r.kind {
	case KindString:
		return r.text
	case KindUInt32:
		return r.num
	case KindFloat:
		return r.flt
	default:
		return nil
	}
}

// FormatValue renders the value alone: quoted strings, decimal integers
// and shortest-form floats.
func (r Result) FormatValue() string {
	switch r.kind {
	case KindString:
		return `"` + r.text + `"`
	case KindUInt32:
		return strconv.FormatUint(r.num, 10)
	case KindFloat:
		return strconv.FormatFloat(float64(r.flt), 'g', -1, 32)
	default:
		return ""
	}
}

// String renders "DataPoint: <name> => Result<Type>: <value>".
func (r Result) String() string {
	var sb strings.Builder
	sb.WriteString("DataPoint: ")
	sb.WriteString(r.point.Name)
	sb.WriteString(" => Result<")
	sb.WriteString(r.kind.String())
	sb.WriteString(">")
	if r.kind != KindUnknown {
		sb.WriteString(": ")
		sb.WriteString(r.FormatValue())
	}
	return sb.String()
}

type resultJSON struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Type  string `json:"type"`
	Value any    `json:"value"`
	Raw   string `json:"raw"`
}

// MarshalJSON encodes the result for the HTTP gateway.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Name:  r.point.Name,
		ID:    r.point.ID.String(),
		Type:  r.kind.String(),
		Value: r.Value(),
		Raw:   hex.EncodeToString(r.raw),
	})
}
