package wire

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Primitive arrays (codes 12-19) hold a raw homogeneous run of native values:
// a four-byte length followed by that many elements with no per-element type
// tag and no possibility of a null element.

type ArrByte []int8

func (v ArrByte) Code() TypeCode { return CodeArrByte }
func (v ArrByte) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, b := range v {
		if err := WriteI8(w, b); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrByte) SizeBody() int { return 4 + len(v) }

type ArrShort []int16

func (v ArrShort) Code() TypeCode { return CodeArrShort }
func (v ArrShort) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, x := range v {
		if err := WriteI16(w, x); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrShort) SizeBody() int { return 4 + 2*len(v) }

type ArrInt []int32

func (v ArrInt) Code() TypeCode { return CodeArrInt }
func (v ArrInt) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, x := range v {
		if err := WriteI32(w, x); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrInt) SizeBody() int { return 4 + 4*len(v) }

type ArrLong []int64

func (v ArrLong) Code() TypeCode { return CodeArrLong }
func (v ArrLong) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, x := range v {
		if err := WriteI64(w, x); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrLong) SizeBody() int { return 4 + 8*len(v) }

type ArrFloat []float32

func (v ArrFloat) Code() TypeCode { return CodeArrFloat }
func (v ArrFloat) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, x := range v {
		if err := WriteF32(w, x); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrFloat) SizeBody() int { return 4 + 4*len(v) }

type ArrDouble []float64

func (v ArrDouble) Code() TypeCode { return CodeArrDouble }
func (v ArrDouble) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, x := range v {
		if err := WriteF64(w, x); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrDouble) SizeBody() int { return 4 + 8*len(v) }

type ArrChar []uint16

func (v ArrChar) Code() TypeCode { return CodeArrChar }
func (v ArrChar) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, x := range v {
		if err := WriteU16(w, x); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrChar) SizeBody() int { return 4 + 2*len(v) }

type ArrBool []bool

func (v ArrBool) Code() TypeCode { return CodeArrBool }
func (v ArrBool) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, x := range v {
		if err := WriteBool(w, x); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrBool) SizeBody() int { return 4 + len(v) }

func readPrimitiveArray(r io.Reader, code TypeCode) (Value, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	switch code {
	case CodeArrByte:
		out := make(ArrByte, n)
		for i := range out {
			if out[i], err = ReadI8(r); err != nil {
				return nil, err
			}
		}
		return out, nil
	case CodeArrShort:
		out := make(ArrShort, n)
		for i := range out {
			if out[i], err = ReadI16(r); err != nil {
				return nil, err
			}
		}
		return out, nil
	case CodeArrInt:
		out := make(ArrInt, n)
		for i := range out {
			if out[i], err = ReadI32(r); err != nil {
				return nil, err
			}
		}
		return out, nil
	case CodeArrLong:
		out := make(ArrLong, n)
		for i := range out {
			if out[i], err = ReadI64(r); err != nil {
				return nil, err
			}
		}
		return out, nil
	case CodeArrFloat:
		out := make(ArrFloat, n)
		for i := range out {
			if out[i], err = ReadF32(r); err != nil {
				return nil, err
			}
		}
		return out, nil
	case CodeArrDouble:
		out := make(ArrDouble, n)
		for i := range out {
			if out[i], err = ReadF64(r); err != nil {
				return nil, err
			}
		}
		return out, nil
	case CodeArrChar:
		out := make(ArrChar, n)
		for i := range out {
			if out[i], err = ReadU16(r); err != nil {
				return nil, err
			}
		}
		return out, nil
	case CodeArrBool:
		out := make(ArrBool, n)
		for i := range out {
			if out[i], err = ReadBool(r); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("wire: %d is not a primitive array code", code)
	}
}

// ArrString, ArrUUID and ArrDate (codes 20-22) hold a length followed by
// that many elements, each of which may independently be null (one byte
// null-or-typed marker per element, the same shape as an object array but
// restricted to a single element kind).

type ArrString []*string

func (v ArrString) Code() TypeCode { return CodeArrString }
func (v ArrString) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, s := range v {
		if s == nil {
			if err := WriteValue(w, nil); err != nil {
				return err
			}
			continue
		}
		if err := WriteValue(w, Str(*s)); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrString) SizeBody() int {
	n := 4
	for _, s := range v {
		if s == nil {
			n++
			continue
		}
		n += SizeValue(Str(*s))
	}
	return n
}

func readArrString(r io.Reader) (Value, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make(ArrString, n)
	for i := range out {
		val, err := ReadValue(r)
		if err != nil {
			return nil, err
		}
		if val == nil {
			continue
		}
		s, ok := val.(Str)
		if !ok {
			return nil, fmt.Errorf("wire: expected String element in string array, got code %d", val.Code())
		}
		str := string(s)
		out[i] = &str
	}
	return out, nil
}

type ArrUUID []*UUID

func (v ArrUUID) Code() TypeCode { return CodeArrUUID }
func (v ArrUUID) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, u := range v {
		if u == nil {
			if err := WriteValue(w, nil); err != nil {
				return err
			}
			continue
		}
		if err := WriteValue(w, *u); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrUUID) SizeBody() int {
	n := 4
	for _, u := range v {
		if u == nil {
			n++
			continue
		}
		n += SizeValue(*u)
	}
	return n
}

func readArrUUID(r io.Reader) (Value, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make(ArrUUID, n)
	for i := range out {
		val, err := ReadValue(r)
		if err != nil {
			return nil, err
		}
		if val == nil {
			continue
		}
		u, ok := val.(UUID)
		if !ok {
			return nil, fmt.Errorf("wire: expected UUID element in uuid array, got code %d", val.Code())
		}
		out[i] = &u
	}
	return out, nil
}

type ArrDate []*int64

func (v ArrDate) Code() TypeCode { return CodeArrDate }
func (v ArrDate) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, d := range v {
		if d == nil {
			if err := WriteValue(w, nil); err != nil {
				return err
			}
			continue
		}
		if err := WriteValue(w, Date(*d)); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrDate) SizeBody() int {
	n := 4
	for _, d := range v {
		if d == nil {
			n++
			continue
		}
		n += SizeValue(Date(*d))
	}
	return n
}

func readArrDate(r io.Reader) (Value, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make(ArrDate, n)
	for i := range out {
		val, err := ReadValue(r)
		if err != nil {
			return nil, err
		}
		if val == nil {
			continue
		}
		d, ok := val.(Date)
		if !ok {
			return nil, fmt.Errorf("wire: expected Date element in date array, got code %d", val.Code())
		}
		ms := int64(d)
		out[i] = &ms
	}
	return out, nil
}

type ArrDecimal []*Decimal

func (v ArrDecimal) Code() TypeCode { return CodeArrDecimal }
func (v ArrDecimal) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, d := range v {
		if d == nil {
			if err := WriteValue(w, nil); err != nil {
				return err
			}
			continue
		}
		if err := WriteValue(w, *d); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrDecimal) SizeBody() int {
	n := 4
	for _, d := range v {
		if d == nil {
			n++
			continue
		}
		n += SizeValue(*d)
	}
	return n
}

func readArrDecimal(r io.Reader) (Value, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make(ArrDecimal, n)
	for i := range out {
		val, err := ReadValue(r)
		if err != nil {
			return nil, err
		}
		if val == nil {
			continue
		}
		d, ok := val.(Decimal)
		if !ok {
			return nil, fmt.Errorf("wire: expected Decimal element in decimal array, got code %d", val.Code())
		}
		out[i] = &d
	}
	return out, nil
}

type ArrTimestamp []*Timestamp

func (v ArrTimestamp) Code() TypeCode { return CodeArrTimestamp }
func (v ArrTimestamp) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, ts := range v {
		if ts == nil {
			if err := WriteValue(w, nil); err != nil {
				return err
			}
			continue
		}
		if err := WriteValue(w, *ts); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrTimestamp) SizeBody() int {
	n := 4
	for _, ts := range v {
		if ts == nil {
			n++
			continue
		}
		n += SizeValue(*ts)
	}
	return n
}

func readArrTimestamp(r io.Reader) (Value, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make(ArrTimestamp, n)
	for i := range out {
		val, err := ReadValue(r)
		if err != nil {
			return nil, err
		}
		if val == nil {
			continue
		}
		ts, ok := val.(Timestamp)
		if !ok {
			return nil, fmt.Errorf("wire: expected Timestamp element in timestamp array, got code %d", val.Code())
		}
		out[i] = &ts
	}
	return out, nil
}

type ArrTime []*int64

func (v ArrTime) Code() TypeCode { return CodeArrTime }
func (v ArrTime) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, t := range v {
		if t == nil {
			if err := WriteValue(w, nil); err != nil {
				return err
			}
			continue
		}
		if err := WriteValue(w, Time(*t)); err != nil {
			return err
		}
	}
	return nil
}
func (v ArrTime) SizeBody() int {
	n := 4
	for _, t := range v {
		if t == nil {
			n++
			continue
		}
		n += SizeValue(Time(*t))
	}
	return n
}

func readArrTime(r io.Reader) (Value, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make(ArrTime, n)
	for i := range out {
		val, err := ReadValue(r)
		if err != nil {
			return nil, err
		}
		if val == nil {
			continue
		}
		t, ok := val.(Time)
		if !ok {
			return nil, fmt.Errorf("wire: expected Time element in time array, got code %d", val.Code())
		}
		ms := int64(t)
		out[i] = &ms
	}
	return out, nil
}

// EnumArray is the decoded form of an enum array (code 29): the declaring
// type's id followed by a length and that many (possibly null) tagged
// Values, mirroring the object-array shape (code 23) but scoped to a single
// enum type.
type EnumArray struct {
	TypeID int32
	Items  []Value
}

func (v EnumArray) Code() TypeCode { return CodeArrEnum }
func (v EnumArray) WriteBody(w io.Writer) error {
	if err := WriteI32(w, v.TypeID); err != nil {
		return err
	}
	if err := WriteI32(w, int32(len(v.Items))); err != nil {
		return err
	}
	for _, item := range v.Items {
		if err := WriteValue(w, item); err != nil {
			return err
		}
	}
	return nil
}
func (v EnumArray) SizeBody() int {
	n := 8
	for _, item := range v.Items {
		n += SizeValue(item)
	}
	return n
}

func readEnumArray(r io.Reader) (Value, error) {
	typeID, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	items := make([]Value, n)
	for i := range items {
		if items[i], err = ReadValue(r); err != nil {
			return nil, err
		}
	}
	return EnumArray{TypeID: typeID, Items: items}, nil
}

// Sequence is the decoded form of an object array (code 23) or a Java
// collection (code 24): an ordered run of fully-tagged Values, any of which
// may be Null. A decoder accepts either wire shape interchangeably — an
// object array puts a four-byte element-type id before the length, a
// Collection puts a one-byte collection kind after it — and most servers are
// free to choose either representation for the same logical sequence.
type Sequence struct {
	// IsCollection selects which wire shape to emit. Object arrays
	// (IsCollection == false) carry an element-type id ahead of the items;
	// collections carry a one-byte kind instead.
	IsCollection bool
	ElementType  int32          // only meaningful when !IsCollection; -1 means "unknown/mixed"
	Kind         CollectionKind // only meaningful when IsCollection
	Items        []Value        // any element may be nil (Null)
}

func (v Sequence) Code() TypeCode {
	if v.IsCollection {
		return CodeCollection
	}
	return CodeArrObject
}

func (v Sequence) WriteBody(w io.Writer) error {
	if v.IsCollection {
		if err := WriteI32(w, int32(len(v.Items))); err != nil {
			return err
		}
		if err := WriteI8(w, int8(v.Kind)); err != nil {
			return err
		}
	} else {
		elemType := v.ElementType
		if elemType == 0 {
			elemType = -1
		}
		if err := WriteI32(w, elemType); err != nil {
			return err
		}
		if err := WriteI32(w, int32(len(v.Items))); err != nil {
			return err
		}
	}
	for _, item := range v.Items {
		if err := WriteValue(w, item); err != nil {
			return err
		}
	}
	return nil
}

func (v Sequence) SizeBody() int {
	n := 5
	if !v.IsCollection {
		n = 8
	}
	for _, item := range v.Items {
		n += SizeValue(item)
	}
	return n
}

func readSequence(r io.Reader, code TypeCode) (Value, error) {
	if code == CodeArrObject {
		elemType, err := ReadI32(r)
		if err != nil {
			return nil, err
		}
		n, err := ReadI32(r)
		if err != nil {
			return nil, err
		}
		items := make([]Value, n)
		for i := range items {
			if items[i], err = ReadValue(r); err != nil {
				return nil, err
			}
		}
		return Sequence{IsCollection: false, ElementType: elemType, Items: items}, nil
	}
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	kindByte, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	kind := CollectionKind(kindByte)
	if kind < CollectionUserSet || kind > CollectionSingletonList {
		return nil, fmt.Errorf("wire: unknown collection kind %d", kindByte)
	}
	items := make([]Value, n)
	for i := range items {
		if items[i], err = ReadValue(r); err != nil {
			return nil, err
		}
	}
	return Sequence{IsCollection: true, Kind: kind, Items: items}, nil
}

// MapEntry is one key/value pair of a MapValue.
type MapEntry struct {
	Key   Value
	Value Value
}

// MapValue is the decoded form of a Java map (code 25): a length, a one-byte
// map kind, then that many tagged key/value pairs.
type MapValue struct {
	Kind    MapKind
	Entries []MapEntry
}

func (v MapValue) Code() TypeCode { return CodeMap }
func (v MapValue) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v.Entries))); err != nil {
		return err
	}
	if err := WriteI8(w, int8(v.Kind)); err != nil {
		return err
	}
	for _, e := range v.Entries {
		if err := WriteValue(w, e.Key); err != nil {
			return err
		}
		if err := WriteValue(w, e.Value); err != nil {
			return err
		}
	}
	return nil
}
func (v MapValue) SizeBody() int {
	n := 5
	for _, e := range v.Entries {
		n += SizeValue(e.Key) + SizeValue(e.Value)
	}
	return n
}

func readMapValue(r io.Reader) (Value, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	kindByte, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	kind := MapKind(kindByte)
	if kind != MapHashMap && kind != MapLinkedHashMap {
		return nil, fmt.Errorf("wire: unknown map kind %d", kindByte)
	}
	entries := make([]MapEntry, n)
	for i := range entries {
		k, err := ReadValue(r)
		if err != nil {
			return nil, err
		}
		v, err := ReadValue(r)
		if err != nil {
			return nil, err
		}
		entries[i] = MapEntry{Key: k, Value: v}
	}
	return MapValue{Kind: kind, Entries: entries}, nil
}

// NewUUID wraps a github.com/google/uuid value as a wire UUID.
func NewUUID(u uuid.UUID) UUID { return UUID(u) }
