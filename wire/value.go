package wire

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Value is the tagged union every piece of key/value data travels as on the
// wire: a one-byte TypeCode followed by a type-specific body. Concrete
// variants below each know their own code, how to write their body, and how
// big that body is.
type Value interface {
	Code() TypeCode
	WriteBody(w io.Writer) error
	SizeBody() int
}

// WriteValue writes the type code followed by the value's body. A nil Value
// is written as Null.
func WriteValue(w io.Writer, v Value) error {
	if v == nil {
		return WriteI8(w, int8(CodeNull))
	}
	if err := WriteI8(w, int8(v.Code())); err != nil {
		return err
	}
	return v.WriteBody(w)
}

// SizeValue returns the encoded size of v including its one-byte type code.
func SizeValue(v Value) int {
	if v == nil {
		return 1
	}
	return 1 + v.SizeBody()
}

// ReadValue reads a type code and dispatches to the matching body decoder.
// It returns a nil Value (not an error) for Null.
func ReadValue(r io.Reader) (Value, error) {
	codeByte, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	return readValueBody(r, TypeCode(codeByte))
}

func readValueBody(r io.Reader, code TypeCode) (Value, error) {
	switch code {
	case CodeNull:
		return nil, nil
	case CodeByte:
		v, err := ReadI8(r)
		return I8(v), err
	case CodeShort:
		v, err := ReadI16(r)
		return I16(v), err
	case CodeInt:
		v, err := ReadI32(r)
		return I32(v), err
	case CodeLong:
		v, err := ReadI64(r)
		return I64(v), err
	case CodeFloat:
		v, err := ReadF32(r)
		return F32(v), err
	case CodeDouble:
		v, err := ReadF64(r)
		return F64(v), err
	case CodeChar:
		v, err := ReadU16(r)
		return Char(v), err
	case CodeBool:
		v, err := ReadBool(r)
		return Bool(v), err
	case CodeString:
		v, err := ReadString(r)
		return Str(v), err
	case CodeUUID:
		return readUUID(r)
	case CodeDate:
		v, err := ReadI64(r)
		return Date(v), err
	case CodeTimestamp:
		return readTimestamp(r)
	case CodeTime:
		v, err := ReadI64(r)
		return Time(v), err
	case CodeDecimal:
		return readDecimal(r)
	case CodeEnum:
		return readEnum(r)
	case CodeBinaryEnum:
		return readEnum(r)
	case CodeWrappedData:
		return readWrappedData(r)
	case CodeArrByte:
		return readPrimitiveArray(r, CodeArrByte)
	case CodeArrShort:
		return readPrimitiveArray(r, CodeArrShort)
	case CodeArrInt:
		return readPrimitiveArray(r, CodeArrInt)
	case CodeArrLong:
		return readPrimitiveArray(r, CodeArrLong)
	case CodeArrFloat:
		return readPrimitiveArray(r, CodeArrFloat)
	case CodeArrDouble:
		return readPrimitiveArray(r, CodeArrDouble)
	case CodeArrChar:
		return readPrimitiveArray(r, CodeArrChar)
	case CodeArrBool:
		return readPrimitiveArray(r, CodeArrBool)
	case CodeArrString:
		return readArrString(r)
	case CodeArrUUID:
		return readArrUUID(r)
	case CodeArrDate:
		return readArrDate(r)
	case CodeArrDecimal:
		return readArrDecimal(r)
	case CodeArrTimestamp:
		return readArrTimestamp(r)
	case CodeArrTime:
		return readArrTime(r)
	case CodeArrEnum:
		return readEnumArray(r)
	case CodeArrObject, CodeCollection:
		return readSequence(r, code)
	case CodeMap:
		return readMapValue(r)
	case CodeComplexObject:
		return readComplexObjectAfterCode(r)
	default:
		return nil, fmt.Errorf("wire: unknown type code %d", code)
	}
}

// --- primitive scalar variants ---

type I8 int8

func (v I8) Code() TypeCode              { return CodeByte }
func (v I8) WriteBody(w io.Writer) error { return WriteI8(w, int8(v)) }
func (v I8) SizeBody() int               { return 1 }

type I16 int16

func (v I16) Code() TypeCode              { return CodeShort }
func (v I16) WriteBody(w io.Writer) error { return WriteI16(w, int16(v)) }
func (v I16) SizeBody() int               { return 2 }

type I32 int32

func (v I32) Code() TypeCode              { return CodeInt }
func (v I32) WriteBody(w io.Writer) error { return WriteI32(w, int32(v)) }
func (v I32) SizeBody() int               { return 4 }

type I64 int64

func (v I64) Code() TypeCode              { return CodeLong }
func (v I64) WriteBody(w io.Writer) error { return WriteI64(w, int64(v)) }
func (v I64) SizeBody() int               { return 8 }

type F32 float32

func (v F32) Code() TypeCode              { return CodeFloat }
func (v F32) WriteBody(w io.Writer) error { return WriteF32(w, float32(v)) }
func (v F32) SizeBody() int               { return 4 }

type F64 float64

func (v F64) Code() TypeCode              { return CodeDouble }
func (v F64) WriteBody(w io.Writer) error { return WriteF64(w, float64(v)) }
func (v F64) SizeBody() int               { return 8 }

// Char carries a Java char, a UTF-16 code unit, hence uint16 rather than rune.
type Char uint16

func (v Char) Code() TypeCode              { return CodeChar }
func (v Char) WriteBody(w io.Writer) error { return WriteU16(w, uint16(v)) }
func (v Char) SizeBody() int               { return 2 }

type Bool bool

func (v Bool) Code() TypeCode              { return CodeBool }
func (v Bool) WriteBody(w io.Writer) error { return WriteBool(w, bool(v)) }
func (v Bool) SizeBody() int               { return 1 }

type Str string

func (v Str) Code() TypeCode              { return CodeString }
func (v Str) WriteBody(w io.Writer) error { return WriteString(w, string(v)) }
func (v Str) SizeBody() int               { return 4 + len(v) }

// Date carries milliseconds since the Unix epoch (no nanosecond component).
type Date int64

func (v Date) Code() TypeCode              { return CodeDate }
func (v Date) WriteBody(w io.Writer) error { return WriteI64(w, int64(v)) }
func (v Date) SizeBody() int               { return 8 }

// Time carries milliseconds since midnight, local-time-of-day only.
type Time int64

func (v Time) Code() TypeCode              { return CodeTime }
func (v Time) WriteBody(w io.Writer) error { return WriteI64(w, int64(v)) }
func (v Time) SizeBody() int               { return 8 }

// Timestamp carries milliseconds since the epoch plus a nanosecond-of-
// millisecond remainder, matching java.sql.Timestamp's split precision.
type Timestamp struct {
	Millis    int64
	ExtraNsec int32
}

func (v Timestamp) Code() TypeCode { return CodeTimestamp }
func (v Timestamp) WriteBody(w io.Writer) error {
	if err := WriteI64(w, v.Millis); err != nil {
		return err
	}
	return WriteI32(w, v.ExtraNsec)
}
func (v Timestamp) SizeBody() int { return 12 }

func readTimestamp(r io.Reader) (Value, error) {
	ms, err := ReadI64(r)
	if err != nil {
		return nil, err
	}
	ns, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	return Timestamp{Millis: ms, ExtraNsec: ns}, nil
}

// UUID carries a 128-bit Java UUID, written as two little-endian longs:
// java.util.UUID's most-significant bits, then its least-significant bits.
type UUID uuid.UUID

func (v UUID) Code() TypeCode { return CodeUUID }
func (v UUID) WriteBody(w io.Writer) error {
	msb, lsb := uuidToJavaLongs(uuid.UUID(v))
	if err := writeJavaLong(w, msb); err != nil {
		return err
	}
	return writeJavaLong(w, lsb)
}
func (v UUID) SizeBody() int { return 16 }

func readUUID(r io.Reader) (Value, error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	var out [16]byte
	// the two 8-byte halves are little-endian longs; reverse each half's
	// bytes to recover the UUID's big-endian byte order.
	for i := 0; i < 8; i++ {
		out[i] = buf[7-i]
		out[8+i] = buf[15-i]
	}
	return UUID(out), nil
}

func uuidToJavaLongs(u uuid.UUID) (msb, lsb uint64) {
	for i := 0; i < 8; i++ {
		msb = msb<<8 | uint64(u[i])
	}
	for i := 8; i < 16; i++ {
		lsb = lsb<<8 | uint64(u[i])
	}
	return msb, lsb
}

func writeJavaLong(w io.Writer, v uint64) error {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v)
		v >>= 8
	}
	_, err := w.Write(buf[:])
	return err
}

// Decimal carries an arbitrary-precision signed decimal as a Java BigDecimal
// would: an unscaled two's-complement big-endian magnitude plus a base-10
// scale.
type Decimal struct {
	Scale    int32
	Unscaled []byte
}

func (v Decimal) Code() TypeCode { return CodeDecimal }
func (v Decimal) WriteBody(w io.Writer) error {
	if err := WriteI32(w, v.Scale); err != nil {
		return err
	}
	if err := WriteI32(w, int32(len(v.Unscaled))); err != nil {
		return err
	}
	_, err := w.Write(v.Unscaled)
	return err
}
func (v Decimal) SizeBody() int { return 8 + len(v.Unscaled) }

func readDecimal(r io.Reader) (Value, error) {
	scale, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return Decimal{Scale: scale, Unscaled: buf}, nil
}

// Enum carries a Java enum value by its declaring type id and ordinal.
type Enum struct {
	TypeID  int32
	Ordinal int32
}

func (v Enum) Code() TypeCode { return CodeEnum }
func (v Enum) WriteBody(w io.Writer) error {
	if err := WriteI32(w, v.TypeID); err != nil {
		return err
	}
	return WriteI32(w, v.Ordinal)
}
func (v Enum) SizeBody() int { return 8 }

func readEnum(r io.Reader) (Value, error) {
	typeID, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	ordinal, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	return Enum{TypeID: typeID, Ordinal: ordinal}, nil
}

// WrappedData carries an already-serialized Value verbatim, without
// decoding it. Used on the wire to let a server (or, on decode, a caller)
// keep hold of the raw bytes of an embedded value instead of paying to parse
// and re-encode it. Offset is reserved for the region's start within a
// larger enclosing buffer; this client always writes 0.
type WrappedData struct {
	Payload []byte
	Offset  int32
}

func (v WrappedData) Code() TypeCode { return CodeWrappedData }
func (v WrappedData) WriteBody(w io.Writer) error {
	if err := WriteI32(w, int32(len(v.Payload))); err != nil {
		return err
	}
	if _, err := w.Write(v.Payload); err != nil {
		return err
	}
	return WriteI32(w, v.Offset)
}
func (v WrappedData) SizeBody() int { return 8 + len(v.Payload) }

func readWrappedData(r io.Reader) (Value, error) {
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	offset, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	return WrappedData{Payload: buf, Offset: offset}, nil
}
