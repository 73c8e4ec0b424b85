package wire

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Codec is the capability pair (Writable + Readable) the cache facade
// requires of every key and value type: encode a Go value as a tagged
// wire.Value, and decode one back. Every primitive type the protocol
// defines gets a ready-made Codec below; complex-object record types get
// theirs from the record package, which builds a Codec on top of
// wire.Object.
type Codec[T any] interface {
	Encode(v T, w io.Writer) error
	EncodedSize(v T) int
	Decode(r io.Reader) (T, error)
}

type primitiveCodec[T any] struct {
	toValue   func(T) Value
	fromValue func(Value) (T, error)
}

func (c primitiveCodec[T]) Encode(v T, w io.Writer) error {
	return WriteValue(w, c.toValue(v))
}

func (c primitiveCodec[T]) EncodedSize(v T) int {
	return SizeValue(c.toValue(v))
}

func (c primitiveCodec[T]) Decode(r io.Reader) (T, error) {
	var zero T
	val, err := ReadValue(r)
	if err != nil {
		return zero, err
	}
	return c.fromValue(val)
}

// Int8Codec encodes a byte-sized Go int8 as TypeCode Byte.
var Int8Codec Codec[int8] = primitiveCodec[int8]{
	toValue: func(v int8) Value { return I8(v) },
	fromValue: func(v Value) (int8, error) {
		i, ok := v.(I8)
		if !ok {
			return 0, typeMismatch("int8", v)
		}
		return int8(i), nil
	},
}

// Int16Codec encodes a Go int16 as TypeCode Short.
var Int16Codec Codec[int16] = primitiveCodec[int16]{
	toValue: func(v int16) Value { return I16(v) },
	fromValue: func(v Value) (int16, error) {
		i, ok := v.(I16)
		if !ok {
			return 0, typeMismatch("int16", v)
		}
		return int16(i), nil
	},
}

// Int32Codec encodes a Go int32 as TypeCode Int.
var Int32Codec Codec[int32] = primitiveCodec[int32]{
	toValue: func(v int32) Value { return I32(v) },
	fromValue: func(v Value) (int32, error) {
		i, ok := v.(I32)
		if !ok {
			return 0, typeMismatch("int32", v)
		}
		return int32(i), nil
	},
}

// Int64Codec encodes a Go int64 as TypeCode Long.
var Int64Codec Codec[int64] = primitiveCodec[int64]{
	toValue: func(v int64) Value { return I64(v) },
	fromValue: func(v Value) (int64, error) {
		i, ok := v.(I64)
		if !ok {
			return 0, typeMismatch("int64", v)
		}
		return int64(i), nil
	},
}

// Float32Codec encodes a Go float32 as TypeCode Float.
var Float32Codec Codec[float32] = primitiveCodec[float32]{
	toValue: func(v float32) Value { return F32(v) },
	fromValue: func(v Value) (float32, error) {
		f, ok := v.(F32)
		if !ok {
			return 0, typeMismatch("float32", v)
		}
		return float32(f), nil
	},
}

// Float64Codec encodes a Go float64 as TypeCode Double.
var Float64Codec Codec[float64] = primitiveCodec[float64]{
	toValue: func(v float64) Value { return F64(v) },
	fromValue: func(v Value) (float64, error) {
		f, ok := v.(F64)
		if !ok {
			return 0, typeMismatch("float64", v)
		}
		return float64(f), nil
	},
}

// BoolCodec encodes a Go bool as TypeCode Bool.
var BoolCodec Codec[bool] = primitiveCodec[bool]{
	toValue: func(v bool) Value { return Bool(v) },
	fromValue: func(v Value) (bool, error) {
		b, ok := v.(Bool)
		if !ok {
			return false, typeMismatch("bool", v)
		}
		return bool(b), nil
	},
}

// StringCodec encodes a Go string as TypeCode String.
var StringCodec Codec[string] = primitiveCodec[string]{
	toValue: func(v string) Value { return Str(v) },
	fromValue: func(v Value) (string, error) {
		s, ok := v.(Str)
		if !ok {
			return "", typeMismatch("string", v)
		}
		return string(s), nil
	},
}

// UUIDCodec encodes a github.com/google/uuid.UUID as TypeCode Uuid.
var UUIDCodec Codec[uuid.UUID] = primitiveCodec[uuid.UUID]{
	toValue: func(v uuid.UUID) Value { return UUID(v) },
	fromValue: func(v Value) (uuid.UUID, error) {
		u, ok := v.(UUID)
		if !ok {
			return uuid.UUID{}, typeMismatch("uuid", v)
		}
		return uuid.UUID(u), nil
	},
}

// BytesCodec encodes a Go []byte as TypeCode ArrByte, converting between the
// wire's signed-byte array and Go's unsigned byte slice.
var BytesCodec Codec[[]byte] = primitiveCodec[[]byte]{
	toValue: func(v []byte) Value {
		arr := make(ArrByte, len(v))
		for i, b := range v {
			arr[i] = int8(b)
		}
		return arr
	},
	fromValue: func(v Value) ([]byte, error) {
		arr, ok := v.(ArrByte)
		if !ok {
			return nil, typeMismatch("[]byte", v)
		}
		out := make([]byte, len(arr))
		for i, b := range arr {
			out[i] = byte(b)
		}
		return out, nil
	},
}

// rawValueCodec is a Codec[Value] that passes a tagged Value through
// unchanged: Encode/Decode do no type narrowing beyond the tag dispatch
// ReadValue/WriteValue already perform. Used by cache.Cache[wire.Value,
// wire.Value], the untyped handle returned by cache acquisition before a
// caller narrows it to a concrete key/value Codec pair.
type rawValueCodec struct{}

func (rawValueCodec) Encode(v Value, w io.Writer) error { return WriteValue(w, v) }
func (rawValueCodec) EncodedSize(v Value) int           { return SizeValue(v) }
func (rawValueCodec) Decode(r io.Reader) (Value, error) { return ReadValue(r) }

// ValueCodec is the identity Codec over the tagged Value union itself, for
// callers that want to work with raw wire.Value keys/values rather than a
// narrower Go type.
var ValueCodec Codec[Value] = rawValueCodec{}

func typeMismatch(want string, got Value) error {
	if got == nil {
		return fmt.Errorf("wire: expected %s, got Null", want)
	}
	return fmt.Errorf("wire: expected %s, got type code %d", want, got.Code())
}
