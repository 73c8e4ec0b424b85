// Package record builds wire.Codec implementations for user-declared record
// types out of Go struct reflection, a runtime alternative to compile-time
// code generation: the caller declares a Go struct once, and StructCodec
// derives the complex-object encode, decode, and size behavior from it.
package record

import (
	"fmt"
	"io"
	"reflect"

	"github.com/solidgrid/gridcache/wire"
)

// Tag is the struct tag key StructCodec reads to learn a field's wire name.
// A field without the tag uses its Go field name unchanged.
const Tag = "gridcache"

type fieldSpec struct {
	wireName string
	goIndex  int
	toValue  func(reflect.Value) (wire.Value, error)
	setField func(dst reflect.Value, v wire.Value) error
}

// StructCodec implements wire.Codec[T] for a struct type T by mapping each
// exported field to a complex-object field in declaration order.
type StructCodec[T any] struct {
	schema *wire.Schema
	fields []fieldSpec
}

// NewStructCodec builds a StructCodec for T, named typeName on the wire.
// T must be a struct type (not a pointer to one); every exported field must
// have a supported underlying type (see fieldConverter).
func NewStructCodec[T any](typeName string) (*StructCodec[T], error) {
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("record: %T is not a struct type", zero)
	}

	var names []string
	var specs []fieldSpec
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		name := sf.Tag.Get(Tag)
		if name == "" {
			name = sf.Name
		}
		toValue, setField, err := fieldConverter(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("record: field %s: %w", sf.Name, err)
		}
		names = append(names, name)
		specs = append(specs, fieldSpec{wireName: name, goIndex: i, toValue: toValue, setField: setField})
	}

	return &StructCodec[T]{schema: wire.NewSchema(typeName, names), fields: specs}, nil
}

// Schema exposes the derived schema, e.g. for callers that want to print or
// compare type-id/schema-id without a round trip.
func (c *StructCodec[T]) Schema() *wire.Schema { return c.schema }

func (c *StructCodec[T]) toObject(v T) (*wire.Object, error) {
	rv := reflect.ValueOf(v)
	obj := wire.NewObject(c.schema)
	for i, f := range c.fields {
		fv := rv.Field(f.goIndex)
		val, err := f.toValue(fv)
		if err != nil {
			return nil, fmt.Errorf("record: field %s: %w", f.wireName, err)
		}
		if err := obj.Set(c.schema.Fields[i], val); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// Encode writes v as a tagged complex-object Value.
func (c *StructCodec[T]) Encode(v T, w io.Writer) error {
	obj, err := c.toObject(v)
	if err != nil {
		return err
	}
	return wire.WriteValue(w, obj)
}

// EncodedSize returns the exact byte length Encode will emit.
func (c *StructCodec[T]) EncodedSize(v T) int {
	obj, err := c.toObject(v)
	if err != nil {
		return 0
	}
	return wire.SizeValue(obj)
}

// Decode reads a complex object and maps its fields back onto a new T in
// schema order, validating the wire type-id matches this codec's schema.
func (c *StructCodec[T]) Decode(r io.Reader) (T, error) {
	var zero T
	v, err := wire.ReadValue(r)
	if err != nil {
		return zero, err
	}
	raw, ok := v.(wire.RawComplexObject)
	if !ok {
		return zero, fmt.Errorf("record: expected complex object, got type code %d", wireCode(v))
	}
	if raw.TypeID != c.schema.TypeID() {
		return zero, fmt.Errorf("record: type-id mismatch: wire %d, schema %d", raw.TypeID, c.schema.TypeID())
	}
	if len(raw.Fields) != len(c.fields) {
		return zero, fmt.Errorf("record: field count mismatch: wire %d, schema %d", len(raw.Fields), len(c.fields))
	}

	out := reflect.New(reflect.TypeOf(zero)).Elem()
	for i, f := range c.fields {
		if err := f.setField(out.Field(f.goIndex), raw.Fields[i]); err != nil {
			return zero, fmt.Errorf("record: field %s: %w", f.wireName, err)
		}
	}
	return out.Interface().(T), nil
}

func wireCode(v wire.Value) int {
	if v == nil {
		return int(wire.CodeNull)
	}
	return int(v.Code())
}
