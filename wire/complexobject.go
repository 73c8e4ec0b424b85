package wire

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Schema names a user record type and the ordered field names that make up
// its complex-object layout. Field order is significant: it drives both the
// wire offset table and the schema-id hash, so two schemas with the same
// field set in a different order are different schemas.
type Schema struct {
	TypeName string
	Fields   []string
}

// NewSchema builds a Schema for a type name and its ordered field names.
func NewSchema(typeName string, fieldNames []string) *Schema {
	fields := make([]string, len(fieldNames))
	copy(fields, fieldNames)
	return &Schema{TypeName: typeName, Fields: fields}
}

// TypeID is the Java-hashcode identifier for the schema's type name, always
// derived from the lowercased name.
func (s *Schema) TypeID() int32 {
	return NameHash(strings.ToLower(s.TypeName))
}

// SchemaID is the FNV-1 fold of the schema's (lowercased) field names.
func (s *Schema) SchemaID() int32 {
	return SchemaID(s.Fields)
}

// javaLongTypeName is the one type name that short-circuits full
// complex-object framing: the server represents a boxed java.lang.Long as a
// bare Long value, not a one-field object.
const javaLongTypeName = "java.lang.Long"

// Object is a complex-object Value: a schema plus one field Value per
// schema field, in schema order. A nil field is encoded as Null.
type Object struct {
	Schema *Schema
	Fields []Value
}

// NewObject creates an Object for schema with all fields initialized to nil
// (Null). Use Set to populate it.
func NewObject(schema *Schema) *Object {
	return &Object{Schema: schema, Fields: make([]Value, len(schema.Fields))}
}

// Set assigns the value of the field named name. It is a usage error to name
// a field the schema doesn't declare.
func (o *Object) Set(name string, v Value) error {
	i := o.fieldIndex(name)
	if i < 0 {
		return fmt.Errorf("wire: schema %q has no field %q", o.Schema.TypeName, name)
	}
	o.Fields[i] = v
	return nil
}

// Get returns the value of the field named name, or nil with ok == false if
// the schema has no such field.
func (o *Object) Get(name string) (Value, bool) {
	i := o.fieldIndex(name)
	if i < 0 {
		return nil, false
	}
	return o.Fields[i], true
}

func (o *Object) fieldIndex(name string) int {
	for i, f := range o.Schema.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

func (o *Object) isJavaLong() bool {
	return o.Schema.TypeName == javaLongTypeName
}

// Code reports the wire type code that WriteBody will actually emit: Long
// for the java.lang.Long shortcut, ComplexObject otherwise.
func (o *Object) Code() TypeCode {
	if o.isJavaLong() {
		return CodeLong
	}
	return CodeComplexObject
}

func (o *Object) WriteBody(w io.Writer) error {
	if o.isJavaLong() {
		v, ok := o.soleLongField()
		if !ok {
			return fmt.Errorf("wire: java.lang.Long object must have exactly one Long field")
		}
		return WriteI64(w, int64(v))
	}

	fieldBytes, offsets, err := o.fieldData()
	if err != nil {
		return err
	}
	offsetFlags := offsetWidthFlags(offsets)
	flags := FlagCompactFooter | offsetFlags | FlagHasSchema | FlagUserType

	if err := WriteU8(w, 1); err != nil { // version
		return err
	}
	if err := WriteI16(w, flags); err != nil {
		return err
	}
	if err := WriteI32(w, o.Schema.TypeID()); err != nil {
		return err
	}
	if err := WriteI32(w, BodyHash(fieldBytes)); err != nil {
		return err
	}
	if err := WriteI32(w, int32(o.SizeBody()+1)); err != nil { // +1 for the type code byte already written by WriteValue
		return err
	}
	if err := WriteI32(w, o.Schema.SchemaID()); err != nil {
		return err
	}
	if err := WriteI32(w, ComplexObjectHeaderLen+int32(len(fieldBytes))); err != nil {
		return err
	}
	if _, err := w.Write(fieldBytes); err != nil {
		return err
	}
	return writeOffsets(w, offsets, offsetFlags)
}

func (o *Object) SizeBody() int {
	if o.isJavaLong() {
		return 8
	}
	fieldBytes, offsets, err := o.fieldData()
	if err != nil {
		// Set/schema mismatches are reported on WriteBody; SizeBody degrades to
		// the header-only estimate rather than panicking.
		return ComplexObjectHeaderLen - 1
	}
	offsetFlags := offsetWidthFlags(offsets)
	return (ComplexObjectHeaderLen - 1) + len(fieldBytes) + len(offsets)*offsetByteWidth(offsetFlags)
}

func (o *Object) soleLongField() (int64, bool) {
	for _, f := range o.Fields {
		if f == nil {
			continue
		}
		if l, ok := f.(I64); ok {
			return int64(l), true
		}
	}
	return 0, false
}

// fieldData encodes each field as a tagged Value and records the header-
// relative byte offset (including the still-to-come header bytes 1..23,
// since the first header byte is the type code already written by
// WriteValue) at which that field begins.
func (o *Object) fieldData() ([]byte, []int32, error) {
	var buf bytes.Buffer
	offsets := make([]int32, 0, len(o.Fields))
	for i, f := range o.Fields {
		if i >= len(o.Schema.Fields) {
			return nil, nil, fmt.Errorf("wire: object has more fields than schema %q declares", o.Schema.TypeName)
		}
		offsets = append(offsets, ComplexObjectHeaderLen+int32(buf.Len()))
		if err := WriteValue(&buf, f); err != nil {
			return nil, nil, err
		}
	}
	return buf.Bytes(), offsets, nil
}

// offsetWidthFlags picks the narrowest footer offset width that fits the
// largest recorded offset: one byte if it is below 256, two bytes if it is
// below 65536, otherwise the (less common) four-byte footer.
func offsetWidthFlags(offsets []int32) int16 {
	if len(offsets) == 0 {
		return FlagOffsetOneByte
	}
	max := offsets[len(offsets)-1]
	switch {
	case max < 256:
		return FlagOffsetOneByte
	case max < 65536:
		return FlagOffsetTwoByte
	default:
		return 0
	}
}

func offsetByteWidth(flags int16) int {
	switch {
	case flags&FlagOffsetOneByte != 0:
		return 1
	case flags&FlagOffsetTwoByte != 0:
		return 2
	default:
		return 4
	}
}

func writeOffsets(w io.Writer, offsets []int32, flags int16) error {
	width := offsetByteWidth(flags)
	for _, off := range offsets {
		switch width {
		case 1:
			if err := WriteI8(w, int8(off)); err != nil {
				return err
			}
		case 2:
			if err := WriteI16(w, int16(off)); err != nil {
				return err
			}
		default:
			if err := WriteI32(w, off); err != nil {
				return err
			}
		}
	}
	return nil
}

// RawComplexObject is the decoded form of a complex object read off the
// wire without a caller-supplied Schema to bind it to: the header fields the
// protocol actually carries, plus each field's decoded Value (recovered by
// walking the field-data region — the footer offsets are redundant with
// that walk and are not separately retained). Readers that know the
// concrete record type use record.StructCodec to turn this into a typed value;
// generic tooling (introspection, CLI dumps) can use RawComplexObject
// directly.
type RawComplexObject struct {
	TypeID   int32
	HashCode int32
	SchemaID int32
	Fields   []Value
}

func (v RawComplexObject) Code() TypeCode { return CodeComplexObject }
func (v RawComplexObject) WriteBody(w io.Writer) error {
	return fmt.Errorf("wire: RawComplexObject is a read-only decode result; build an Object to write one")
}
func (v RawComplexObject) SizeBody() int { return 0 }

// readComplexObjectAfterCode reads a complex-object body once the leading
// type-code byte (103) has already been consumed by ReadValue. It supports
// both the compact and the full (non-compact) footer shape on read, even
// though this package only ever emits the compact footer: other clients and
// servers in the wild are free to send either, and accepting both costs
// nothing on the read side.
func readComplexObjectAfterCode(r io.Reader) (Value, error) {
	var header [ComplexObjectHeaderLen - 1]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	hr := bytes.NewReader(header[:])

	version, err := ReadU8(hr)
	if err != nil {
		return nil, err
	}
	if version != 1 {
		return nil, fmt.Errorf("wire: unsupported complex-object version %d", version)
	}
	flags, err := ReadI16(hr)
	if err != nil {
		return nil, err
	}
	typeID, err := ReadI32(hr)
	if err != nil {
		return nil, err
	}
	hashCode, err := ReadI32(hr)
	if err != nil {
		return nil, err
	}
	totalLen, err := ReadI32(hr)
	if err != nil {
		return nil, err
	}
	schemaID, err := ReadI32(hr)
	if err != nil {
		return nil, err
	}
	fieldIndexesOffset, err := ReadI32(hr)
	if err != nil {
		return nil, err
	}

	if flags&FlagHasRawData != 0 {
		return nil, fmt.Errorf("wire: raw-data complex objects are not supported")
	}
	if flags&FlagHasSchema == 0 {
		return nil, fmt.Errorf("wire: complex object is missing a schema")
	}
	if flags&FlagUserType == 0 {
		return nil, fmt.Errorf("wire: only user-type complex objects are supported")
	}
	if flags&FlagOffsetOneByte != 0 && flags&FlagOffsetTwoByte != 0 {
		return nil, fmt.Errorf("wire: complex object sets both offset-width flags")
	}

	// Everything from byte 1 up to totalLen (exclusive of the type-code byte
	// already consumed) follows; read the rest of the object body now so
	// the field walk below can run over an in-memory buffer regardless of
	// how the caller's reader is buffered.
	remaining := int(totalLen) - ComplexObjectHeaderLen
	if remaining < 0 {
		return nil, fmt.Errorf("wire: complex object reports length %d smaller than its header", totalLen)
	}
	body := make([]byte, remaining)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	fieldEnd := int(fieldIndexesOffset) - ComplexObjectHeaderLen
	if fieldEnd < 0 || fieldEnd > len(body) {
		return nil, fmt.Errorf("wire: complex object field-indexes offset %d out of range", fieldIndexesOffset)
	}

	fr := bytes.NewReader(body[:fieldEnd])
	var fields []Value
	for fr.Len() > 0 {
		v, err := ReadValue(fr)
		if err != nil {
			return nil, err
		}
		fields = append(fields, v)
	}

	// Whether the footer is "compact" (field ids omitted, only present when
	// FlagCompactFooter is set) or "full" (field id + offset pairs) doesn't
	// change this decode, since the field values have already been
	// recovered by walking the field-data region directly above.

	return RawComplexObject{
		TypeID:   typeID,
		HashCode: hashCode,
		SchemaID: schemaID,
		Fields:   fields,
	}, nil
}
