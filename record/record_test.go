package record

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
)

type myType struct {
	Foo int32
	Bar string
}

func TestStructCodecRoundTrip(t *testing.T) {
	codec, err := NewStructCodec[myType]("MyType")
	if err != nil {
		t.Fatalf("NewStructCodec: %v", err)
	}
	in := myType{Foo: 999, Bar: "AAAAA"}

	var buf bytes.Buffer
	if err := codec.Encode(in, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buf.Len() != codec.EncodedSize(in) {
		t.Fatalf("EncodedSize() = %d, actual = %d", codec.EncodedSize(in), buf.Len())
	}

	out, err := codec.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %#v, want %#v", out, in)
	}
}

type withTag struct {
	Name string `gridcache:"cacheName"`
}

func TestStructCodecRespectsTag(t *testing.T) {
	codec, err := NewStructCodec[withTag]("Tagged")
	if err != nil {
		t.Fatalf("NewStructCodec: %v", err)
	}
	if codec.Schema().Fields[0] != "cacheName" {
		t.Fatalf("wire field name = %q, want %q", codec.Schema().Fields[0], "cacheName")
	}
}

type optionalField struct {
	ID    int64
	Label *string
}

func TestStructCodecNullablePointer(t *testing.T) {
	codec, err := NewStructCodec[optionalField]("Optional")
	if err != nil {
		t.Fatalf("NewStructCodec: %v", err)
	}

	var buf bytes.Buffer
	in := optionalField{ID: 7, Label: nil}
	if err := codec.Encode(in, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := codec.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.ID != 7 || out.Label != nil {
		t.Fatalf("expected nil Label, got %#v", out)
	}

	label := "present"
	in2 := optionalField{ID: 8, Label: &label}
	buf.Reset()
	if err := codec.Encode(in2, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out2, err := codec.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out2.Label == nil || *out2.Label != "present" {
		t.Fatalf("expected Label=present, got %#v", out2)
	}
}

type withUUID struct {
	ID uuid.UUID
}

func TestStructCodecUUIDField(t *testing.T) {
	codec, err := NewStructCodec[withUUID]("WithUUID")
	if err != nil {
		t.Fatalf("NewStructCodec: %v", err)
	}
	in := withUUID{ID: uuid.New()}
	var buf bytes.Buffer
	if err := codec.Encode(in, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := codec.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.ID != in.ID {
		t.Fatalf("UUID mismatch: got %v, want %v", out.ID, in.ID)
	}
}

func TestNewStructCodecRejectsNonStruct(t *testing.T) {
	if _, err := NewStructCodec[int]("NotAStruct"); err == nil {
		t.Fatal("expected error for non-struct type")
	}
}
