package wire

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteValue(&buf, v); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	if buf.Len() != SizeValue(v) {
		t.Fatalf("SizeValue() = %d, actual encoded length = %d", SizeValue(v), buf.Len())
	}
	got, err := ReadValue(&buf)
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("%d trailing bytes after decode", buf.Len())
	}
	return got
}

func TestScalarRoundTrip(t *testing.T) {
	cases := []Value{
		I8(-12),
		I16(-3000),
		I32(123456),
		I64(-9000000000),
		F32(3.5),
		F64(-2.25),
		Char(65),
		Bool(true),
		Bool(false),
		Str("hello, cache"),
		Date(1700000000000),
		Time(3600000),
		Timestamp{Millis: 1700000000000, ExtraNsec: 123},
		Enum{TypeID: 7, Ordinal: 3},
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		if got != c {
			t.Errorf("round trip mismatch: got %#v, want %#v", got, c)
		}
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	d := Decimal{Scale: 2, Unscaled: []byte{0x01, 0x02}}
	got := roundTrip(t, d)
	dec, ok := got.(Decimal)
	if !ok || dec.Scale != d.Scale || !bytes.Equal(dec.Unscaled, d.Unscaled) {
		t.Fatalf("Decimal round trip mismatch: %#v", got)
	}
}

func TestWrappedDataRoundTrip(t *testing.T) {
	w := WrappedData{Payload: []byte{1, 2, 3}}
	got := roundTrip(t, w)
	wd, ok := got.(WrappedData)
	if !ok || !bytes.Equal(wd.Payload, w.Payload) {
		t.Fatalf("WrappedData round trip mismatch: %#v", got)
	}
}

func TestNullRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteValue(&buf, nil); err != nil {
		t.Fatalf("WriteValue(nil): %v", err)
	}
	got, err := ReadValue(&buf)
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil Value for Null, got %#v", got)
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	u := uuid.New()
	got := roundTrip(t, NewUUID(u))
	gotUUID, ok := got.(UUID)
	if !ok {
		t.Fatalf("expected UUID, got %T", got)
	}
	if uuid.UUID(gotUUID) != u {
		t.Errorf("UUID round trip mismatch: got %v, want %v", uuid.UUID(gotUUID), u)
	}
}

func TestPrimitiveArrayRoundTrip(t *testing.T) {
	got := roundTrip(t, ArrInt{1, 2, 3, -4})
	arr, ok := got.(ArrInt)
	if !ok || len(arr) != 4 || arr[3] != -4 {
		t.Fatalf("ArrInt round trip mismatch: %#v", got)
	}

	gotBool := roundTrip(t, ArrBool{true, false, true})
	arrBool, ok := gotBool.(ArrBool)
	if !ok || len(arrBool) != 3 || arrBool[1] != false {
		t.Fatalf("ArrBool round trip mismatch: %#v", gotBool)
	}
}

func TestNullableArrayRoundTrip(t *testing.T) {
	a, b := "x", "y"
	got := roundTrip(t, ArrString{&a, nil, &b})
	arr, ok := got.(ArrString)
	if !ok || len(arr) != 3 {
		t.Fatalf("ArrString round trip mismatch: %#v", got)
	}
	if arr[1] != nil {
		t.Errorf("expected nil element at index 1, got %v", *arr[1])
	}
	if arr[0] == nil || *arr[0] != "x" || arr[2] == nil || *arr[2] != "y" {
		t.Errorf("ArrString values mismatch: %#v", arr)
	}
}

func TestSequenceRoundTripObjectArray(t *testing.T) {
	seq := Sequence{IsCollection: false, ElementType: -1, Items: []Value{I32(1), nil, Str("z")}}
	got := roundTrip(t, seq)
	decoded, ok := got.(Sequence)
	if !ok || decoded.IsCollection {
		t.Fatalf("expected non-collection Sequence, got %#v", got)
	}
	if len(decoded.Items) != 3 || decoded.Items[1] != nil {
		t.Fatalf("sequence items mismatch: %#v", decoded.Items)
	}
}

func TestSequenceRoundTripCollection(t *testing.T) {
	seq := Sequence{IsCollection: true, Kind: CollectionArrList, Items: []Value{I64(42)}}
	got := roundTrip(t, seq)
	decoded, ok := got.(Sequence)
	if !ok || !decoded.IsCollection || decoded.Kind != CollectionArrList {
		t.Fatalf("collection round trip mismatch: %#v", got)
	}
}

func TestStandardObjectArrayRoundTrip(t *testing.T) {
	d1 := Decimal{Scale: 2, Unscaled: []byte{0x09}}
	got := roundTrip(t, ArrDecimal{&d1, nil})
	arr, ok := got.(ArrDecimal)
	if !ok || len(arr) != 2 || arr[1] != nil {
		t.Fatalf("ArrDecimal round trip mismatch: %#v", got)
	}
	if arr[0] == nil || arr[0].Scale != 2 || !bytes.Equal(arr[0].Unscaled, d1.Unscaled) {
		t.Errorf("ArrDecimal value mismatch: %#v", arr[0])
	}

	ts1 := Timestamp{Millis: 1700000000000, ExtraNsec: 7}
	gotTS := roundTrip(t, ArrTimestamp{&ts1, nil})
	arrTS, ok := gotTS.(ArrTimestamp)
	if !ok || len(arrTS) != 2 || arrTS[1] != nil || *arrTS[0] != ts1 {
		t.Fatalf("ArrTimestamp round trip mismatch: %#v", gotTS)
	}

	ms := int64(3600000)
	gotTime := roundTrip(t, ArrTime{&ms, nil})
	arrTime, ok := gotTime.(ArrTime)
	if !ok || len(arrTime) != 2 || arrTime[1] != nil || *arrTime[0] != ms {
		t.Fatalf("ArrTime round trip mismatch: %#v", gotTime)
	}
}

func TestEnumArrayRoundTrip(t *testing.T) {
	got := roundTrip(t, EnumArray{TypeID: 5, Items: []Value{Enum{TypeID: 5, Ordinal: 1}, nil}})
	arr, ok := got.(EnumArray)
	if !ok || arr.TypeID != 5 || len(arr.Items) != 2 || arr.Items[1] != nil {
		t.Fatalf("EnumArray round trip mismatch: %#v", got)
	}
}

func TestUnknownTypeCodeRejected(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteI8(&buf, 77)
	if _, err := ReadValue(&buf); err == nil {
		t.Fatal("expected error for unknown type code")
	}
}

func TestBadCollectionKindRejected(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteI8(&buf, int8(CodeCollection))
	_ = WriteI32(&buf, 0)
	_ = WriteI8(&buf, 9)
	if _, err := ReadValue(&buf); err == nil {
		t.Fatal("expected error for out-of-range collection kind")
	}
}

func TestBadMapKindRejected(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteI8(&buf, int8(CodeMap))
	_ = WriteI32(&buf, 0)
	_ = WriteI8(&buf, 0)
	if _, err := ReadValue(&buf); err == nil {
		t.Fatal("expected error for out-of-range map kind")
	}
}

func TestNonUTF8StringRejected(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteI8(&buf, int8(CodeString))
	_ = WriteI32(&buf, 2)
	buf.Write([]byte{0xff, 0xfe})
	if _, err := ReadValue(&buf); err == nil {
		t.Fatal("expected error for invalid UTF-8 string body")
	}
}

func TestMapRoundTrip(t *testing.T) {
	m := MapValue{Kind: MapHashMap, Entries: []MapEntry{
		{Key: Str("a"), Value: I32(1)},
		{Key: Str("b"), Value: nil},
	}}
	got := roundTrip(t, m)
	decoded, ok := got.(MapValue)
	if !ok || len(decoded.Entries) != 2 {
		t.Fatalf("map round trip mismatch: %#v", got)
	}
	if decoded.Entries[1].Value != nil {
		t.Errorf("expected nil value for second entry, got %#v", decoded.Entries[1].Value)
	}
}
