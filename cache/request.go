package cache

import (
	"bytes"
	"io"

	"github.com/solidgrid/gridcache/wire"
)

// magicTyped and magicBinaryPreserving are the request-body magic byte that
// follows the cache-id on every cache operation.
const (
	magicTyped            = 0
	magicBinaryPreserving = 1
)

func newRequestBody(cacheID int32, magic byte) *bytes.Buffer {
	buf := new(bytes.Buffer)
	_ = wire.WriteI32(buf, cacheID)
	_ = wire.WriteU8(buf, magic)
	return buf
}

func encodeValue[T any](buf *bytes.Buffer, codec wire.Codec[T], v T) error {
	return codec.Encode(v, buf)
}

func encodeSlice[T any](buf *bytes.Buffer, codec wire.Codec[T], items []T) error {
	if err := wire.WriteI32(buf, int32(len(items))); err != nil {
		return err
	}
	for _, it := range items {
		if err := codec.Encode(it, buf); err != nil {
			return err
		}
	}
	return nil
}

// decodeOptional reads one tagged wire.Value and, if non-null, replays its
// bytes into codec's Decode path. Codec only exposes Decode(io.Reader), which
// reads its own leading type code, so the exact bytes of a value already
// peeled off the wire to check for null are captured in a scratch buffer
// and replayed, rather than requiring every Codec implementation to expose a
// from-Value conversion.
func decodeOptional[T any](r io.Reader, codec wire.Codec[T]) (T, bool, error) {
	var zero T
	var buf bytes.Buffer
	v, err := wire.ReadValue(io.TeeReader(r, &buf))
	if err != nil {
		return zero, false, err
	}
	if v == nil {
		return zero, false, nil
	}
	val, err := codec.Decode(&buf)
	if err != nil {
		return zero, false, err
	}
	return val, true, nil
}

func decodeBool(r io.Reader) (bool, error) {
	return wire.ReadBool(r)
}

func decodeI64(r io.Reader) (int64, error) {
	return wire.ReadI64(r)
}

// readRawValue reads one tagged wire.Value and returns a wire.WrappedData
// carrying the exact wire bytes it was read from, for callers that want to
// hold a key or value as an opaque blob rather than decode it.
func readRawValue(r io.Reader) (wire.WrappedData, error) {
	var buf bytes.Buffer
	if _, err := wire.ReadValue(io.TeeReader(r, &buf)); err != nil {
		return wire.WrappedData{}, err
	}
	return wire.WrappedData{Payload: buf.Bytes()}, nil
}

// decodeRawKVList is ScanRaw's binary-preserving counterpart to
// decodeKVList: every key and value is kept as a wire.WrappedData instead of
// being decoded through a Codec.
func decodeRawKVList(r io.Reader) ([]KV[wire.WrappedData, wire.WrappedData], error) {
	n, err := wire.ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make([]KV[wire.WrappedData, wire.WrappedData], 0, n)
	for i := int32(0); i < n; i++ {
		k, err := readRawValue(r)
		if err != nil {
			return nil, err
		}
		v, err := readRawValue(r)
		if err != nil {
			return nil, err
		}
		out = append(out, KV[wire.WrappedData, wire.WrappedData]{Key: k, Value: v})
	}
	return out, nil
}
