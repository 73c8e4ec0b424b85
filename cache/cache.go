package cache

import (
	"bytes"
	"io"

	"github.com/solidgrid/gridcache/conn"
	"github.com/solidgrid/gridcache/proto"
	"github.com/solidgrid/gridcache/wire"
)

// Cache is a typed handle onto one named cache: every operation issues a
// single request over the Client's shared Connection and maps the typed
// key/value pair through a Codec pair. A Cache does not re-check
// that the cache exists on every call — it stores only the connection
// (shared), the cache-id, and the display name.
type Cache[K, V any] struct {
	conn     *conn.Conn
	id       int32
	name     string
	keyCodec wire.Codec[K]
	valCodec wire.Codec[V]
}

// Name returns the cache's display name.
func (c *Cache[K, V]) Name() string { return c.name }

// ID returns the cache's stable wire identifier (hash of its name).
func (c *Cache[K, V]) ID() int32 { return c.id }

func (c *Cache[K, V]) body(key *K) (*bytes.Buffer, error) {
	buf := newRequestBody(c.id, magicTyped)
	if key != nil {
		if err := encodeValue(buf, c.keyCodec, *key); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// Get returns the value stored under key, or ok == false if absent.
func (c *Cache[K, V]) Get(key K) (v V, ok bool, err error) {
	buf, err := c.body(&key)
	if err != nil {
		return v, false, err
	}
	res, err := conn.SendAndRead(c.conn, proto.OpCacheGet, buf.Bytes(), func(r io.Reader) (optResult[V], error) {
		val, present, err := decodeOptional(r, c.valCodec)
		return optResult[V]{val, present}, err
	})
	return res.val, res.ok, err
}

type optResult[T any] struct {
	val T
	ok  bool
}

// GetAll returns the entries for each of the given keys, in server
// response order. Keys the server doesn't hold are omitted, not returned
// with a nil value, matching the wire response shape.
func (c *Cache[K, V]) GetAll(keys []K) ([]KV[K, V], error) {
	buf := newRequestBody(c.id, magicTyped)
	if err := encodeSlice(buf, c.keyCodec, keys); err != nil {
		return nil, err
	}
	return conn.SendAndRead(c.conn, proto.OpCacheGetAll, buf.Bytes(), func(r io.Reader) ([]KV[K, V], error) {
		return decodeKVList(r, c.keyCodec, c.valCodec)
	})
}

// KV is one decoded (key, value) pair, used by GetAll and Scan.
type KV[K, V any] struct {
	Key   K
	Value V
}

func decodeKVList[K, V any](r io.Reader, keyCodec wire.Codec[K], valCodec wire.Codec[V]) ([]KV[K, V], error) {
	n, err := wire.ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make([]KV[K, V], 0, n)
	for i := int32(0); i < n; i++ {
		k, _, err := decodeOptional(r, keyCodec)
		if err != nil {
			return nil, err
		}
		v, _, err := decodeOptional(r, valCodec)
		if err != nil {
			return nil, err
		}
		out = append(out, KV[K, V]{Key: k, Value: v})
	}
	return out, nil
}

// Put stores value under key, overwriting any existing entry.
func (c *Cache[K, V]) Put(key K, value V) error {
	buf, err := c.body(&key)
	if err != nil {
		return err
	}
	if err := encodeValue(buf, c.valCodec, value); err != nil {
		return err
	}
	return c.conn.Do(proto.OpCachePut, buf.Bytes(), nil)
}

// PutAll stores every (key, value) pair in entries in one request.
func (c *Cache[K, V]) PutAll(entries []KV[K, V]) error {
	buf := newRequestBody(c.id, magicTyped)
	if err := wire.WriteI32(buf, int32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := encodeValue(buf, c.keyCodec, e.Key); err != nil {
			return err
		}
		if err := encodeValue(buf, c.valCodec, e.Value); err != nil {
			return err
		}
	}
	return c.conn.Do(proto.OpCachePutAll, buf.Bytes(), nil)
}

// PutIfAbsent stores value under key only if key is not already present,
// reporting whether the store happened.
func (c *Cache[K, V]) PutIfAbsent(key K, value V) (bool, error) {
	buf, err := c.keyValueBody(key, value)
	if err != nil {
		return false, err
	}
	return conn.SendAndRead(c.conn, proto.OpCachePutIfAbsent, buf.Bytes(), decodeBool)
}

// GetAndPut stores value under key and returns the prior value, if any.
func (c *Cache[K, V]) GetAndPut(key K, value V) (V, bool, error) {
	return c.getAndMutate(proto.OpCacheGetAndPut, key, &value)
}

// GetAndReplace stores value under key only if key is already present, and
// returns the prior value, if any.
func (c *Cache[K, V]) GetAndReplace(key K, value V) (V, bool, error) {
	return c.getAndMutate(proto.OpCacheGetAndReplace, key, &value)
}

// GetAndRemove removes key and returns the prior value, if any.
func (c *Cache[K, V]) GetAndRemove(key K) (V, bool, error) {
	return c.getAndMutate(proto.OpCacheGetAndRemove, key, nil)
}

// GetAndPutIfAbsent stores value under key only if key is absent, and
// returns the prior value regardless.
func (c *Cache[K, V]) GetAndPutIfAbsent(key K, value V) (V, bool, error) {
	return c.getAndMutate(proto.OpCacheGetAndPutIfAbsent, key, &value)
}

func (c *Cache[K, V]) getAndMutate(op proto.OpCode, key K, value *V) (V, bool, error) {
	buf, err := c.body(&key)
	if err != nil {
		var zero V
		return zero, false, err
	}
	if value != nil {
		if err := encodeValue(buf, c.valCodec, *value); err != nil {
			var zero V
			return zero, false, err
		}
	}
	res, err := conn.SendAndRead(c.conn, op, buf.Bytes(), func(r io.Reader) (optResult[V], error) {
		v, ok, err := decodeOptional(r, c.valCodec)
		return optResult[V]{v, ok}, err
	})
	return res.val, res.ok, err
}

// Replace stores value under key only if key is already present, reporting
// whether the replace happened.
func (c *Cache[K, V]) Replace(key K, value V) (bool, error) {
	buf, err := c.keyValueBody(key, value)
	if err != nil {
		return false, err
	}
	return conn.SendAndRead(c.conn, proto.OpCacheReplace, buf.Bytes(), decodeBool)
}

// ReplaceIfEquals stores newValue under key only if the current value
// equals oldValue, reporting whether the replace happened. Equality is
// decided server-side on the serialized bytes.
func (c *Cache[K, V]) ReplaceIfEquals(key K, oldValue, newValue V) (bool, error) {
	buf, err := c.body(&key)
	if err != nil {
		return false, err
	}
	if err := encodeValue(buf, c.valCodec, oldValue); err != nil {
		return false, err
	}
	if err := encodeValue(buf, c.valCodec, newValue); err != nil {
		return false, err
	}
	return conn.SendAndRead(c.conn, proto.OpCacheReplaceIfEquals, buf.Bytes(), decodeBool)
}

// ContainsKey reports whether key is present.
func (c *Cache[K, V]) ContainsKey(key K) (bool, error) {
	buf, err := c.body(&key)
	if err != nil {
		return false, err
	}
	return conn.SendAndRead(c.conn, proto.OpCacheContainsKey, buf.Bytes(), decodeBool)
}

// ContainsKeys reports whether every key in keys is present.
func (c *Cache[K, V]) ContainsKeys(keys []K) (bool, error) {
	buf := newRequestBody(c.id, magicTyped)
	if err := encodeSlice(buf, c.keyCodec, keys); err != nil {
		return false, err
	}
	return conn.SendAndRead(c.conn, proto.OpCacheContainsKeys, buf.Bytes(), decodeBool)
}

// Clear removes every entry from the cache.
func (c *Cache[K, V]) Clear() error {
	buf := newRequestBody(c.id, magicTyped)
	return c.conn.Do(proto.OpCacheClear, buf.Bytes(), nil)
}

// ClearKey removes key, without reporting whether it was present.
func (c *Cache[K, V]) ClearKey(key K) error {
	buf, err := c.body(&key)
	if err != nil {
		return err
	}
	return c.conn.Do(proto.OpCacheClearKey, buf.Bytes(), nil)
}

// ClearKeys removes every key in keys, without reporting which were present.
func (c *Cache[K, V]) ClearKeys(keys []K) error {
	buf := newRequestBody(c.id, magicTyped)
	if err := encodeSlice(buf, c.keyCodec, keys); err != nil {
		return err
	}
	return c.conn.Do(proto.OpCacheClearKeys, buf.Bytes(), nil)
}

// RemoveKey removes key, reporting whether it was present.
func (c *Cache[K, V]) RemoveKey(key K) (bool, error) {
	buf, err := c.body(&key)
	if err != nil {
		return false, err
	}
	return conn.SendAndRead(c.conn, proto.OpCacheRemoveKey, buf.Bytes(), decodeBool)
}

// RemoveIfEquals removes key only if its current value equals value,
// reporting whether the remove happened.
func (c *Cache[K, V]) RemoveIfEquals(key K, value V) (bool, error) {
	buf, err := c.keyValueBody(key, value)
	if err != nil {
		return false, err
	}
	return conn.SendAndRead(c.conn, proto.OpCacheRemoveIfEquals, buf.Bytes(), decodeBool)
}

// RemoveKeys removes every key in keys that is present.
func (c *Cache[K, V]) RemoveKeys(keys []K) error {
	buf := newRequestBody(c.id, magicTyped)
	if err := encodeSlice(buf, c.keyCodec, keys); err != nil {
		return err
	}
	return c.conn.Do(proto.OpCacheRemoveKeys, buf.Bytes(), nil)
}

// RemoveAll removes every entry from the cache. Unlike Clear, RemoveAll is
// the key-value API's own "remove everything" opcode; both reach the same
// end state.
func (c *Cache[K, V]) RemoveAll() error {
	buf := newRequestBody(c.id, magicTyped)
	return c.conn.Do(proto.OpCacheRemoveAll, buf.Bytes(), nil)
}

// GetSize sums the cache's entry count over the given peek modes. With no
// modes given, it defaults to PeekAll.
func (c *Cache[K, V]) GetSize(modes ...wire.CachePeekMode) (int64, error) {
	if len(modes) == 0 {
		modes = []wire.CachePeekMode{wire.PeekAll}
	}
	buf := newRequestBody(c.id, magicTyped)
	if err := wire.WriteI32(buf, int32(len(modes))); err != nil {
		return 0, err
	}
	for _, m := range modes {
		if err := wire.WriteI8(buf, int8(m)); err != nil {
			return 0, err
		}
	}
	return conn.SendAndRead(c.conn, proto.OpCacheGetSize, buf.Bytes(), decodeI64)
}

func (c *Cache[K, V]) keyValueBody(key K, value V) (*bytes.Buffer, error) {
	buf, err := c.body(&key)
	if err != nil {
		return nil, err
	}
	if err := encodeValue(buf, c.valCodec, value); err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan returns the first page of up to pageSize entries, in server
// iteration order. Multi-page cursor retrieval is not supported: the cursor
// id and has-more flag are read off the wire (for protocol conformance) and
// discarded.
func (c *Cache[K, V]) Scan(pageSize int32) ([]KV[K, V], error) {
	buf := newRequestBody(c.id, magicBinaryPreserving)
	if err := wire.WriteU8(buf, 0); err != nil { // null filter
		return nil, err
	}
	if err := wire.WriteI32(buf, pageSize); err != nil {
		return nil, err
	}
	if err := wire.WriteI32(buf, -1); err != nil { // partition: whole cache
		return nil, err
	}
	if err := wire.WriteU8(buf, 0); err != nil { // local-only: false
		return nil, err
	}
	return conn.SendAndRead(c.conn, proto.OpQueryScan, buf.Bytes(), func(r io.Reader) ([]KV[K, V], error) {
		if _, err := wire.ReadI64(r); err != nil { // cursor id, discarded
			return nil, err
		}
		rows, err := decodeKVList(r, c.keyCodec, c.valCodec)
		if err != nil {
			return nil, err
		}
		if _, err := wire.ReadBool(r); err != nil { // has-more, discarded
			return nil, err
		}
		return rows, nil
	})
}

// ScanRaw is Scan's binary-preserving sibling: instead of decoding each row
// through the Cache's key/value Codecs, it wraps the exact tagged bytes the
// server sent for each key and value in a wire.WrappedData, leaving decoding
// to the caller. The binary-preserving magic byte exists precisely so
// entries can be kept as opaque blobs without paying to decode and
// re-encode them.
func (c *Cache[K, V]) ScanRaw(pageSize int32) ([]KV[wire.WrappedData, wire.WrappedData], error) {
	buf := newRequestBody(c.id, magicBinaryPreserving)
	if err := wire.WriteU8(buf, 0); err != nil { // null filter
		return nil, err
	}
	if err := wire.WriteI32(buf, pageSize); err != nil {
		return nil, err
	}
	if err := wire.WriteI32(buf, -1); err != nil { // partition: whole cache
		return nil, err
	}
	if err := wire.WriteU8(buf, 0); err != nil { // local-only: false
		return nil, err
	}
	return conn.SendAndRead(c.conn, proto.OpQueryScan, buf.Bytes(), func(r io.Reader) ([]KV[wire.WrappedData, wire.WrappedData], error) {
		if _, err := wire.ReadI64(r); err != nil { // cursor id, discarded
			return nil, err
		}
		rows, err := decodeRawKVList(r)
		if err != nil {
			return nil, err
		}
		if _, err := wire.ReadBool(r); err != nil { // has-more, discarded
			return nil, err
		}
		return rows, nil
	})
}
