package cache

import (
	"bytes"
	"fmt"
	"io"

	"github.com/solidgrid/gridcache/conn"
	"github.com/solidgrid/gridcache/proto"
	"github.com/solidgrid/gridcache/wire"
)

// Client owns a single Connection and exposes the cluster-admin operations:
// list/create/destroy caches plus acquisition of typed cache
// handles. A Client and every Cache handle it hands out share the one
// underlying Conn; the connection's internal mutex is what keeps concurrent
// callers from corrupting the shared byte stream.
type Client struct {
	conn *conn.Conn
}

// Connect dials cfg.Endpoint, performs the handshake, and returns a ready
// Client. The returned error is always fatal: on failure there is no usable
// Client.
func Connect(cfg conn.Config) (*Client, error) {
	c, err := conn.Dial(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{conn: c}, nil
}

// Close releases the underlying connection. Every Cache handle derived from
// this Client becomes unusable afterward.
func (cl *Client) Close() error { return cl.conn.Close() }

// CacheNames returns the display names of every cache on the cluster.
func (cl *Client) CacheNames() ([]string, error) {
	return conn.SendAndRead(cl.conn, proto.OpCacheGetNames, nil, decodeStringList)
}

func decodeStringList(r io.Reader) ([]string, error) {
	n, err := wire.ReadI32(r)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		v, err := wire.ReadValue(r)
		if err != nil {
			return nil, err
		}
		s, ok := v.(wire.Str)
		if !ok {
			return nil, typeMismatchf("string", v)
		}
		out = append(out, string(s))
	}
	return out, nil
}

// CreateCache creates a new cache named name with default configuration. A
// cache that already exists by that name surfaces an Op error.
func (cl *Client) CreateCache(name string) (*Cache[wire.Value, wire.Value], error) {
	return cl.createByName(proto.OpCacheCreateWithName, name)
}

// GetOrCreateCache returns a handle to an existing cache named name,
// creating it with default configuration if it doesn't exist.
func (cl *Client) GetOrCreateCache(name string) (*Cache[wire.Value, wire.Value], error) {
	return cl.createByName(proto.OpCacheGetOrCreateWithName, name)
}

func (cl *Client) createByName(op proto.OpCode, name string) (*Cache[wire.Value, wire.Value], error) {
	var buf bytes.Buffer
	if err := wire.WriteValue(&buf, wire.Str(name)); err != nil {
		return nil, err
	}
	if err := cl.conn.Do(op, buf.Bytes(), nil); err != nil {
		return nil, err
	}
	return cl.cacheHandle(name), nil
}

// CreateCacheWithConfig creates a new cache from a full descriptor.
func (cl *Client) CreateCacheWithConfig(cfg *wire.CacheDescriptor) (*Cache[wire.Value, wire.Value], error) {
	return cl.createWithConfig(proto.OpCacheCreateWithConfiguration, cfg)
}

// GetOrCreateCacheWithConfig returns a handle to an existing cache matching
// cfg.Name, creating it from cfg if it doesn't exist.
func (cl *Client) GetOrCreateCacheWithConfig(cfg *wire.CacheDescriptor) (*Cache[wire.Value, wire.Value], error) {
	return cl.createWithConfig(proto.OpCacheGetOrCreateWithConfiguration, cfg)
}

func (cl *Client) createWithConfig(op proto.OpCode, cfg *wire.CacheDescriptor) (*Cache[wire.Value, wire.Value], error) {
	var buf bytes.Buffer
	if err := wire.EncodeCacheDescriptor(&buf, cfg); err != nil {
		return nil, err
	}
	if err := cl.conn.Do(op, buf.Bytes(), nil); err != nil {
		return nil, err
	}
	return cl.cacheHandle(cfg.Name), nil
}

// CacheConfiguration fetches the full descriptor of an existing cache.
func (cl *Client) CacheConfiguration(name string) (*wire.CacheDescriptor, error) {
	body := requestBodyForCacheIDWithMagic(ID(name))
	return conn.SendAndRead(cl.conn, proto.OpCacheGetConfiguration, body, wire.DecodeCacheDescriptor)
}

// DestroyCache drops a cache and all its entries.
func (cl *Client) DestroyCache(name string) error {
	body := requestBodyForCacheID(ID(name))
	return cl.conn.Do(proto.OpCacheDestroy, body, nil)
}

// Typed returns a handle to an existing cache named name, parameterized by
// the key/value Codecs the caller supplies. Declared as a free function,
// not a method, since Go methods cannot carry their own type parameters
// (the same constraint conn.SendAndRead works around). It does not check
// that the cache exists; a subsequent operation on a nonexistent cache
// surfaces as an Op error from the server.
func Typed[K, V any](cl *Client, name string, keyCodec wire.Codec[K], valCodec wire.Codec[V]) *Cache[K, V] {
	return &Cache[K, V]{
		conn:     cl.conn,
		id:       ID(name),
		name:     name,
		keyCodec: keyCodec,
		valCodec: valCodec,
	}
}

func (cl *Client) cacheHandle(name string) *Cache[wire.Value, wire.Value] {
	return Typed(cl, name, wire.ValueCodec, wire.ValueCodec)
}

func requestBodyForCacheID(id int32) []byte {
	var buf bytes.Buffer
	_ = wire.WriteI32(&buf, id)
	return buf.Bytes()
}

// requestBodyForCacheIDWithMagic is requestBodyForCacheID plus the trailing
// flags byte OpCacheGetConfiguration expects after the cache id (the server
// reads it as a reserved/compatibility flag; this client always sends 0).
func requestBodyForCacheIDWithMagic(id int32) []byte {
	var buf bytes.Buffer
	_ = wire.WriteI32(&buf, id)
	_ = wire.WriteU8(&buf, 0)
	return buf.Bytes()
}

func typeMismatchf(want string, v wire.Value) error {
	if v == nil {
		return fmt.Errorf("cache: expected %s, got Null", want)
	}
	return fmt.Errorf("cache: expected %s, got type code %d", want, v.Code())
}
