package cache

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/solidgrid/gridcache/conn"
	"github.com/solidgrid/gridcache/wire"
)

// startFakeNode starts a one-shot TCP server that completes the handshake
// and then hands the connection to handle, mirroring conn_test.go's
// startFakeServer for tests that exercise the cache facade above conn.Do.
func startFakeNode(t *testing.T, handle func(r *bufio.Reader, w *bufio.Writer)) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		r := bufio.NewReader(c)
		w := bufio.NewWriter(c)

		length, err := wire.ReadI32(r)
		if err != nil {
			return
		}
		if _, err := r.Discard(int(length)); err != nil {
			return
		}
		_ = wire.WriteI32(w, 1)
		_ = wire.WriteU8(w, 1)
		_ = w.Flush()

		handle(r, w)
	}()
	return ln
}

func readRequestHeader(t *testing.T, r *bufio.Reader) (bodyLen int32, op int16, reqID int64) {
	t.Helper()
	length, err := wire.ReadI32(r)
	require.NoError(t, err)
	opCode, err := wire.ReadI16(r)
	require.NoError(t, err)
	id, err := wire.ReadI64(r)
	require.NoError(t, err)
	_, err = r.Discard(int(length) - 10)
	require.NoError(t, err)
	return length, opCode, id
}

func dialClient(t *testing.T, ln net.Listener) *Client {
	t.Helper()
	cl, err := Connect(conn.Config{Endpoint: ln.Addr().String(), DialTimeout: time.Second})
	require.NoError(t, err)
	return cl
}

func TestCacheGetPresentAndAbsent(t *testing.T) {
	ln := startFakeNode(t, func(r *bufio.Reader, w *bufio.Writer) {
		readRequestHeader(t, r)
		writeFramed(w, func(buf *countingBuffer) {
			_ = wire.WriteValue(buf, wire.I32(42))
		})

		readRequestHeader(t, r)
		writeFramed(w, func(buf *countingBuffer) {
			_ = wire.WriteU8(buf, 101) // TypeCode Null
		})
	})
	defer ln.Close()

	cl := dialClient(t, ln)
	defer cl.Close()

	c := Typed[string, int32](cl, "nums", wire.StringCodec, wire.Int32Codec)

	v, ok, err := c.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(42), v)

	_, ok, err = c.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCachePutAndContainsKey(t *testing.T) {
	ln := startFakeNode(t, func(r *bufio.Reader, w *bufio.Writer) {
		readRequestHeader(t, r) // put: no response body
		writeFramed(w, func(buf *countingBuffer) {})

		readRequestHeader(t, r)
		writeFramed(w, func(buf *countingBuffer) {
			_ = wire.WriteBool(buf, true)
		})
	})
	defer ln.Close()

	cl := dialClient(t, ln)
	defer cl.Close()

	c := Typed[string, string](cl, "strs", wire.StringCodec, wire.StringCodec)

	require.NoError(t, c.Put("k", "v"))

	ok, err := c.ContainsKey("k")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCacheScanDiscardsCursorAndHasMore(t *testing.T) {
	ln := startFakeNode(t, func(r *bufio.Reader, w *bufio.Writer) {
		readRequestHeader(t, r)
		writeFramed(w, func(buf *countingBuffer) {
			_ = wire.WriteI64(buf, 99) // cursor id, discarded by Scan
			_ = wire.WriteI32(buf, 2)  // two rows
			_ = wire.WriteValue(buf, wire.Str("k1"))
			_ = wire.WriteValue(buf, wire.Str("v1"))
			_ = wire.WriteValue(buf, wire.Str("k2"))
			_ = wire.WriteValue(buf, wire.Str("v2"))
			_ = wire.WriteBool(buf, false) // has-more, discarded
		})
	})
	defer ln.Close()

	cl := dialClient(t, ln)
	defer cl.Close()

	c := Typed[string, string](cl, "strs", wire.StringCodec, wire.StringCodec)
	rows, err := c.Scan(100)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "k1", rows[0].Key)
	require.Equal(t, "v1", rows[0].Value)
}

// countingBuffer is a minimal io.Writer that also tracks how many bytes were
// written, used to compute response-body lengths ahead of framing.
type countingBuffer struct {
	buf []byte
}

func (c *countingBuffer) Write(p []byte) (int, error) {
	c.buf = append(c.buf, p...)
	return len(p), nil
}

// writeFramed builds a response body in-memory, then writes the correct
// length-prefixed framing (length + correlation id + status + body) in one shot, mirroring
// proto.ReadResponseHeader's expectations.
func writeFramed(w *bufio.Writer, fill func(buf *countingBuffer)) {
	var buf countingBuffer
	fill(&buf)
	_ = wire.WriteI32(w, int32(12+len(buf.buf)))
	_ = wire.WriteI64(w, 0)
	_ = wire.WriteI32(w, 0)
	_, _ = w.Write(buf.buf)
	_ = w.Flush()
}
