package conn

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/solidgrid/gridcache/gridcacheerr"
	"github.com/solidgrid/gridcache/proto"
	"github.com/solidgrid/gridcache/wire"
)

// startFakeServer starts a one-shot TCP server that performs the handshake
// read and then hands the raw connection to handle for the rest of the
// test.
func startFakeServer(t *testing.T, handle func(net.Conn)) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		handle(c)
	}()
	return ln
}

func readHandshakeRequest(t *testing.T, r *bufio.Reader) {
	t.Helper()
	length, err := wire.ReadI32(r)
	if err != nil {
		t.Fatalf("read handshake length: %v", err)
	}
	if _, err := r.Discard(int(length)); err != nil {
		t.Fatalf("discard handshake body: %v", err)
	}
}

func writeHandshakeSuccess(t *testing.T, c net.Conn) {
	t.Helper()
	w := bufio.NewWriter(c)
	_ = wire.WriteI32(w, 1)
	_ = wire.WriteU8(w, proto.HandshakeStatusSuccess)
	_ = w.Flush()
}

func TestDialHandshakeSuccess(t *testing.T) {
	ln := startFakeServer(t, func(c net.Conn) {
		defer c.Close()
		r := bufio.NewReader(c)
		readHandshakeRequest(t, r)
		writeHandshakeSuccess(t, c)
	})
	defer ln.Close()

	c, err := Dial(Config{Endpoint: ln.Addr().String(), DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()
}

func TestDialHandshakeRejected(t *testing.T) {
	ln := startFakeServer(t, func(c net.Conn) {
		defer c.Close()
		r := bufio.NewReader(c)
		readHandshakeRequest(t, r)
		w := bufio.NewWriter(c)
		_ = wire.WriteI32(w, 0)
		_ = wire.WriteU8(w, 0)
		_ = wire.WriteI16(w, 1)
		_ = wire.WriteI16(w, 1)
		_ = wire.WriteI16(w, 0)
		_ = wire.WriteValue(w, wire.Str("client too new"))
		_ = w.Flush()
	})
	defer ln.Close()

	_, err := Dial(Config{Endpoint: ln.Addr().String(), DialTimeout: time.Second})
	if err == nil {
		t.Fatal("expected handshake error")
	}
	gcErr, ok := err.(*gridcacheerr.Error)
	if !ok || gcErr.Kind != gridcacheerr.Handshake {
		t.Fatalf("expected gridcacheerr.Handshake, got %#v", err)
	}
}

func TestDoSuccessAndOpFailure(t *testing.T) {
	ln := startFakeServer(t, func(c net.Conn) {
		defer c.Close()
		r := bufio.NewReader(c)
		readHandshakeRequest(t, r)
		writeHandshakeSuccess(t, c)

		w := bufio.NewWriter(c)

		// First request: succeed with an I32(7) body.
		if _, err := wire.ReadI32(r); err != nil {
			return
		}
		if _, err := wire.ReadI16(r); err != nil {
			return
		}
		if _, err := wire.ReadI64(r); err != nil {
			return
		}
		_ = wire.WriteI32(w, 16)
		_ = wire.WriteI64(w, 0)
		_ = wire.WriteI32(w, 0)
		_ = wire.WriteValue(w, wire.I32(7))
		_ = w.Flush()

		// Second request: fail with an Op error.
		if _, err := wire.ReadI32(r); err != nil {
			return
		}
		if _, err := wire.ReadI16(r); err != nil {
			return
		}
		if _, err := wire.ReadI64(r); err != nil {
			return
		}
		_ = wire.WriteI32(w, 0)
		_ = wire.WriteI64(w, 0)
		_ = wire.WriteI32(w, 1)
		_ = wire.WriteValue(w, wire.Str("boom"))
		_ = w.Flush()
	})
	defer ln.Close()

	c, err := Dial(Config{Endpoint: ln.Addr().String(), DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	got, err := SendAndRead(c, proto.OpCacheGet, nil, func(r io.Reader) (int32, error) {
		v, err := wire.ReadValue(r)
		if err != nil {
			return 0, err
		}
		i, ok := v.(wire.I32)
		if !ok {
			return 0, gridcacheerr.BadFormatErr(nil, "expected I32")
		}
		return int32(i), nil
	})
	if err != nil {
		t.Fatalf("SendAndRead: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}

	err = c.Do(proto.OpCachePut, nil, nil)
	if err == nil {
		t.Fatal("expected Op error")
	}
	gcErr, ok := err.(*gridcacheerr.Error)
	if !ok || gcErr.Kind != gridcacheerr.Op {
		t.Fatalf("expected gridcacheerr.Op, got %#v", err)
	}
	if gcErr.Message != "boom" {
		t.Fatalf("message = %q, want %q", gcErr.Message, "boom")
	}
}
