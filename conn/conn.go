// Package conn owns the TCP connection to a cache node: dialing and TCP
// tuning, the version-negotiating handshake, and a mutex-guarded
// request/response exchange that every cache handle shares.
package conn

import (
	"bufio"
	"crypto/tls"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/solidgrid/gridcache/gridcacheerr"
	"github.com/solidgrid/gridcache/proto"
)

// Conn is a single connection to a cache node. It is safe for concurrent use
// by multiple cache handles: every exchange holds an internal mutex for its
// full duration, so only one request is ever in flight.
type Conn struct {
	mu  sync.Mutex
	raw net.Conn
	r   *bufio.Reader
	w   *bufio.Writer
	log *logrus.Entry

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Dial connects to cfg.Endpoint, applies TCP tuning, and performs the
// handshake. A connect or handshake failure is fatal: no *Conn is returned.
func Dial(cfg Config) (*Conn, error) {
	cfg = cfg.withDefaults()
	log := logrus.WithFields(logrus.Fields{"component": "conn", "endpoint": cfg.Endpoint})

	d := net.Dialer{Timeout: cfg.DialTimeout}
	raw, err := d.Dial("tcp", cfg.Endpoint)
	if err != nil {
		log.WithError(err).Warn("dial failed")
		return nil, gridcacheerr.TransportErr(err, "dial "+cfg.Endpoint)
	}
	if tcp, ok := raw.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(cfg.NoDelay)
	}
	// cfg.TTL has no portable setter on *net.TCPConn in the standard
	// library; it is accepted for configuration-surface completeness and
	// left to a platform-specific dialer wrapper if a caller needs it.

	if cfg.TLS != nil {
		raw = tls.Client(raw, cfg.TLS)
	}

	c := &Conn{
		raw:          raw,
		r:            bufio.NewReaderSize(raw, cfg.ReadBufferSize),
		w:            bufio.NewWriterSize(raw, cfg.WriteBufferSize),
		log:          log,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}

	if err := c.handshake(cfg.Username, cfg.Password); err != nil {
		_ = raw.Close()
		return nil, err
	}
	log.Info("handshake succeeded")
	return c, nil
}

func (c *Conn) handshake(username, password *string) error {
	body, err := proto.HandshakeRequest(username, password)
	if err != nil {
		return gridcacheerr.UsageErr(err.Error())
	}
	c.applyWriteDeadline()
	if err := proto.WriteHandshakeRequest(c.w, body); err != nil {
		return gridcacheerr.TransportErr(err, "write handshake")
	}
	if err := c.w.Flush(); err != nil {
		return gridcacheerr.TransportErr(err, "flush handshake")
	}
	c.applyReadDeadline()
	res, err := proto.ReadHandshakeResponse(c.r)
	if err != nil {
		return gridcacheerr.TransportErr(err, "read handshake response")
	}
	if res.Status != proto.HandshakeStatusSuccess {
		c.log.WithFields(logrus.Fields{
			"server_version": []int16{res.ServerMajor, res.ServerMinor, res.ServerPatch},
		}).Error("handshake rejected")
		return gridcacheerr.HandshakeErr(res.ServerMajor, res.ServerMinor, res.ServerPatch, res.Message)
	}
	return nil
}

// Do performs one full request/response exchange: write the framed request,
// flush, read the response header, and on success hand the remaining body
// reader to readBody. On a non-zero status, the server's error message is
// decoded and returned as an Op error without disturbing the connection.
// A transport failure (write, flush, or header read) is fatal.
func (c *Conn) Do(op proto.OpCode, body []byte, readBody func(r io.Reader) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.applyWriteDeadline()
	if err := proto.WriteRequest(c.w, op, 0, body); err != nil {
		return gridcacheerr.TransportErr(err, "write request")
	}
	if err := c.w.Flush(); err != nil {
		return gridcacheerr.TransportErr(err, "flush request")
	}

	c.applyReadDeadline()
	hdr, err := proto.ReadResponseHeader(c.r)
	if err != nil {
		return gridcacheerr.TransportErr(err, "read response header")
	}
	if !hdr.OK() {
		msg, err := proto.ReadErrorMessage(c.r)
		if err != nil {
			return gridcacheerr.TransportErr(err, "read error message")
		}
		c.log.WithFields(logrus.Fields{"opcode": op, "status": hdr.Status}).Debug("operation failed")
		return gridcacheerr.OpErr(msg)
	}
	if readBody == nil {
		return nil
	}
	if err := readBody(c.r); err != nil {
		return gridcacheerr.BadFormatErr(err, "decode response body")
	}
	return nil
}

func (c *Conn) applyReadDeadline() {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
}

func (c *Conn) applyWriteDeadline() {
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
}

// Close releases the underlying TCP connection. The Conn must not be used
// afterward.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw.Close()
}

// SendAndRead performs an exchange and decodes the response body as T.
// Declared as a free function (not a method) since Go methods cannot carry
// their own type parameters.
func SendAndRead[T any](c *Conn, op proto.OpCode, body []byte, decode func(r io.Reader) (T, error)) (T, error) {
	var result T
	err := c.Do(op, body, func(r io.Reader) error {
		v, err := decode(r)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}
