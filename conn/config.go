package conn

import (
	"crypto/tls"
	"time"
)

// Config describes how to reach and authenticate against a cache node, plus
// the TCP tuning knobs the connection applies before the handshake.
type Config struct {
	Endpoint string // host:port

	Username *string
	Password *string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TTL          time.Duration

	NoDelay         bool
	ReadBufferSize  int
	WriteBufferSize int

	// TLS, when non-nil, wraps the TCP stream in a TLS session before the
	// handshake. Session construction is entirely crypto/tls's concern; the
	// connection only hands the raw stream over.
	TLS *tls.Config
}

// DefaultReadBufferSize and DefaultWriteBufferSize match the buffered-stream
// defaults called for in the concurrency model.
const (
	DefaultReadBufferSize  = 1024
	DefaultWriteBufferSize = 1024
)

// withDefaults fills in zero-valued tuning fields without mutating cfg.
func (cfg Config) withDefaults() Config {
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = DefaultReadBufferSize
	}
	if cfg.WriteBufferSize <= 0 {
		cfg.WriteBufferSize = DefaultWriteBufferSize
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	return cfg
}
