package proto

import (
	"bytes"
	"fmt"
	"io"

	"github.com/solidgrid/gridcache/wire"
)

// WriteRequest assembles a complete request frame: i32 total length
// (inclusive of the 10-byte header), i16 opcode, i64 correlation id, then
// the pre-serialized body. The body is built into a scratch buffer first so
// the length prefix can be computed without requiring every caller to
// predict its own encoded size up front.
func WriteRequest(w io.Writer, op OpCode, correlationID int64, body []byte) error {
	total := int32(RequestHeaderLen + len(body))
	var hdr bytes.Buffer
	if err := wire.WriteI32(&hdr, total); err != nil {
		return err
	}
	if err := wire.WriteI16(&hdr, int16(op)); err != nil {
		return err
	}
	if err := wire.WriteI64(&hdr, correlationID); err != nil {
		return err
	}
	if _, err := w.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("proto: write request header: %w", err)
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("proto: write request body: %w", err)
		}
	}
	return nil
}

// ResponseHeader is the fixed prefix of every response frame.
type ResponseHeader struct {
	Length        int32
	CorrelationID int64
	Status        int32
}

// OK reports whether the server reported success (status == 0).
func (h ResponseHeader) OK() bool { return h.Status == 0 }

// ReadResponseHeader reads the i32 length + i64 correlation id + i32 status
// triple that begins every response frame. The remaining body (length -
// 12 bytes) still needs to be read by the caller: on success it is the
// operation's result; on failure it begins with a string carrying the
// server's error message.
func ReadResponseHeader(r io.Reader) (ResponseHeader, error) {
	length, err := wire.ReadI32(r)
	if err != nil {
		return ResponseHeader{}, fmt.Errorf("proto: read response length: %w", err)
	}
	corrID, err := wire.ReadI64(r)
	if err != nil {
		return ResponseHeader{}, fmt.Errorf("proto: read response correlation id: %w", err)
	}
	status, err := wire.ReadI32(r)
	if err != nil {
		return ResponseHeader{}, fmt.Errorf("proto: read response status: %w", err)
	}
	return ResponseHeader{Length: length, CorrelationID: corrID, Status: status}, nil
}

// ReadErrorMessage decodes the server error string that follows a non-zero
// status flag. The string is itself a tagged wire.Value (String or Null).
func ReadErrorMessage(r io.Reader) (string, error) {
	v, err := wire.ReadValue(r)
	if err != nil {
		return "", fmt.Errorf("proto: read error message: %w", err)
	}
	if v == nil {
		return "", nil
	}
	s, ok := v.(wire.Str)
	if !ok {
		return "", fmt.Errorf("proto: error message body has unexpected type code %d", v.Code())
	}
	return string(s), nil
}

// WriteHandshakeRequest writes the complete handshake frame. Unlike every
// other request, the handshake frame's length prefix covers only the
// opcode byte plus body (no 10-byte header, no correlation id, and the
// opcode is a single byte rather than i16). This is the one place the
// protocol departs from the regular request framing.
func WriteHandshakeRequest(w io.Writer, body []byte) error {
	total := int32(1 + len(body))
	var hdr bytes.Buffer
	if err := wire.WriteI32(&hdr, total); err != nil {
		return err
	}
	if err := wire.WriteU8(&hdr, byte(OpHandshake)); err != nil {
		return err
	}
	if _, err := w.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("proto: write handshake header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("proto: write handshake body: %w", err)
	}
	return nil
}

// HandshakeRequest builds the fixed handshake body: i16 i16 i16 protocol
// version followed by the client-kind byte, with optional username/password
// credentials appended as two back-to-back tagged strings. Both or neither
// must be set; mixed state is a usage error caught before any I/O.
func HandshakeRequest(username, password *string) ([]byte, error) {
	if (username == nil) != (password == nil) {
		return nil, fmt.Errorf("proto: handshake requires both username and password or neither")
	}
	var buf bytes.Buffer
	if err := wire.WriteI16(&buf, ProtocolVersion.Major); err != nil {
		return nil, err
	}
	if err := wire.WriteI16(&buf, ProtocolVersion.Minor); err != nil {
		return nil, err
	}
	if err := wire.WriteI16(&buf, ProtocolVersion.Patch); err != nil {
		return nil, err
	}
	if err := wire.WriteU8(&buf, ClientKind); err != nil {
		return nil, err
	}
	if username != nil {
		if err := wire.WriteValue(&buf, wire.Str(*username)); err != nil {
			return nil, err
		}
		if err := wire.WriteValue(&buf, wire.Str(*password)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// HandshakeStatusSuccess is the single status byte value meaning the
// handshake succeeded and the connection is ready for cache operations.
const HandshakeStatusSuccess = 1

// HandshakeResult is the decoded body of a handshake response.
type HandshakeResult struct {
	Status      byte
	ServerMajor int16
	ServerMinor int16
	ServerPatch int16
	Message     string
}

// ReadHandshakeResponse reads the i32 length + u8 status that begins a
// handshake response, and, on failure, the server's highest supported
// version triple plus an error string.
func ReadHandshakeResponse(r io.Reader) (HandshakeResult, error) {
	if _, err := wire.ReadI32(r); err != nil {
		return HandshakeResult{}, fmt.Errorf("proto: read handshake response length: %w", err)
	}
	status, err := wire.ReadU8(r)
	if err != nil {
		return HandshakeResult{}, fmt.Errorf("proto: read handshake status: %w", err)
	}
	res := HandshakeResult{Status: status}
	if status == HandshakeStatusSuccess {
		return res, nil
	}
	if res.ServerMajor, err = wire.ReadI16(r); err != nil {
		return HandshakeResult{}, fmt.Errorf("proto: read server major version: %w", err)
	}
	if res.ServerMinor, err = wire.ReadI16(r); err != nil {
		return HandshakeResult{}, fmt.Errorf("proto: read server minor version: %w", err)
	}
	if res.ServerPatch, err = wire.ReadI16(r); err != nil {
		return HandshakeResult{}, fmt.Errorf("proto: read server patch version: %w", err)
	}
	msg, err := ReadErrorMessage(r)
	if err != nil {
		return HandshakeResult{}, err
	}
	res.Message = msg
	return res, nil
}
