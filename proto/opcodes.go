// Package proto assembles and parses the request/response frames that carry
// wire.Value payloads between a client and a cache node: a fixed-width
// header followed by an opcode-specific body.
package proto

// OpCode identifies the operation a request frame carries.
type OpCode int16

const (
	OpHandshake OpCode = 1

	OpCacheGet                          OpCode = 1000
	OpCachePut                          OpCode = 1001
	OpCachePutIfAbsent                  OpCode = 1002
	OpCacheGetAll                       OpCode = 1003
	OpCachePutAll                       OpCode = 1004
	OpCacheGetAndPut                    OpCode = 1005
	OpCacheGetAndReplace                OpCode = 1006
	OpCacheGetAndRemove                 OpCode = 1007
	OpCacheGetAndPutIfAbsent            OpCode = 1008
	OpCacheReplace                      OpCode = 1009
	OpCacheReplaceIfEquals              OpCode = 1010
	OpCacheContainsKey                  OpCode = 1011
	OpCacheContainsKeys                 OpCode = 1012
	OpCacheClear                        OpCode = 1013
	OpCacheClearKey                     OpCode = 1014
	OpCacheClearKeys                    OpCode = 1015
	OpCacheRemoveKey                    OpCode = 1016
	OpCacheRemoveIfEquals               OpCode = 1017
	OpCacheRemoveKeys                   OpCode = 1018
	OpCacheRemoveAll                    OpCode = 1019
	OpCacheGetSize                      OpCode = 1020
	OpCacheGetNames                     OpCode = 1050
	OpCacheCreateWithName               OpCode = 1051
	OpCacheGetOrCreateWithName          OpCode = 1052
	OpCacheCreateWithConfiguration      OpCode = 1053
	OpCacheGetOrCreateWithConfiguration OpCode = 1054
	OpCacheGetConfiguration             OpCode = 1055
	OpCacheDestroy                      OpCode = 1056

	OpQueryScan OpCode = 2000
)

// RequestHeaderLen is the fixed byte size of a request header as counted by
// the i32 length prefix: i16 opcode + i64 correlation id (the prefix itself
// is not counted).
const RequestHeaderLen = 10

// ProtocolVersion is the thin-client protocol version this package speaks.
var ProtocolVersion = struct{ Major, Minor, Patch int16 }{1, 2, 0}

// ClientKind is the byte the handshake sends to identify this as a thin
// (non-JDBC, non-ODBC) client.
const ClientKind = 2
