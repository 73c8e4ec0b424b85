package wire

import "strings"

// NameHash reproduces java.lang.String.hashCode(): h starts at 0, then
// h = 31*h + rune for every rune in the string, wrapping as a signed 32-bit
// integer. Lowercasing is the caller's responsibility — most callers lowercase
// type and field names before hashing, but at least one request
// (CacheGetConfiguration) needs the name hashed as-is, so the function itself
// never lowercases.
func NameHash(s string) int32 {
	var h int32
	for _, r := range s {
		h = 31*h + int32(r)
	}
	return h
}

// BodyHash reproduces the Java byte-array hashCode used for the complex-object
// header's body hash: h starts at 1, then h = h*31 + int8(b) for every byte,
// with the byte sign-extended to match Java's signed byte semantics.
func BodyHash(data []byte) int32 {
	h := int32(1)
	for _, b := range data {
		h = h*31 + int32(int8(b))
	}
	return h
}

const (
	fnv1OffsetBasis int32 = -2128831035 // 0x811C9DC5 as a signed 32-bit int
	fnv1Prime       int32 = 0x01000193
)

// SchemaID folds the hashed, lowercased field names of a complex-object
// schema into a single FNV-1 style identifier, matching the protocol's
// schema-id derivation: start from the FNV-1 offset basis, and for each field
// XOR in its name hash one byte at a time (least-significant byte first),
// multiplying by the FNV-1 prime after each byte.
func SchemaID(fieldNames []string) int32 {
	h := fnv1OffsetBasis
	for _, name := range fieldNames {
		fieldHash := NameHash(strings.ToLower(name))
		for shift := uint(0); shift < 32; shift += 8 {
			b := byte(fieldHash >> shift)
			h ^= int32(b)
			h *= fnv1Prime
		}
	}
	return h
}
