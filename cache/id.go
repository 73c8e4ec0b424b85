// Package cache implements the typed key-value cache facade: the client
// (admin operations, cache acquisition) and the generic Cache[K,V] handle
// (get/put/remove/... and the single-page scan cursor).
package cache

import "github.com/solidgrid/gridcache/wire"

// ID derives the stable cache-id the wire protocol uses in place of the
// cache name on every request. Cache names are case-sensitive on the wire,
// unlike complex-object type and field names, so no lower-casing happens
// here (contrast wire.Schema.TypeID).
func ID(name string) int32 {
	return wire.NameHash(name)
}
