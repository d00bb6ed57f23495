// Package memocache provides a small bounded cache with insertion-order
// eviction and optional per-entry expiry.
//
// Both the term normalizer's memo and the search result cache are built on
// this type so eviction behavior stays in one place. Entries are evicted
// oldest-first once capacity is exceeded; an entry past its TTL is treated as
// a miss and dropped on lookup. Access order never affects eviction.
package memocache
