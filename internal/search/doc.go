// Package search exposes the ROM lookup service.
//
// A Service owns one dataset session at a time: the allow-list catalog, the
// dataset fetcher, a background dbworker holding the open handle, and a
// TTL-bounded result cache. It is constructed explicitly and injected into
// consumers; there is no package-level instance. Switching datasets
// terminates the prior worker and clears the cache, so results can never
// leak across datasets.
package search
