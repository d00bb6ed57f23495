// Package dbworker runs all dataset I/O on a single background goroutine.
//
// Callers never touch the SQLite handle directly. Each call is dispatched as
// a correlated request to the worker goroutine, which exclusively owns the
// open handle, and the caller suspends until the response with the matching
// identifier arrives. Requests are dispatched in call order but completion is
// matched purely by identifier, so callers must not assume FIFO resolution;
// any sequencing requirement (open before exec) is enforced by awaiting the
// earlier call.
//
// The pending-request table is owned by the worker alone and every entry is
// removed exactly once: on response delivery, on caller timeout, or on
// Terminate, which rejects all outstanding requests rather than leaking them.
package dbworker
