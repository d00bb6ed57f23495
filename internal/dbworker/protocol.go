package dbworker

import (
	"errors"

	"romfind/internal/dataset"
)

// Action identifies a worker operation.
type Action string

const (
	// ActionOpen materializes a dataset buffer and opens it.
	ActionOpen Action = "open"
	// ActionExec runs a query against the open dataset.
	ActionExec Action = "exec"
	// ActionClose releases the current dataset handle.
	ActionClose Action = "close"
)

// Request travels from a caller to the worker goroutine. Buffer carries the
// raw dataset bytes for open requests; the worker never shares file handles
// or paths with callers.
type Request struct {
	ID         uint64
	Action     Action
	Buffer     []byte
	SQL        string
	Args       []any
	WithClones bool
}

// Response travels back from the worker, matched to its Request by ID.
type Response struct {
	ID    uint64
	Games []dataset.Game
	Err   error
}

// Sentinel errors surfaced to callers. Messages are stable and carry no
// internal detail; the worker logs specifics before sanitizing.
var (
	// ErrNotLoaded is returned for exec requests before a successful open.
	ErrNotLoaded = errors.New("database not loaded")
	// ErrTerminated is returned for requests pending or issued after Terminate.
	ErrTerminated = errors.New("worker terminated")
	// ErrInvalidDataset is returned when an opened buffer is not a usable dataset.
	ErrInvalidDataset = errors.New("invalid dataset file")
	// ErrQueryFailed is returned when the store rejects a query.
	ErrQueryFailed = errors.New("query failed")
)
