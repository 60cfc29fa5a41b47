package eventstore

import "errors"

// Sentinel kinds for ledger errors.
var (
	// ErrConcurrencyConflict signals a stale ExpectedVersion. The caller
	// must reload the stream and decide whether to retry.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrStorageUnavailable wraps transient I/O failures. Safe to retry
	// with backoff.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidRequest signals a malformed append request (missing
	// aggregate id or event type). Nothing is written.
	ErrInvalidRequest = errors.New("invalid append request")
)
