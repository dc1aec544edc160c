package store

import "errors"

// Shared failure kinds for the durable ledger. Lifecycle operations never
// leak a raw driver error; they map it to one of these.
var (
	// ErrConcurrentModification means a compare-and-set write lost against a
	// concurrent writer. Safe to retry from a fresh read.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrStoreUnavailable covers timeouts and other store-layer failures.
	// Safe to retry by the caller.
	ErrStoreUnavailable = errors.New("store unavailable")
)
