package store

import "errors"

// Sentinel error kinds the Store surfaces to callers (spec §4.2, §7). Workers
// and the ingress API type-switch on these with errors.Is rather than
// parsing message text.
var (
	// ErrNotFound is returned when a lookup by ID finds nothing.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an idempotency or state-transition
	// precondition is violated (e.g. claiming a batch already claimed).
	ErrConflict = errors.New("conflict")
)
