package fluentlite

import "errors"

// Sentinel errors for facade operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected is returned when a data operation is attempted
	// before Connect, or after Close.
	ErrNotConnected = errors.New("fluentlite: not connected")

	// ErrNestedTransaction is returned when Transaction is called from
	// inside another Transaction on the same facade. Transactions are
	// non-reentrant.
	ErrNestedTransaction = errors.New("fluentlite: nested transaction not supported")

	// ErrInvalidTxMode is returned for a transaction mode outside
	// deferred, immediate or exclusive.
	ErrInvalidTxMode = errors.New("fluentlite: invalid transaction mode")

	// ErrEmptyPatch is returned by Update when the patch carries no
	// fields; there is nothing to SET.
	ErrEmptyPatch = errors.New("fluentlite: update patch is empty")
)
