package store

import "errors"

var (
	// ErrBatchNotFound is returned when no batch has the requested id.
	ErrBatchNotFound = errors.New("batch not found")
	// ErrRowNotFound is returned when a batch has no row at the requested index.
	ErrRowNotFound = errors.New("row not found")
	// ErrProfileNotFound is returned when no mapping profile matches.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrTransactionNotFound is returned when no ledger record has the requested id.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrNotInTransaction is returned by Savepoint outside WithTx.
	ErrNotInTransaction = errors.New("savepoint requires an open transaction")
)

// ErrInvalidTransition is returned when a batch status change would move
// the lifecycle backwards or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid batch status transition")
