package core

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned when RunBatch receives no rows.
	ErrEmptyBatch = errors.New("no records found")

	// ErrMissingTeam is returned when the owning team id is absent or not positive.
	ErrMissingTeam = errors.New("missing team id")

	// ErrMissingRef marks a row whose natural key is blank.
	ErrMissingRef = errors.New("missing driver reference")

	// ErrEmptyFile is returned by the normalizer when the upload has no header row.
	ErrEmptyFile = errors.New("empty file")

	// ErrMissingColumn is returned when a required CSV column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrTxUnusable is wrapped by store implementations around errors that
	// leave the surrounding transaction unusable (lost connection, aborted
	// transaction, server shutdown).
	ErrTxUnusable = errors.New("transaction is no longer usable")

	// ErrTooManyImports is returned when all import slots are occupied and the
	// wait timeout expires. Clients should retry after a short delay.
	ErrTooManyImports = errors.New("too many concurrent imports, please try again later")
)

// InputError reports a batch that was rejected before any store call.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return "invalid import request: " + e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// TransactionError reports a failure that aborted the whole batch. Partial
// holds the counts gathered before the failure; nothing from it was
// committed.
type TransactionError struct {
	Op      string
	Err     error
	Partial BatchOutcome
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("import transaction %s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// IsTxFatal reports whether err leaves the batch transaction unusable, in
// which case the batch must be rolled back instead of recording a row
// failure.
func IsTxFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTxUnusable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn)
}
