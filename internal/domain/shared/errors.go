package shared

import (
	"errors"
	"fmt"
)

// Error kinds shared by every component. Domain packages return richer error
// types whose Is method matches one of these.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrAccessDenied      = errors.New("access denied")
	ErrSameAccount       = errors.New("cannot transfer to the same account")
	ErrIO                = errors.New("storage i/o error")
)

// StorageError reports a failed read or write on a record table
type StorageError struct {
	Table string
	Op    string // load, rewrite, append
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s table %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is implements the errors.Is interface so every storage failure matches ErrIO
func (e *StorageError) Is(target error) bool {
	return target == ErrIO
}

// AuditIncompleteError is returned when balances were persisted but the matching
// log records could not be appended. The balance change stands.
type AuditIncompleteError struct {
	Operation string
	Err       error
}

func (e *AuditIncompleteError) Error() string {
	return fmt.Sprintf("%s committed but audit records were not written: %v", e.Operation, e.Err)
}

func (e *AuditIncompleteError) Unwrap() error {
	return e.Err
}

// IsBusinessError reports whether err is a rejection of the request itself
// rather than an infrastructure failure. Business errors are never retried.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrAccountInactive) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrSameAccount)
}
