package report

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get for an unknown report ID.
var ErrNotFound = errors.New("report not found")

// StorageError is a failure in a report store.
type StorageError struct {
	Backend   string // "sqlite", "memory"
	Operation string // "open", "save", "list", ...
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("report storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
