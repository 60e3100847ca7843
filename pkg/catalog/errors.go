package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no map is catalogued under a path.
var ErrNotFound = errors.New("map not found in catalog")

// StorageError represents an error from the catalog database.
type StorageError struct {
	Operation string // Operation that failed ("open", "upsert", "list", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("catalog error [operation=%s]: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(operation string, cause error) *StorageError {
	return &StorageError{
		Operation: operation,
		Cause:     cause,
	}
}
