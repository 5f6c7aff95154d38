package repository

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// ErrorKindValidation: bad input, detected before any store access.
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindNotFound: the targeted row does not exist.
	ErrorKindNotFound ErrorKind = "not_found"
	// ErrorKindConnectivity: the store is unreachable; recovery was attempted.
	ErrorKindConnectivity ErrorKind = "connectivity"
	// ErrorKindConstraint: integrity violation; never retried.
	ErrorKindConstraint ErrorKind = "constraint"
	// ErrorKindInternal: anything else from the storage boundary.
	ErrorKindInternal ErrorKind = "internal"
)

// StorageError is the tagged result every repository operation fails
// with, so callers can distinguish "operation failed but the store is
// healthy" from "the store itself is down" without shape-sniffing.
// Recovered is meaningful for connectivity errors only: a true value
// means the connection was restored for future calls, not that the
// failed call was retried.
type StorageError struct {
	Kind      ErrorKind
	Message   string
	Recovered bool
	Err       error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *StorageError {
	return &StorageError{Kind: ErrorKindValidation, Message: message}
}

func NewNotFoundError(message string) *StorageError {
	return &StorageError{Kind: ErrorKindNotFound, Message: message}
}

// KindOf extracts the error kind, defaulting to internal for errors
// that did not come from the repository layer.
func KindOf(err error) ErrorKind {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Kind
	}
	return ErrorKindInternal
}

func IsNotFound(err error) bool {
	return KindOf(err) == ErrorKindNotFound
}

func IsValidation(err error) bool {
	return KindOf(err) == ErrorKindValidation
}

func IsConnectivity(err error) bool {
	return KindOf(err) == ErrorKindConnectivity
}

func IsConstraint(err error) bool {
	return KindOf(err) == ErrorKindConstraint
}
