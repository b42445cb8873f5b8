package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrShotNotFound, ErrVersionNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails, for example
	// because the entity does not exist or the update violates constraints.
	ErrUpdateFailed = errors.New("update failed")

	// ErrDeleteFailed is returned when a delete operation fails. Deleting a
	// primary version is the most common cause.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrPrimaryVersion is returned when an operation is forbidden because
	// the version is the shot's primary version.
	ErrPrimaryVersion = errors.New("version is primary")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrShotNotFound indicates that the requested shot does not exist in the store.
	ErrShotNotFound = fmt.Errorf("%w: shot", ErrNotFound)

	// ErrVersionNotFound indicates that the requested version does not exist in the store.
	ErrVersionNotFound = fmt.Errorf("%w: version", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
