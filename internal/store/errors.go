package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrFarmNotFound, ErrCropNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a crop with the same name).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrVersionConflict is returned when a farm was modified by someone else
	// between being read and being written back.
	ErrVersionConflict = errors.New("entity was modified concurrently")

	// ErrProducerHasFarms is returned when deleting a producer that still owns farms.
	ErrProducerHasFarms = errors.New("producer still owns farms")

	// Entity-specific "not found" errors

	// ErrProducerNotFound indicates that the requested producer does not exist in the store.
	ErrProducerNotFound = fmt.Errorf("%w: producer", ErrNotFound)

	// ErrFarmNotFound indicates that the requested farm does not exist in the store.
	ErrFarmNotFound = fmt.Errorf("%w: farm", ErrNotFound)

	// ErrCropNotFound indicates that the requested crop does not exist in the store.
	ErrCropNotFound = fmt.Errorf("%w: crop", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrCropNameExists indicates that a crop with the given name already exists.
	ErrCropNameExists = fmt.Errorf("%w: crop name", ErrDuplicate)

	// ErrProducerDocumentExists indicates that another producer already holds the CPF or CNPJ.
	ErrProducerDocumentExists = fmt.Errorf("%w: producer document", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// Entity-specific errors wrap ErrNotFound, so a single errors.Is covers them.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "farm", "crop")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
