// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an identifier cannot be parsed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidAreaComposition is returned when a farm's arable and vegetation
	// areas add up to more than its total area.
	ErrInvalidAreaComposition = errors.New("arable and vegetation area exceed total area")

	// ErrNonPositiveArea is returned when an area measurement is zero or negative.
	ErrNonPositiveArea = errors.New("area must be greater than zero")

	// ErrNoChangeRequested is returned when every crop requested for addition
	// is already associated with the farm.
	ErrNoChangeRequested = errors.New("all requested crops are already associated with the farm")

	// ErrNoAssociationFound is returned when none of the crops requested for
	// removal are associated with the farm.
	ErrNoAssociationFound = errors.New("none of the requested crops are associated with the farm")

	// ErrCropsNotFound is returned when a batch crop lookup misses one or more ids.
	// The concrete error is a *CropsNotFoundError listing the missing ids.
	ErrCropsNotFound = errors.New("crops not found")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
// When err is nil the error wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// CropsNotFoundError lists the crop ids a batch lookup could not resolve.
type CropsNotFoundError struct {
	IDs []uuid.UUID
}

// NewCropsNotFoundError builds a CropsNotFoundError with its ids sorted so the
// message is stable.
func NewCropsNotFoundError(ids []uuid.UUID) *CropsNotFoundError {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})
	return &CropsNotFoundError{IDs: sorted}
}

// Error implements the error interface for CropsNotFoundError.
func (e *CropsNotFoundError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("%s: %s", ErrCropsNotFound.Error(), strings.Join(ids, ", "))
}

// Is reports ErrCropsNotFound as the error kind.
func (e *CropsNotFoundError) Is(target error) bool {
	return target == ErrCropsNotFound
}
