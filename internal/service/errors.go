package service

import (
	"fmt"
)

// ServiceError wraps a failure inside a service operation with the entity
// and operation it happened in. The wrapped error keeps its identity, so the
// API layer can still match store and domain sentinels with errors.Is/As.
type ServiceError struct {
	Entity    string // e.g. "farm", "crop"
	Operation string // e.g. "create", "add_crops"
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Entity, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Entity, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(entity, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
