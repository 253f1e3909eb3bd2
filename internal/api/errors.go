package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/agrofarm-api/internal/api/shared"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Not found errors
	case store.IsNotFoundError(err),
		errors.Is(err, domain.ErrCropsNotFound),
		errors.Is(err, domain.ErrNoAssociationFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrVersionConflict),
		store.IsDuplicateError(err),
		errors.Is(err, store.ErrProducerHasFarms),
		errors.Is(err, domain.ErrNoChangeRequested):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidAreaComposition),
		errors.Is(err, domain.ErrNonPositiveArea),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, new(*domain.ValidationError)),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var cropsNotFound *domain.CropsNotFoundError
	var fieldErr *domain.ValidationError
	var validationErrs validator.ValidationErrors

	switch {
	// Crop ids are client input, so listing them is safe.
	case errors.As(err, &cropsNotFound):
		ids := make([]string, len(cropsNotFound.IDs))
		for i, id := range cropsNotFound.IDs {
			ids[i] = id.String()
		}
		return "Crops not found: " + strings.Join(ids, ", ")

	case errors.Is(err, store.ErrProducerNotFound):
		return "Producer not found"
	case errors.Is(err, store.ErrFarmNotFound):
		return "Farm not found"
	case errors.Is(err, store.ErrCropNotFound):
		return "Crop not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrVersionConflict):
		return "Farm was modified concurrently, reload and retry"
	case errors.Is(err, store.ErrCropNameExists):
		return "Crop name already exists"
	case errors.Is(err, store.ErrProducerDocumentExists):
		return "A producer with this CPF or CNPJ already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, store.ErrProducerHasFarms):
		return "Producer still owns farms"
	case errors.Is(err, domain.ErrNoChangeRequested):
		return "All requested crops are already associated with the farm"
	case errors.Is(err, domain.ErrNoAssociationFound):
		return "None of the requested crops are associated with the farm"

	case errors.Is(err, domain.ErrInvalidAreaComposition):
		return "Arable and vegetation areas cannot exceed the total area"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.As(err, &fieldErr):
		return fmt.Sprintf("Invalid %s: %s", fieldErr.Field, fieldErr.Message)
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return "Validation failed"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator failure into a message that names
// the offending JSON field and the rule it broke, never its value.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	first := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", first.Field(), getValidationTagMessage(first.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "e164":
		return "must be an international phone number"
	case "cpf":
		return "invalid CPF"
	case "cnpj":
		return "invalid CNPJ"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "gt":
		return "must be greater than zero"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "len":
		return "invalid length"
	case "uuid", "uuid4":
		return "must be a UUID"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err, logging the
// redacted details. defaultMsg replaces the generic message for 5xx errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
