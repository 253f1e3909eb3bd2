package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// Named constraints declared by the migrations.
const (
	constraintProducerCPF       = "producers_cpf_key"
	constraintProducerCNPJ      = "producers_cnpj_key"
	constraintCropName          = "crops_name_key"
	constraintFarmProducer      = "farms_producer_id_fkey"
	constraintFarmAreas         = "farms_area_composition_check"
	constraintFarmCropsFarm     = "farms_crops_farm_id_fkey"
	constraintFarmCropsCrop     = "farms_crops_crop_id_fkey"
	constraintFarmAreasPositive = "farms_areas_positive_check"
)

// constraintErrors maps a violated constraint to the error callers branch on.
// farms_producer_id_fkey means a missing producer when a farm is written;
// deleting a producer hits the same constraint and is handled by the
// producer store.
var constraintErrors = map[string]error{
	constraintProducerCPF:       store.ErrProducerDocumentExists,
	constraintProducerCNPJ:      store.ErrProducerDocumentExists,
	constraintCropName:          store.ErrCropNameExists,
	constraintFarmProducer:      store.ErrProducerNotFound,
	constraintFarmAreas:         domain.ErrInvalidAreaComposition,
	constraintFarmAreasPositive: domain.ErrNonPositiveArea,
	constraintFarmCropsFarm:     store.ErrFarmNotFound,
	constraintFarmCropsCrop:     store.ErrCropNotFound,
}

// MapError maps a database error to the store or domain error it stands for.
// Violations of the schema's named constraints map to their specific error;
// other integrity violations fall back to ErrDuplicate or ErrInvalidEntity.
// The original error stays in the chain for logging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return fmt.Errorf("%w: %v", mapped, err)
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case foreignKeyViolationCode:
		return fmt.Errorf("%w: foreign key violation (%s): %v",
			store.ErrInvalidEntity, pgErr.ConstraintName, err)
	case checkViolationCode:
		return fmt.Errorf("%w: check constraint violation (%s): %v",
			store.ErrInvalidEntity, pgErr.ConstraintName, err)
	case notNullViolationCode:
		return fmt.Errorf("%w: not null violation (%s): %v",
			store.ErrInvalidEntity, pgErr.ColumnName, err)
	}

	return err
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// isProducerStillReferenced reports whether err is a producer delete blocked
// by the farms that still reference it.
func isProducerStillReferenced(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == foreignKeyViolationCode &&
		pgErr.ConstraintName == constraintFarmProducer
}

// CheckRowsAffected examines the number of rows affected by a database operation.
// If no rows were affected, it returns notFound, or store.ErrNotFound when
// notFound is nil. UPDATE and DELETE by primary key use it to detect a
// missing record.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}

	return nil
}
