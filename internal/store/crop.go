package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
)

// CropFilter narrows crop listings. Zero values match everything.
type CropFilter struct {
	// Name matches crops whose name contains it, case-insensitively.
	Name string
}

// CropStore defines the interface for crop data persistence.
type CropStore interface {
	// Create saves a new crop.
	// Returns ErrCropNameExists if another crop already has the same name.
	Create(ctx context.Context, crop *domain.Crop) error

	// GetByID retrieves a crop by its unique ID.
	// Returns ErrCropNotFound if the crop does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Crop, error)

	// GetByIDs is the batch lookup. It returns the crops that exist among ids,
	// in no particular order; missing ids are simply absent from the result.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Crop, error)

	// Update writes the crop's name.
	// Returns ErrCropNotFound or ErrCropNameExists.
	Update(ctx context.Context, crop *domain.Crop) error

	// Delete removes a crop. Its farm associations are removed with it.
	// Returns ErrCropNotFound if the crop does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of crops matching filter.
	Count(ctx context.Context, filter CropFilter) (int, error)

	// List returns crops matching filter ordered by name.
	List(ctx context.Context, filter CropFilter, limit, offset int) ([]*domain.Crop, error)

	// WithTx returns a CropStore bound to the given transaction.
	WithTx(tx *sql.Tx) CropStore
}
