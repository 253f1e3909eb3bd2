package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
)

// FarmFilter narrows farm listings. Zero values match everything.
type FarmFilter struct {
	ProducerID uuid.UUID
	State      string
	// CropID matches farms associated with this crop.
	CropID uuid.UUID
}

// FarmStore defines the interface for farm data persistence.
//
// Every mutating method except Create and Delete performs an optimistic
// version check: the write only applies if the stored version equals
// farm.Version, after which farm.Version is advanced. A mismatch on an
// existing farm returns ErrVersionConflict.
type FarmStore interface {
	// Create saves a new farm together with its crop associations.
	// IMPORTANT: run inside a transaction so the farm row and its join rows
	// are written atomically.
	Create(ctx context.Context, farm *domain.Farm) error

	// GetByID retrieves a farm and its crops.
	// Returns ErrFarmNotFound if the farm does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Farm, error)

	// Update writes the farm's scalar fields (name, areas, location, producer).
	// Returns ErrFarmNotFound or ErrVersionConflict.
	Update(ctx context.Context, farm *domain.Farm) error

	// UpdateCrops adds and removes crop associations and advances the version.
	// IMPORTANT: run inside a transaction.
	// Returns ErrFarmNotFound or ErrVersionConflict.
	UpdateCrops(ctx context.Context, farm *domain.Farm, added, removed []uuid.UUID) error

	// Delete removes a farm and its crop associations.
	// Returns ErrFarmNotFound if the farm does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of farms matching filter.
	Count(ctx context.Context, filter FarmFilter) (int, error)

	// List returns farms matching filter ordered by name then ID, each with its crops.
	List(ctx context.Context, filter FarmFilter, limit, offset int) ([]*domain.Farm, error)

	// WithTx returns a FarmStore bound to the given transaction.
	WithTx(tx *sql.Tx) FarmStore
}
