package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
)

// ProducerFilter narrows producer listings. Zero values match everything.
type ProducerFilter struct {
	// Name matches producers whose name contains it, case-insensitively.
	Name string
}

// ProducerStore defines the interface for producer data persistence.
type ProducerStore interface {
	// Create saves a new producer.
	// Returns validation errors if the producer data is invalid.
	Create(ctx context.Context, producer *domain.Producer) error

	// GetByID retrieves a producer by its unique ID.
	// Returns ErrProducerNotFound if the producer does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Producer, error)

	// Update writes the producer's mutable fields.
	// Returns ErrProducerNotFound if the producer does not exist.
	Update(ctx context.Context, producer *domain.Producer) error

	// Delete removes a producer.
	// Returns ErrProducerNotFound if the producer does not exist and
	// ErrProducerHasFarms if farms still reference it.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of producers matching filter.
	Count(ctx context.Context, filter ProducerFilter) (int, error)

	// List returns producers matching filter ordered by name then ID.
	List(ctx context.Context, filter ProducerFilter, limit, offset int) ([]*domain.Producer, error)

	// WithTx returns a ProducerStore bound to the given transaction.
	WithTx(tx *sql.Tx) ProducerStore
}
