package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/platform/logger"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

// ProducerPatch is a partial producer update. Nil fields keep the stored
// value; a pointer to "" clears an optional field.
type ProducerPatch struct {
	Name      *string
	CPF       *string
	CNPJ      *string
	Email     *string
	Phone     *string
	BirthDate *time.Time
}

// apply overlays the patch on details.
func (p ProducerPatch) apply(details domain.ProducerDetails) domain.ProducerDetails {
	if p.Name != nil {
		details.Name = *p.Name
	}
	if p.CPF != nil {
		details.CPF = *p.CPF
	}
	if p.CNPJ != nil {
		details.CNPJ = *p.CNPJ
	}
	if p.Email != nil {
		details.Email = *p.Email
	}
	if p.Phone != nil {
		details.Phone = *p.Phone
	}
	if p.BirthDate != nil {
		details.BirthDate = *p.BirthDate
	}
	return details
}

// ProducerService provides producer registry operations.
type ProducerService interface {
	CreateProducer(ctx context.Context, details domain.ProducerDetails) (*domain.Producer, error)
	GetProducer(ctx context.Context, id uuid.UUID) (*domain.Producer, error)
	UpdateProducer(ctx context.Context, id uuid.UUID, patch ProducerPatch) (*domain.Producer, error)
	// DeleteProducer fails with store.ErrProducerHasFarms while farms reference the producer.
	DeleteProducer(ctx context.Context, id uuid.UUID) error
	ListProducers(
		ctx context.Context,
		filter store.ProducerFilter,
		req store.PageRequest,
	) (*store.Page[*domain.Producer], error)
}

type producerServiceImpl struct {
	txRunner  store.TxRunner
	producers store.ProducerStore
	logger    *slog.Logger
}

// NewProducerService creates a new ProducerService.
func NewProducerService(
	txRunner store.TxRunner,
	producers store.ProducerStore,
	logger *slog.Logger,
) (ProducerService, error) {
	if txRunner == nil {
		return nil, domain.NewValidationError("txRunner", "cannot be nil", domain.ErrValidation)
	}
	if producers == nil {
		return nil, domain.NewValidationError("producers", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &producerServiceImpl{
		txRunner:  txRunner,
		producers: producers,
		logger:    logger.With(slog.String("component", "producer_service")),
	}, nil
}

// CreateProducer implements ProducerService.CreateProducer
func (s *producerServiceImpl) CreateProducer(
	ctx context.Context,
	details domain.ProducerDetails,
) (*domain.Producer, error) {
	producer, err := domain.NewProducer(details)
	if err != nil {
		return nil, NewServiceError("producer", "create", "invalid producer", err)
	}

	if err := s.producers.Create(ctx, producer); err != nil {
		return nil, NewServiceError("producer", "create", "failed to save producer", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("producer created",
		slog.String("producer_id", producer.ID.String()))
	return producer, nil
}

// GetProducer implements ProducerService.GetProducer
func (s *producerServiceImpl) GetProducer(ctx context.Context, id uuid.UUID) (*domain.Producer, error) {
	producer, err := s.producers.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("producer", "get", "failed to get producer", err)
	}
	return producer, nil
}

// UpdateProducer implements ProducerService.UpdateProducer
func (s *producerServiceImpl) UpdateProducer(
	ctx context.Context,
	id uuid.UUID,
	patch ProducerPatch,
) (*domain.Producer, error) {
	var updated *domain.Producer
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		producers := s.producers.WithTx(tx)

		producer, err := producers.GetByID(ctx, id)
		if err != nil {
			return NewServiceError("producer", "update", "failed to load producer", err)
		}

		if err := producer.Update(patch.apply(producer.Details())); err != nil {
			return NewServiceError("producer", "update", "invalid producer", err)
		}

		if err := producers.Update(ctx, producer); err != nil {
			return NewServiceError("producer", "update", "failed to save producer", err)
		}

		updated = producer
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("producer updated",
		slog.String("producer_id", id.String()))
	return updated, nil
}

// DeleteProducer implements ProducerService.DeleteProducer
func (s *producerServiceImpl) DeleteProducer(ctx context.Context, id uuid.UUID) error {
	if err := s.producers.Delete(ctx, id); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("producer not deleted",
			slog.String("producer_id", id.String()),
			slog.String("error", err.Error()))
		return NewServiceError("producer", "delete", "failed to delete producer", err)
	}
	return nil
}

// ListProducers implements ProducerService.ListProducers
func (s *producerServiceImpl) ListProducers(
	ctx context.Context,
	filter store.ProducerFilter,
	req store.PageRequest,
) (*store.Page[*domain.Producer], error) {
	page, err := store.Paginate[*domain.Producer, store.ProducerFilter](ctx, s.producers, filter, req)
	if err != nil {
		return nil, NewServiceError("producer", "list", "failed to list producers", err)
	}
	return page, nil
}
