package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/platform/logger"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

// CreateFarmInput carries the fields of a new farm.
type CreateFarmInput struct {
	Name       string
	Areas      domain.FarmAreas
	City       string
	State      string
	ProducerID uuid.UUID
	// CropIDs is the optional initial crop set. Duplicates collapse.
	CropIDs []uuid.UUID
}

// UpdateFarmInput is a partial farm update. Nil fields keep the stored value.
type UpdateFarmInput struct {
	Name       *string
	City       *string
	State      *string
	ProducerID *uuid.UUID
	Areas      domain.AreaPatch
	// Version, when set, must equal the stored version.
	Version *int
}

// FarmService provides farm aggregate operations.
type FarmService interface {
	// CreateFarm resolves the producer and initial crops, validates the farm
	// and persists it with its associations.
	CreateFarm(ctx context.Context, input CreateFarmInput) (*domain.Farm, error)

	// GetFarm retrieves a farm with its crops.
	GetFarm(ctx context.Context, id uuid.UUID) (*domain.Farm, error)

	// UpdateFarm merges input over the stored farm, validates the merged
	// result and persists it.
	UpdateFarm(ctx context.Context, id uuid.UUID, input UpdateFarmInput) (*domain.Farm, error)

	// DeleteFarm removes a farm and its crop associations.
	DeleteFarm(ctx context.Context, id uuid.UUID) error

	// ListFarms returns one page of farms matching filter.
	ListFarms(ctx context.Context, filter store.FarmFilter, req store.PageRequest) (*store.Page[*domain.Farm], error)

	// AddCropsToFarm associates crops with a farm and returns the updated farm.
	AddCropsToFarm(ctx context.Context, farmID uuid.UUID, cropIDs []uuid.UUID) (*domain.Farm, error)

	// RemoveCropsFromFarm dissociates crops from a farm.
	RemoveCropsFromFarm(ctx context.Context, farmID uuid.UUID, cropIDs []uuid.UUID) error
}

// farmServiceImpl implements the FarmService interface
type farmServiceImpl struct {
	txRunner  store.TxRunner
	farms     store.FarmStore
	producers store.ProducerStore
	crops     store.CropStore
	logger    *slog.Logger
}

// NewFarmService creates a new FarmService.
// It returns an error if any of the required dependencies are nil.
func NewFarmService(
	txRunner store.TxRunner,
	farms store.FarmStore,
	producers store.ProducerStore,
	crops store.CropStore,
	logger *slog.Logger,
) (FarmService, error) {
	if txRunner == nil {
		return nil, domain.NewValidationError("txRunner", "cannot be nil", domain.ErrValidation)
	}
	if farms == nil {
		return nil, domain.NewValidationError("farms", "cannot be nil", domain.ErrValidation)
	}
	if producers == nil {
		return nil, domain.NewValidationError("producers", "cannot be nil", domain.ErrValidation)
	}
	if crops == nil {
		return nil, domain.NewValidationError("crops", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &farmServiceImpl{
		txRunner:  txRunner,
		farms:     farms,
		producers: producers,
		crops:     crops,
		logger:    logger.With(slog.String("component", "farm_service")),
	}, nil
}

// CreateFarm implements FarmService.CreateFarm
func (s *farmServiceImpl) CreateFarm(ctx context.Context, input CreateFarmInput) (*domain.Farm, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var created *domain.Farm
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.producers.WithTx(tx).GetByID(ctx, input.ProducerID); err != nil {
			log.Warn("producer not resolved",
				slog.String("producer_id", input.ProducerID.String()),
				slog.String("error", err.Error()))
			return NewServiceError("farm", "create", "failed to resolve producer", err)
		}

		crops, err := ResolveCrops(ctx, s.crops.WithTx(tx), domain.NewCropIDSet(input.CropIDs...))
		if err != nil {
			log.Warn("initial crops not resolved", slog.String("error", err.Error()))
			return NewServiceError("farm", "create", "failed to resolve crops", err)
		}

		farm, err := domain.NewFarm(input.Name, input.Areas, input.City, input.State, input.ProducerID)
		if err != nil {
			return NewServiceError("farm", "create", "invalid farm", err)
		}
		farm.AttachCrops(crops)

		if err := s.farms.WithTx(tx).Create(ctx, farm); err != nil {
			log.Error("failed to save farm", slog.String("error", err.Error()))
			return NewServiceError("farm", "create", "failed to save farm", err)
		}

		created = farm
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("farm created",
		slog.String("farm_id", created.ID.String()),
		slog.String("producer_id", created.ProducerID.String()),
		slog.Int("crop_count", len(created.Crops)))
	return created, nil
}

// GetFarm implements FarmService.GetFarm
func (s *farmServiceImpl) GetFarm(ctx context.Context, id uuid.UUID) (*domain.Farm, error) {
	farm, err := s.farms.GetByID(ctx, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("failed to get farm",
			slog.String("farm_id", id.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("farm", "get", "failed to get farm", err)
	}
	return farm, nil
}

// UpdateFarm implements FarmService.UpdateFarm
func (s *farmServiceImpl) UpdateFarm(ctx context.Context, id uuid.UUID, input UpdateFarmInput) (*domain.Farm, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("farm_id", id.String()))

	var updated *domain.Farm
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		farms := s.farms.WithTx(tx)

		farm, err := farms.GetByID(ctx, id)
		if err != nil {
			return NewServiceError("farm", "update", "failed to load farm", err)
		}

		if input.Version != nil && *input.Version != farm.Version {
			log.Warn("stale farm version in request",
				slog.Int("requested_version", *input.Version),
				slog.Int("stored_version", farm.Version))
			return NewServiceError("farm", "update", "farm version mismatch", store.ErrVersionConflict)
		}

		if input.ProducerID != nil && *input.ProducerID != farm.ProducerID {
			if _, err := s.producers.WithTx(tx).GetByID(ctx, *input.ProducerID); err != nil {
				return NewServiceError("farm", "update", "failed to resolve producer", err)
			}
			farm.ProducerID = *input.ProducerID
		}

		if input.Name != nil {
			farm.Name = strings.TrimSpace(*input.Name)
		}
		if input.City != nil {
			farm.City = strings.TrimSpace(*input.City)
		}
		if input.State != nil {
			farm.State = strings.ToUpper(strings.TrimSpace(*input.State))
		}

		// Omitted areas take the stored values, and the merged result is
		// what gets validated.
		farm.Areas = input.Areas.Merge(farm.Areas)

		if err := farm.Validate(); err != nil {
			log.Warn("farm update rejected", slog.String("error", err.Error()))
			return NewServiceError("farm", "update", "invalid farm", err)
		}

		if err := farms.Update(ctx, farm); err != nil {
			return NewServiceError("farm", "update", "failed to save farm", err)
		}

		updated = farm
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("farm updated", slog.Int("version", updated.Version))
	return updated, nil
}

// DeleteFarm implements FarmService.DeleteFarm
func (s *farmServiceImpl) DeleteFarm(ctx context.Context, id uuid.UUID) error {
	if err := s.farms.Delete(ctx, id); err != nil {
		return NewServiceError("farm", "delete", "failed to delete farm", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("farm deleted", slog.String("farm_id", id.String()))
	return nil
}

// ListFarms implements FarmService.ListFarms
func (s *farmServiceImpl) ListFarms(
	ctx context.Context,
	filter store.FarmFilter,
	req store.PageRequest,
) (*store.Page[*domain.Farm], error) {
	page, err := store.Paginate[*domain.Farm, store.FarmFilter](ctx, s.farms, filter, req)
	if err != nil {
		return nil, NewServiceError("farm", "list", "failed to list farms", err)
	}
	return page, nil
}

// AddCropsToFarm implements FarmService.AddCropsToFarm
func (s *farmServiceImpl) AddCropsToFarm(
	ctx context.Context,
	farmID uuid.UUID,
	cropIDs []uuid.UUID,
) (*domain.Farm, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("farm_id", farmID.String()))

	var updated *domain.Farm
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		farms := s.farms.WithTx(tx)

		farm, err := farms.GetByID(ctx, farmID)
		if err != nil {
			return NewServiceError("farm", "add_crops", "failed to load farm", err)
		}

		added, err := AddCrops(ctx, s.crops.WithTx(tx), farm, domain.NewCropIDSet(cropIDs...))
		if err != nil {
			log.Warn("crop addition rejected", slog.String("error", err.Error()))
			return NewServiceError("farm", "add_crops", "cannot add crops", err)
		}

		if err := farms.UpdateCrops(ctx, farm, cropIDsOf(added), nil); err != nil {
			return NewServiceError("farm", "add_crops", "failed to save crop associations", err)
		}

		log.Info("crops added to farm", slog.Int("added", len(added)))
		updated = farm
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// RemoveCropsFromFarm implements FarmService.RemoveCropsFromFarm
func (s *farmServiceImpl) RemoveCropsFromFarm(ctx context.Context, farmID uuid.UUID, cropIDs []uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("farm_id", farmID.String()))

	return s.txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		farms := s.farms.WithTx(tx)

		farm, err := farms.GetByID(ctx, farmID)
		if err != nil {
			return NewServiceError("farm", "remove_crops", "failed to load farm", err)
		}

		removed, err := RemoveCrops(farm, domain.NewCropIDSet(cropIDs...))
		if err != nil {
			log.Warn("crop removal rejected", slog.String("error", err.Error()))
			return NewServiceError("farm", "remove_crops", "cannot remove crops", err)
		}

		if err := farms.UpdateCrops(ctx, farm, nil, removed); err != nil {
			return NewServiceError("farm", "remove_crops", "failed to save crop associations", err)
		}

		log.Info("crops removed from farm", slog.Int("removed", len(removed)))
		return nil
	})
}
