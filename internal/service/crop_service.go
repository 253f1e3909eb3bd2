package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/platform/logger"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

// CropService provides crop registry operations. Crop names are unique.
type CropService interface {
	CreateCrop(ctx context.Context, name string) (*domain.Crop, error)
	GetCrop(ctx context.Context, id uuid.UUID) (*domain.Crop, error)
	RenameCrop(ctx context.Context, id uuid.UUID, name string) (*domain.Crop, error)
	// DeleteCrop also removes the crop from every farm that grows it.
	DeleteCrop(ctx context.Context, id uuid.UUID) error
	ListCrops(ctx context.Context, filter store.CropFilter, req store.PageRequest) (*store.Page[*domain.Crop], error)
}

type cropServiceImpl struct {
	txRunner store.TxRunner
	crops    store.CropStore
	logger   *slog.Logger
}

// NewCropService creates a new CropService.
func NewCropService(txRunner store.TxRunner, crops store.CropStore, logger *slog.Logger) (CropService, error) {
	if txRunner == nil {
		return nil, domain.NewValidationError("txRunner", "cannot be nil", domain.ErrValidation)
	}
	if crops == nil {
		return nil, domain.NewValidationError("crops", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cropServiceImpl{
		txRunner: txRunner,
		crops:    crops,
		logger:   logger.With(slog.String("component", "crop_service")),
	}, nil
}

// CreateCrop implements CropService.CreateCrop
func (s *cropServiceImpl) CreateCrop(ctx context.Context, name string) (*domain.Crop, error) {
	crop, err := domain.NewCrop(name)
	if err != nil {
		return nil, NewServiceError("crop", "create", "invalid crop", err)
	}

	if err := s.crops.Create(ctx, crop); err != nil {
		return nil, NewServiceError("crop", "create", "failed to save crop", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("crop created",
		slog.String("crop_id", crop.ID.String()),
		slog.String("name", crop.Name))
	return crop, nil
}

// GetCrop implements CropService.GetCrop
func (s *cropServiceImpl) GetCrop(ctx context.Context, id uuid.UUID) (*domain.Crop, error) {
	crop, err := s.crops.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("crop", "get", "failed to get crop", err)
	}
	return crop, nil
}

// RenameCrop implements CropService.RenameCrop
func (s *cropServiceImpl) RenameCrop(ctx context.Context, id uuid.UUID, name string) (*domain.Crop, error) {
	var renamed *domain.Crop
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		crops := s.crops.WithTx(tx)

		crop, err := crops.GetByID(ctx, id)
		if err != nil {
			return NewServiceError("crop", "rename", "failed to load crop", err)
		}

		if err := crop.Rename(name); err != nil {
			return NewServiceError("crop", "rename", "invalid crop name", err)
		}

		if err := crops.Update(ctx, crop); err != nil {
			return NewServiceError("crop", "rename", "failed to save crop", err)
		}

		renamed = crop
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

// DeleteCrop implements CropService.DeleteCrop
func (s *cropServiceImpl) DeleteCrop(ctx context.Context, id uuid.UUID) error {
	if err := s.crops.Delete(ctx, id); err != nil {
		return NewServiceError("crop", "delete", "failed to delete crop", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("crop deleted", slog.String("crop_id", id.String()))
	return nil
}

// ListCrops implements CropService.ListCrops
func (s *cropServiceImpl) ListCrops(
	ctx context.Context,
	filter store.CropFilter,
	req store.PageRequest,
) (*store.Page[*domain.Crop], error) {
	page, err := store.Paginate[*domain.Crop, store.CropFilter](ctx, s.crops, filter, req)
	if err != nil {
		return nil, NewServiceError("crop", "list", "failed to list crops", err)
	}
	return page, nil
}
