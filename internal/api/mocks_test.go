package api

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/config"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/service"
	"github.com/phrazzld/agrofarm-api/internal/store"
	"github.com/stretchr/testify/mock"
)

var testPagination = config.PaginationConfig{DefaultSize: 10, MaxSize: 50}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockFarmService mocks the service.FarmService interface
type MockFarmService struct {
	mock.Mock
}

func (m *MockFarmService) CreateFarm(ctx context.Context, input service.CreateFarmInput) (*domain.Farm, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Farm), args.Error(1)
}

func (m *MockFarmService) GetFarm(ctx context.Context, id uuid.UUID) (*domain.Farm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Farm), args.Error(1)
}

func (m *MockFarmService) UpdateFarm(
	ctx context.Context,
	id uuid.UUID,
	input service.UpdateFarmInput,
) (*domain.Farm, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Farm), args.Error(1)
}

func (m *MockFarmService) DeleteFarm(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFarmService) ListFarms(
	ctx context.Context,
	filter store.FarmFilter,
	req store.PageRequest,
) (*store.Page[*domain.Farm], error) {
	args := m.Called(ctx, filter, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Page[*domain.Farm]), args.Error(1)
}

func (m *MockFarmService) AddCropsToFarm(
	ctx context.Context,
	farmID uuid.UUID,
	cropIDs []uuid.UUID,
) (*domain.Farm, error) {
	args := m.Called(ctx, farmID, cropIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Farm), args.Error(1)
}

func (m *MockFarmService) RemoveCropsFromFarm(ctx context.Context, farmID uuid.UUID, cropIDs []uuid.UUID) error {
	return m.Called(ctx, farmID, cropIDs).Error(0)
}

// MockProducerService mocks the service.ProducerService interface
type MockProducerService struct {
	mock.Mock
}

func (m *MockProducerService) CreateProducer(
	ctx context.Context,
	details domain.ProducerDetails,
) (*domain.Producer, error) {
	args := m.Called(ctx, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Producer), args.Error(1)
}

func (m *MockProducerService) GetProducer(ctx context.Context, id uuid.UUID) (*domain.Producer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Producer), args.Error(1)
}

func (m *MockProducerService) UpdateProducer(
	ctx context.Context,
	id uuid.UUID,
	patch service.ProducerPatch,
) (*domain.Producer, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Producer), args.Error(1)
}

func (m *MockProducerService) DeleteProducer(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProducerService) ListProducers(
	ctx context.Context,
	filter store.ProducerFilter,
	req store.PageRequest,
) (*store.Page[*domain.Producer], error) {
	args := m.Called(ctx, filter, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Page[*domain.Producer]), args.Error(1)
}

// MockCropService mocks the service.CropService interface
type MockCropService struct {
	mock.Mock
}

func (m *MockCropService) CreateCrop(ctx context.Context, name string) (*domain.Crop, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Crop), args.Error(1)
}

func (m *MockCropService) GetCrop(ctx context.Context, id uuid.UUID) (*domain.Crop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Crop), args.Error(1)
}

func (m *MockCropService) RenameCrop(ctx context.Context, id uuid.UUID, name string) (*domain.Crop, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Crop), args.Error(1)
}

func (m *MockCropService) DeleteCrop(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCropService) ListCrops(
	ctx context.Context,
	filter store.CropFilter,
	req store.PageRequest,
) (*store.Page[*domain.Crop], error) {
	args := m.Called(ctx, filter, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Page[*domain.Crop]), args.Error(1)
}

// newTestRouter mounts the handlers on the same paths the server uses.
func newTestRouter(farms service.FarmService, producers service.ProducerService, crops service.CropService) chi.Router {
	r := chi.NewRouter()
	log := discardLogger()

	if producers != nil {
		h := NewProducerHandler(producers, testPagination, log)
		r.Post("/api/producers", h.CreateProducer)
		r.Get("/api/producers", h.ListProducers)
		r.Get("/api/producers/{id}", h.GetProducer)
		r.Put("/api/producers/{id}", h.UpdateProducer)
		r.Delete("/api/producers/{id}", h.DeleteProducer)
	}
	if crops != nil {
		h := NewCropHandler(crops, testPagination, log)
		r.Post("/api/crops", h.CreateCrop)
		r.Get("/api/crops", h.ListCrops)
		r.Get("/api/crops/{id}", h.GetCrop)
		r.Put("/api/crops/{id}", h.RenameCrop)
		r.Delete("/api/crops/{id}", h.DeleteCrop)
	}
	if farms != nil {
		h := NewFarmHandler(farms, testPagination, log)
		r.Post("/api/farms", h.CreateFarm)
		r.Get("/api/farms", h.ListFarms)
		r.Get("/api/farms/{id}", h.GetFarm)
		r.Put("/api/farms/{id}", h.UpdateFarm)
		r.Delete("/api/farms/{id}", h.DeleteFarm)
		r.Post("/api/farms/{id}/crops", h.AddCrops)
		r.Delete("/api/farms/{id}/crops", h.RemoveCrops)
	}
	return r
}
