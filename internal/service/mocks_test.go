package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// fakeTxRunner runs the function directly with a nil transaction. The mock
// stores ignore the transaction, so WithTx returns the same mock.
type fakeTxRunner struct {
	calls int
}

func (r *fakeTxRunner) RunInTx(ctx context.Context, fn store.TxFn) error {
	r.calls++
	return fn(ctx, nil)
}

// MockFarmStore mocks the store.FarmStore interface
type MockFarmStore struct {
	mock.Mock
}

func (m *MockFarmStore) Create(ctx context.Context, farm *domain.Farm) error {
	return m.Called(ctx, farm).Error(0)
}

func (m *MockFarmStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Farm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Farm), args.Error(1)
}

func (m *MockFarmStore) Update(ctx context.Context, farm *domain.Farm) error {
	return m.Called(ctx, farm).Error(0)
}

func (m *MockFarmStore) UpdateCrops(
	ctx context.Context,
	farm *domain.Farm,
	added, removed []uuid.UUID,
) error {
	return m.Called(ctx, farm, added, removed).Error(0)
}

func (m *MockFarmStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFarmStore) Count(ctx context.Context, filter store.FarmFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockFarmStore) List(
	ctx context.Context,
	filter store.FarmFilter,
	limit, offset int,
) ([]*domain.Farm, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Farm), args.Error(1)
}

func (m *MockFarmStore) WithTx(tx *sql.Tx) store.FarmStore {
	return m
}

// MockProducerStore mocks the store.ProducerStore interface
type MockProducerStore struct {
	mock.Mock
}

func (m *MockProducerStore) Create(ctx context.Context, producer *domain.Producer) error {
	return m.Called(ctx, producer).Error(0)
}

func (m *MockProducerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Producer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Producer), args.Error(1)
}

func (m *MockProducerStore) Update(ctx context.Context, producer *domain.Producer) error {
	return m.Called(ctx, producer).Error(0)
}

func (m *MockProducerStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProducerStore) Count(ctx context.Context, filter store.ProducerFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockProducerStore) List(
	ctx context.Context,
	filter store.ProducerFilter,
	limit, offset int,
) ([]*domain.Producer, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Producer), args.Error(1)
}

func (m *MockProducerStore) WithTx(tx *sql.Tx) store.ProducerStore {
	return m
}

// MockCropStore mocks the store.CropStore interface
type MockCropStore struct {
	mock.Mock
}

func (m *MockCropStore) Create(ctx context.Context, crop *domain.Crop) error {
	return m.Called(ctx, crop).Error(0)
}

func (m *MockCropStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Crop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Crop), args.Error(1)
}

func (m *MockCropStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Crop, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Crop), args.Error(1)
}

func (m *MockCropStore) Update(ctx context.Context, crop *domain.Crop) error {
	return m.Called(ctx, crop).Error(0)
}

func (m *MockCropStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCropStore) Count(ctx context.Context, filter store.CropFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockCropStore) List(
	ctx context.Context,
	filter store.CropFilter,
	limit, offset int,
) ([]*domain.Crop, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Crop), args.Error(1)
}

func (m *MockCropStore) WithTx(tx *sql.Tx) store.CropStore {
	return m
}
