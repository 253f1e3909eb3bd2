package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolveCrops(t *testing.T) {
	ctx := context.Background()
	soy, corn := testCrop("Soja"), testCrop("Milho")

	t.Run("empty set skips the lookup", func(t *testing.T) {
		crops := &MockCropStore{}
		got, err := ResolveCrops(ctx, crops, domain.NewCropIDSet())
		require.NoError(t, err)
		assert.Empty(t, got)
		crops.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	})

	t.Run("all found", func(t *testing.T) {
		crops := &MockCropStore{}
		ids := domain.NewCropIDSet(soy.ID, corn.ID)
		crops.On("GetByIDs", mock.Anything, ids.Slice()).Return([]*domain.Crop{corn, soy}, nil)

		got, err := ResolveCrops(ctx, crops, ids)
		require.NoError(t, err)
		assert.ElementsMatch(t, []*domain.Crop{soy, corn}, got)
		crops.AssertNumberOfCalls(t, "GetByIDs", 1)
	})

	t.Run("reports every missing id", func(t *testing.T) {
		crops := &MockCropStore{}
		m1, m2 := uuid.New(), uuid.New()
		crops.On("GetByIDs", mock.Anything, mock.Anything).Return([]*domain.Crop{soy}, nil)

		got, err := ResolveCrops(ctx, crops, domain.NewCropIDSet(soy.ID, m1, m2))
		assert.Nil(t, got)

		var notFound *domain.CropsNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.ElementsMatch(t, []uuid.UUID{m1, m2}, notFound.IDs)
	})

	t.Run("store failure", func(t *testing.T) {
		crops := &MockCropStore{}
		boom := errors.New("connection reset")
		crops.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, boom)

		_, err := ResolveCrops(ctx, crops, domain.NewCropIDSet(soy.ID))
		assert.ErrorIs(t, err, boom)
	})
}

func TestRemoveCrops(t *testing.T) {
	a, b, c := testCrop("Soja"), testCrop("Milho"), testCrop("Cafe")

	tests := []struct {
		name          string
		requested     []uuid.UUID
		wantRemoved   []uuid.UUID
		wantRemaining domain.CropIDSet
		wantErr       error
	}{
		{
			name:          "single associated crop",
			requested:     []uuid.UUID{b.ID},
			wantRemoved:   []uuid.UUID{b.ID},
			wantRemaining: domain.NewCropIDSet(a.ID, c.ID),
		},
		{
			name:          "mix of associated and unknown",
			requested:     []uuid.UUID{a.ID, uuid.New()},
			wantRemoved:   []uuid.UUID{a.ID},
			wantRemaining: domain.NewCropIDSet(b.ID, c.ID),
		},
		{
			name:      "nothing associated",
			requested: []uuid.UUID{uuid.New()},
			wantErr:   domain.ErrNoAssociationFound,
		},
		{
			name:      "empty request",
			requested: nil,
			wantErr:   domain.ErrNoAssociationFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			farm := storedFarm(t, a, b, c)

			removed, err := RemoveCrops(farm, domain.NewCropIDSet(tt.requested...))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, farm.Crops, 3)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRemoved, removed)
			assert.True(t, farm.CropIDs().Equal(tt.wantRemaining))
		})
	}
}
