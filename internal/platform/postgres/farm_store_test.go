package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/platform/postgres"
	"github.com/phrazzld/agrofarm-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var farmRowColumns = []string{
	"id", "name", "total_area", "arable_area", "vegetation_area",
	"city", "state", "producer_id", "version", "created_at", "updated_at",
}

var farmCropRowColumns = []string{"farm_id", "id", "name", "created_at", "updated_at"}

func newTestFarm(t *testing.T) *domain.Farm {
	t.Helper()
	farm, err := domain.NewFarm("Fazenda Boa Vista",
		domain.FarmAreas{Total: 100, Arable: 70, Vegetation: 30},
		"Sorriso", "mt", uuid.New())
	require.NoError(t, err)
	return farm
}

func TestPostgresFarmStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("writes farm and join rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFarmStore(db, discardLogger())
		farm := newTestFarm(t)
		soy := &domain.Crop{ID: uuid.New(), Name: "Soja"}
		corn := &domain.Crop{ID: uuid.New(), Name: "Milho"}
		farm.AttachCrops([]*domain.Crop{soy, corn})
		ids := farm.CropIDs().Slice()

		mock.ExpectExec("INSERT INTO farms ").
			WithArgs(farm.ID, farm.Name, 100.0, 70.0, 30.0, "Sorriso", "MT", farm.ProducerID, 1,
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO farms_crops \(farm_id, crop_id\) VALUES \(\$1, \$2\), \(\$1, \$3\) ON CONFLICT DO NOTHING`).
			WithArgs(farm.ID, ids[0], ids[1]).
			WillReturnResult(sqlmock.NewResult(0, 2))

		require.NoError(t, s.Create(ctx, farm))
	})

	t.Run("unknown producer", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFarmStore(db, discardLogger())

		mock.ExpectExec("INSERT INTO farms ").
			WillReturnError(pgErrorWithConstraint("23503", "farms_producer_id_fkey"))

		assert.ErrorIs(t, s.Create(ctx, newTestFarm(t)), store.ErrProducerNotFound)
	})

	t.Run("invalid composition is rejected before insert", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := postgres.NewPostgresFarmStore(db, discardLogger())
		farm := newTestFarm(t)
		farm.Areas.Vegetation = 31

		assert.ErrorIs(t, s.Create(ctx, farm), domain.ErrInvalidAreaComposition)
	})
}

func TestPostgresFarmStore_GetByID(t *testing.T) {
	ctx := context.Background()
	id, producerID, cropID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()

	t.Run("loads crops", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFarmStore(db, discardLogger())

		mock.ExpectQuery(`FROM farms f WHERE f.id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(farmRowColumns).
				AddRow(id.String(), "Boa Vista", 100.0, 70.0, 30.0, "Sorriso", "MT",
					producerID.String(), 3, now, now))
		mock.ExpectQuery(`FROM farms_crops fc\s+JOIN crops c`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(farmCropRowColumns).
				AddRow(id.String(), cropID.String(), "Soja", now, now))

		farm, err := s.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 3, farm.Version)
		assert.Equal(t, domain.FarmAreas{Total: 100, Arable: 70, Vegetation: 30}, farm.Areas)
		require.Len(t, farm.Crops, 1)
		assert.Equal(t, cropID, farm.Crops[0].ID)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFarmStore(db, discardLogger())

		mock.ExpectQuery(`FROM farms f WHERE f.id = \$1`).WithArgs(id).WillReturnError(sql.ErrNoRows)

		_, err := s.GetByID(ctx, id)
		assert.ErrorIs(t, err, store.ErrFarmNotFound)
	})
}

func TestPostgresFarmStore_UpdateVersioning(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		rows        int64
		exists      bool
		errIs       error
		wantVersion int
	}{
		{name: "applies and advances version", rows: 1, wantVersion: 2},
		{name: "stale version", rows: 0, exists: true, errIs: store.ErrVersionConflict, wantVersion: 1},
		{name: "farm vanished", rows: 0, exists: false, errIs: store.ErrFarmNotFound, wantVersion: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			s := postgres.NewPostgresFarmStore(db, discardLogger())
			farm := newTestFarm(t)

			mock.ExpectExec(`UPDATE farms\s+SET name = \$1`).
				WithArgs(farm.Name, 100.0, 70.0, 30.0, "Sorriso", "MT", farm.ProducerID,
					sqlmock.AnyArg(), farm.ID, 1).
				WillReturnResult(sqlmock.NewResult(0, tt.rows))
			if tt.rows == 0 {
				mock.ExpectQuery(`SELECT EXISTS`).WithArgs(farm.ID).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))
			}

			err := s.Update(ctx, farm)
			if tt.errIs == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.errIs)
			}
			assert.Equal(t, tt.wantVersion, farm.Version)
		})
	}
}

func TestPostgresFarmStore_UpdateCrops(t *testing.T) {
	ctx := context.Background()

	t.Run("removes and adds after claiming the version", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFarmStore(db, discardLogger())
		farm := newTestFarm(t)
		added, removed := uuid.New(), uuid.New()

		mock.ExpectExec(`UPDATE farms SET version = version \+ 1`).
			WithArgs(sqlmock.AnyArg(), farm.ID, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM farms_crops WHERE farm_id = \$1 AND crop_id IN \(\$2\)`).
			WithArgs(farm.ID, removed).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO farms_crops`).
			WithArgs(farm.ID, added).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.UpdateCrops(ctx, farm, []uuid.UUID{added}, []uuid.UUID{removed}))
		assert.Equal(t, 2, farm.Version)
	})

	t.Run("conflict touches no join rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFarmStore(db, discardLogger())
		farm := newTestFarm(t)

		mock.ExpectExec(`UPDATE farms SET version = version \+ 1`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).WithArgs(farm.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := s.UpdateCrops(ctx, farm, []uuid.UUID{uuid.New()}, nil)
		assert.ErrorIs(t, err, store.ErrVersionConflict)
	})

	t.Run("crop deleted concurrently", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFarmStore(db, discardLogger())
		farm := newTestFarm(t)

		mock.ExpectExec(`UPDATE farms SET version = version \+ 1`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO farms_crops`).
			WillReturnError(pgErrorWithConstraint("23503", "farms_crops_crop_id_fkey"))

		err := s.UpdateCrops(ctx, farm, []uuid.UUID{uuid.New()}, nil)
		assert.ErrorIs(t, err, store.ErrCropNotFound)
	})
}

func TestPostgresFarmStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	s := postgres.NewPostgresFarmStore(db, discardLogger())
	producerID, cropID, farmID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	filter := store.FarmFilter{ProducerID: producerID, State: "go", CropID: cropID}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM farms f WHERE f.producer_id = \$1 AND f.state = \$2 AND EXISTS .* fc.crop_id = \$3\)`).
		WithArgs(producerID, "GO", cropID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(`ORDER BY f.name, f.id LIMIT \$4 OFFSET \$5`).
		WithArgs(producerID, "GO", cropID, 5, 10).
		WillReturnRows(sqlmock.NewRows(farmRowColumns).
			AddRow(farmID.String(), "Santa Fe", 50.0, 20.0, 10.0, "Rio Verde", "GO",
				producerID.String(), 1, now, now))
	mock.ExpectQuery(`FROM farms_crops fc`).
		WithArgs(farmID).
		WillReturnRows(sqlmock.NewRows(farmCropRowColumns).
			AddRow(farmID.String(), cropID.String(), "Soja", now, now))

	page, err := store.Paginate[*domain.Farm, store.FarmFilter](ctx, s, filter, store.NewPageRequest(3, 5))
	require.NoError(t, err)
	assert.Equal(t, 11, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)
	require.Len(t, page.Items, 1)
	require.Len(t, page.Items[0].Crops, 1)
	assert.Equal(t, "Soja", page.Items[0].Crops[0].Name)
}
