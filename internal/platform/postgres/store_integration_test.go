//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/platform/postgres"
	"github.com/phrazzld/agrofarm-api/internal/store"
	"github.com/phrazzld/agrofarm-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProducer(t *testing.T, ctx context.Context, tx *sql.Tx) *domain.Producer {
	t.Helper()
	p, err := domain.NewProducer(domain.ProducerDetails{
		Name:      "Integration Producer",
		CNPJ:      "11222333000181",
		BirthDate: time.Date(1975, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresProducerStore(tx, nil).Create(ctx, p))
	return p
}

func seedCrop(t *testing.T, ctx context.Context, tx *sql.Tx, name string) *domain.Crop {
	t.Helper()
	c, err := domain.NewCrop(name)
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresCropStore(tx, nil).Create(ctx, c))
	return c
}

func TestFarmStoreIntegration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		producer := seedProducer(t, ctx, tx)
		soy := seedCrop(t, ctx, tx, "Soja "+uuid.NewString()[:8])
		corn := seedCrop(t, ctx, tx, "Milho "+uuid.NewString()[:8])
		farms := postgres.NewPostgresFarmStore(tx, nil)

		farm, err := domain.NewFarm("Integration Farm",
			domain.FarmAreas{Total: 100, Arable: 70, Vegetation: 30}, "Sorriso", "MT", producer.ID)
		require.NoError(t, err)
		farm.AttachCrops([]*domain.Crop{soy})
		require.NoError(t, farms.Create(ctx, farm))

		loaded, err := farms.GetByID(ctx, farm.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.Version)
		require.Len(t, loaded.Crops, 1)

		stale := *loaded
		require.NoError(t, farms.UpdateCrops(ctx, loaded, []uuid.UUID{corn.ID}, []uuid.UUID{soy.ID}))
		assert.Equal(t, 2, loaded.Version)

		err = farms.UpdateCrops(ctx, &stale, nil, []uuid.UUID{corn.ID})
		assert.ErrorIs(t, err, store.ErrVersionConflict)

		page, err := store.Paginate[*domain.Farm, store.FarmFilter](ctx, farms,
			store.FarmFilter{CropID: corn.ID}, store.NewPageRequest(1, 10))
		require.NoError(t, err)
		require.Equal(t, 1, page.TotalItems)
		assert.Equal(t, corn.ID, page.Items[0].Crops[0].ID)

		err = postgres.NewPostgresProducerStore(tx, nil).Delete(ctx, producer.ID)
		assert.ErrorIs(t, err, store.ErrProducerHasFarms)
	})
}

func TestCropStoreIntegration_NameUniqueIgnoresCase(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		name := "Cafe " + uuid.NewString()[:8]
		seedCrop(t, ctx, tx, name)

		dup, err := domain.NewCrop(name)
		require.NoError(t, err)
		dup.Name = "CAFE" + name[4:]
		err = postgres.NewPostgresCropStore(tx, nil).Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrCropNameExists)
	})
}
