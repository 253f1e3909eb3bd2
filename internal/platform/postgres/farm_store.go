package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/platform/logger"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

const farmColumns = `f.id, f.name, f.total_area, f.arable_area, f.vegetation_area,
	f.city, f.state, f.producer_id, f.version, f.created_at, f.updated_at`

// PostgresFarmStore implements the store.FarmStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFarmStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFarmStore creates a new PostgreSQL implementation of the FarmStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresFarmStore(db store.DBTX, logger *slog.Logger) *PostgresFarmStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFarmStore{
		db:     db,
		logger: logger.With(slog.String("component", "farm_store")),
	}
}

// Ensure PostgresFarmStore implements store.FarmStore interface
var _ store.FarmStore = (*PostgresFarmStore)(nil)

// WithTx implements store.FarmStore.WithTx
func (s *PostgresFarmStore) WithTx(tx *sql.Tx) store.FarmStore {
	return &PostgresFarmStore{db: tx, logger: s.logger}
}

// Create implements store.FarmStore.Create
func (s *PostgresFarmStore) Create(ctx context.Context, farm *domain.Farm) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("farm_id", farm.ID.String()))

	if err := farm.Validate(); err != nil {
		log.Warn("invalid farm data", slog.String("error", err.Error()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO farms (id, name, total_area, arable_area, vegetation_area,
			city, state, producer_id, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		farm.ID,
		farm.Name,
		farm.Areas.Total,
		farm.Areas.Arable,
		farm.Areas.Vegetation,
		farm.City,
		farm.State,
		farm.ProducerID,
		farm.Version,
		farm.CreatedAt,
		farm.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert farm", slog.String("error", err.Error()))
		return s.mapWriteError("create", err)
	}

	if err := s.insertCropLinks(ctx, farm.ID, farm.CropIDs().Slice()); err != nil {
		log.Error("failed to link farm crops", slog.String("error", err.Error()))
		return err
	}

	log.Debug("farm created", slog.Int("crop_count", len(farm.Crops)))
	return nil
}

// GetByID implements store.FarmStore.GetByID
func (s *PostgresFarmStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Farm, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, `SELECT `+farmColumns+` FROM farms f WHERE f.id = $1`, id)
	farm, err := scanFarm(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("farm not found", slog.String("farm_id", id.String()))
			return nil, store.ErrFarmNotFound
		}
		log.Error("failed to get farm",
			slog.String("farm_id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("farm", "get", "failed to query farm", MapError(err))
	}

	if err := s.loadCrops(ctx, []*domain.Farm{farm}); err != nil {
		return nil, err
	}

	return farm, nil
}

// Update implements store.FarmStore.Update
func (s *PostgresFarmStore) Update(ctx context.Context, farm *domain.Farm) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("farm_id", farm.ID.String()))

	if err := farm.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE farms
		SET name = $1, total_area = $2, arable_area = $3, vegetation_area = $4,
		    city = $5, state = $6, producer_id = $7,
		    version = version + 1, updated_at = $8
		WHERE id = $9 AND version = $10`,
		farm.Name,
		farm.Areas.Total,
		farm.Areas.Arable,
		farm.Areas.Vegetation,
		farm.City,
		farm.State,
		farm.ProducerID,
		now,
		farm.ID,
		farm.Version,
	)
	if err != nil {
		log.Error("failed to update farm", slog.String("error", err.Error()))
		return s.mapWriteError("update", err)
	}

	if err := s.checkVersionedWrite(ctx, result, farm.ID); err != nil {
		log.Warn("farm update rejected", slog.String("error", err.Error()))
		return err
	}

	farm.Version++
	farm.UpdatedAt = now
	return nil
}

// UpdateCrops implements store.FarmStore.UpdateCrops
func (s *PostgresFarmStore) UpdateCrops(
	ctx context.Context,
	farm *domain.Farm,
	added, removed []uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("farm_id", farm.ID.String()))

	// Claim the version first so a concurrent writer fails before any join
	// row is touched.
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE farms SET version = version + 1, updated_at = $1
		WHERE id = $2 AND version = $3`,
		now, farm.ID, farm.Version)
	if err != nil {
		log.Error("failed to bump farm version", slog.String("error", err.Error()))
		return store.NewStoreError("farm", "update_crops", "failed to update farm version", MapError(err))
	}
	if err := s.checkVersionedWrite(ctx, result, farm.ID); err != nil {
		log.Warn("farm crop update rejected", slog.String("error", err.Error()))
		return err
	}

	if len(removed) > 0 {
		placeholders, args := inPlaceholders(2, removed)
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM farms_crops WHERE farm_id = $1 AND crop_id IN (`+placeholders+`)`,
			append([]any{farm.ID}, args...)...)
		if err != nil {
			log.Error("failed to unlink farm crops", slog.String("error", err.Error()))
			return store.NewStoreError("farm", "update_crops", "failed to remove crop associations", MapError(err))
		}
	}

	if err := s.insertCropLinks(ctx, farm.ID, added); err != nil {
		log.Error("failed to link farm crops", slog.String("error", err.Error()))
		return err
	}

	farm.Version++
	farm.UpdatedAt = now
	log.Debug("farm crops updated",
		slog.Int("added", len(added)),
		slog.Int("removed", len(removed)))
	return nil
}

// Delete implements store.FarmStore.Delete
func (s *PostgresFarmStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM farms WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete farm",
			slog.String("farm_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("farm", "delete", "failed to delete farm", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrFarmNotFound)
}

// Count implements store.FarmStore.Count
func (s *PostgresFarmStore) Count(ctx context.Context, filter store.FarmFilter) (int, error) {
	where := farmWhere(filter)

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM farms f`+where.clause(), where.args...).Scan(&total); err != nil {
		return 0, store.NewStoreError("farm", "count", "failed to count farms", MapError(err))
	}
	return total, nil
}

// List implements store.FarmStore.List
func (s *PostgresFarmStore) List(
	ctx context.Context,
	filter store.FarmFilter,
	limit, offset int,
) ([]*domain.Farm, error) {
	where := farmWhere(filter)
	page, args := where.page(limit, offset)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+farmColumns+` FROM farms f`+where.clause()+` ORDER BY f.name, f.id`+page,
		args...)
	if err != nil {
		return nil, store.NewStoreError("farm", "list", "failed to query farms", MapError(err))
	}

	farms := []*domain.Farm{}
	for rows.Next() {
		farm, err := scanFarm(rows)
		if err != nil {
			_ = rows.Close()
			return nil, store.NewStoreError("farm", "list", "failed to scan farm", err)
		}
		farms = append(farms, farm)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, store.NewStoreError("farm", "list", "failed to iterate farms", err)
	}
	// Close before issuing the crop query; a transaction runs one statement
	// at a time.
	if err := rows.Close(); err != nil {
		return nil, store.NewStoreError("farm", "list", "failed to close rows", err)
	}

	if err := s.loadCrops(ctx, farms); err != nil {
		return nil, err
	}

	return farms, nil
}

// insertCropLinks writes one join row per crop id in a single statement.
func (s *PostgresFarmStore) insertCropLinks(ctx context.Context, farmID uuid.UUID, cropIDs []uuid.UUID) error {
	if len(cropIDs) == 0 {
		return nil
	}

	values := make([]string, len(cropIDs))
	args := make([]any, 0, len(cropIDs)+1)
	args = append(args, farmID)
	for i, id := range cropIDs {
		values[i] = fmt.Sprintf("($1, $%d)", i+2)
		args = append(args, id)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO farms_crops (farm_id, crop_id) VALUES `+strings.Join(values, ", ")+
			` ON CONFLICT DO NOTHING`,
		args...)
	if err != nil {
		return store.NewStoreError("farm", "link_crops", "failed to insert crop associations", MapError(err))
	}
	return nil
}

// loadCrops fills the Crops field of every farm with one query.
func (s *PostgresFarmStore) loadCrops(ctx context.Context, farms []*domain.Farm) error {
	if len(farms) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Farm, len(farms))
	ids := make([]uuid.UUID, 0, len(farms))
	for _, f := range farms {
		f.Crops = []*domain.Crop{}
		byID[f.ID] = f
		ids = append(ids, f.ID)
	}

	placeholders, args := inPlaceholders(1, ids)
	rows, err := s.db.QueryContext(ctx, `
		SELECT fc.farm_id, c.id, c.name, c.created_at, c.updated_at
		FROM farms_crops fc
		JOIN crops c ON c.id = fc.crop_id
		WHERE fc.farm_id IN (`+placeholders+`)
		ORDER BY c.name, c.id`,
		args...)
	if err != nil {
		return store.NewStoreError("farm", "load_crops", "failed to query farm crops", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			farmID uuid.UUID
			c      domain.Crop
		)
		if err := rows.Scan(&farmID, &c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return store.NewStoreError("farm", "load_crops", "failed to scan farm crop", err)
		}
		if f, ok := byID[farmID]; ok {
			f.Crops = append(f.Crops, &c)
		}
	}
	if err := rows.Err(); err != nil {
		return store.NewStoreError("farm", "load_crops", "failed to iterate farm crops", err)
	}
	return nil
}

// checkVersionedWrite distinguishes a missing farm from a stale version when
// a versioned write touched no rows.
func (s *PostgresFarmStore) checkVersionedWrite(ctx context.Context, result sql.Result, id uuid.UUID) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM farms WHERE id = $1)`, id).Scan(&exists); err != nil {
		return store.NewStoreError("farm", "version_check", "failed to check farm existence", MapError(err))
	}
	if !exists {
		return store.ErrFarmNotFound
	}
	return store.ErrVersionConflict
}

func (s *PostgresFarmStore) mapWriteError(operation string, err error) error {
	return store.NewStoreError("farm", operation, "failed to write farm", MapError(err))
}

func farmWhere(filter store.FarmFilter) *whereBuilder {
	where := &whereBuilder{}
	if filter.ProducerID != uuid.Nil {
		where.add(`f.producer_id = $%d`, filter.ProducerID)
	}
	if filter.State != "" {
		where.add(`f.state = $%d`, strings.ToUpper(filter.State))
	}
	if filter.CropID != uuid.Nil {
		where.add(`EXISTS (SELECT 1 FROM farms_crops fc WHERE fc.farm_id = f.id AND fc.crop_id = $%d)`,
			filter.CropID)
	}
	return where
}

func scanFarm(row rowScanner) (*domain.Farm, error) {
	var f domain.Farm
	if err := row.Scan(
		&f.ID, &f.Name, &f.Areas.Total, &f.Areas.Arable, &f.Areas.Vegetation,
		&f.City, &f.State, &f.ProducerID, &f.Version, &f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	f.Crops = []*domain.Crop{}
	return &f, nil
}
