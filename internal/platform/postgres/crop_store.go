package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/platform/logger"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

const cropColumns = `id, name, created_at, updated_at`

// PostgresCropStore implements the store.CropStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCropStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCropStore creates a new PostgreSQL implementation of the CropStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCropStore(db store.DBTX, logger *slog.Logger) *PostgresCropStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCropStore{
		db:     db,
		logger: logger.With(slog.String("component", "crop_store")),
	}
}

// Ensure PostgresCropStore implements store.CropStore interface
var _ store.CropStore = (*PostgresCropStore)(nil)

// WithTx implements store.CropStore.WithTx
func (s *PostgresCropStore) WithTx(tx *sql.Tx) store.CropStore {
	return &PostgresCropStore{db: tx, logger: s.logger}
}

// Create implements store.CropStore.Create
func (s *PostgresCropStore) Create(ctx context.Context, crop *domain.Crop) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := crop.Validate(); err != nil {
		log.Warn("invalid crop data", slog.String("error", err.Error()))
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO crops (`+cropColumns+`) VALUES ($1, $2, $3, $4)`,
		crop.ID, crop.Name, crop.CreatedAt, crop.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("crop name already exists", slog.String("name", crop.Name))
		} else {
			log.Error("failed to insert crop",
				slog.String("crop_id", crop.ID.String()),
				slog.String("error", err.Error()))
		}
		return store.NewStoreError("crop", "create", "failed to insert crop", MapError(err))
	}

	log.Debug("crop created", slog.String("crop_id", crop.ID.String()))
	return nil
}

// GetByID implements store.CropStore.GetByID
func (s *PostgresCropStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Crop, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cropColumns+` FROM crops WHERE id = $1`, id)

	crop, err := scanCrop(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCropNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get crop",
			slog.String("crop_id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("crop", "get", "failed to query crop", MapError(err))
	}

	return crop, nil
}

// GetByIDs implements store.CropStore.GetByIDs
func (s *PostgresCropStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Crop, error) {
	if len(ids) == 0 {
		return []*domain.Crop{}, nil
	}

	placeholders, args := inPlaceholders(1, ids)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cropColumns+` FROM crops WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to batch load crops",
			slog.Int("requested", len(ids)),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("crop", "get", "failed to query crops", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	return scanCrops(rows)
}

// Update implements store.CropStore.Update
func (s *PostgresCropStore) Update(ctx context.Context, crop *domain.Crop) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := crop.Validate(); err != nil {
		return err
	}

	crop.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE crops SET name = $1, updated_at = $2 WHERE id = $3`,
		crop.Name, crop.UpdatedAt, crop.ID)
	if err != nil {
		log.Error("failed to update crop",
			slog.String("crop_id", crop.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("crop", "update", "failed to update crop", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrCropNotFound)
}

// Delete implements store.CropStore.Delete
func (s *PostgresCropStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM crops WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete crop",
			slog.String("crop_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("crop", "delete", "failed to delete crop", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrCropNotFound)
}

// Count implements store.CropStore.Count
func (s *PostgresCropStore) Count(ctx context.Context, filter store.CropFilter) (int, error) {
	where := cropWhere(filter)

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM crops`+where.clause(), where.args...).Scan(&total); err != nil {
		return 0, store.NewStoreError("crop", "count", "failed to count crops", MapError(err))
	}
	return total, nil
}

// List implements store.CropStore.List
func (s *PostgresCropStore) List(
	ctx context.Context,
	filter store.CropFilter,
	limit, offset int,
) ([]*domain.Crop, error) {
	where := cropWhere(filter)
	page, args := where.page(limit, offset)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cropColumns+` FROM crops`+where.clause()+` ORDER BY name, id`+page,
		args...)
	if err != nil {
		return nil, store.NewStoreError("crop", "list", "failed to query crops", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	return scanCrops(rows)
}

func cropWhere(filter store.CropFilter) *whereBuilder {
	where := &whereBuilder{}
	if filter.Name != "" {
		where.add(`name ILIKE $%d`, containsPattern(filter.Name))
	}
	return where
}

func scanCrop(row rowScanner) (*domain.Crop, error) {
	var c domain.Crop
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCrops(rows *sql.Rows) ([]*domain.Crop, error) {
	crops := []*domain.Crop{}
	for rows.Next() {
		crop, err := scanCrop(rows)
		if err != nil {
			return nil, store.NewStoreError("crop", "list", "failed to scan crop", err)
		}
		crops = append(crops, crop)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("crop", "list", "failed to iterate crops", err)
	}
	return crops, nil
}
