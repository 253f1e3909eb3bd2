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

const producerColumns = `id, name, cpf, cnpj, email, phone, birth_date, created_at, updated_at`

// PostgresProducerStore implements the store.ProducerStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProducerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProducerStore creates a new PostgreSQL implementation of the ProducerStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProducerStore(db store.DBTX, logger *slog.Logger) *PostgresProducerStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProducerStore{
		db:     db,
		logger: logger.With(slog.String("component", "producer_store")),
	}
}

// Ensure PostgresProducerStore implements store.ProducerStore interface
var _ store.ProducerStore = (*PostgresProducerStore)(nil)

// WithTx implements store.ProducerStore.WithTx
func (s *PostgresProducerStore) WithTx(tx *sql.Tx) store.ProducerStore {
	return &PostgresProducerStore{db: tx, logger: s.logger}
}

// Create implements store.ProducerStore.Create
func (s *PostgresProducerStore) Create(ctx context.Context, producer *domain.Producer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := producer.Validate(); err != nil {
		log.Warn("invalid producer data", slog.String("error", err.Error()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO producers (`+producerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		producer.ID,
		producer.Name,
		nullString(producer.CPF),
		nullString(producer.CNPJ),
		producer.Email,
		producer.Phone,
		producer.BirthDate,
		producer.CreatedAt,
		producer.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert producer",
			slog.String("producer_id", producer.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("producer", "create", "failed to insert producer",
			MapError(err))
	}

	log.Debug("producer created", slog.String("producer_id", producer.ID.String()))
	return nil
}

// GetByID implements store.ProducerStore.GetByID
func (s *PostgresProducerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Producer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+producerColumns+` FROM producers WHERE id = $1`, id)

	producer, err := scanProducer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("producer not found", slog.String("producer_id", id.String()))
			return nil, store.ErrProducerNotFound
		}
		log.Error("failed to get producer",
			slog.String("producer_id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("producer", "get", "failed to query producer", MapError(err))
	}

	return producer, nil
}

// Update implements store.ProducerStore.Update
func (s *PostgresProducerStore) Update(ctx context.Context, producer *domain.Producer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := producer.Validate(); err != nil {
		return err
	}

	producer.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE producers
		SET name = $1, cpf = $2, cnpj = $3, email = $4, phone = $5,
		    birth_date = $6, updated_at = $7
		WHERE id = $8`,
		producer.Name,
		nullString(producer.CPF),
		nullString(producer.CNPJ),
		producer.Email,
		producer.Phone,
		producer.BirthDate,
		producer.UpdatedAt,
		producer.ID,
	)
	if err != nil {
		log.Error("failed to update producer",
			slog.String("producer_id", producer.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("producer", "update", "failed to update producer",
			MapError(err))
	}

	return CheckRowsAffected(result, store.ErrProducerNotFound)
}

// Delete implements store.ProducerStore.Delete
func (s *PostgresProducerStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM producers WHERE id = $1`, id)
	if err != nil {
		if isProducerStillReferenced(err) {
			log.Warn("producer still owns farms", slog.String("producer_id", id.String()))
			return store.ErrProducerHasFarms
		}
		log.Error("failed to delete producer",
			slog.String("producer_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("producer", "delete", "failed to delete producer", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrProducerNotFound); err != nil {
		return err
	}

	log.Debug("producer deleted", slog.String("producer_id", id.String()))
	return nil
}

// Count implements store.ProducerStore.Count
func (s *PostgresProducerStore) Count(ctx context.Context, filter store.ProducerFilter) (int, error) {
	where := producerWhere(filter)

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM producers`+where.clause(), where.args...).Scan(&total); err != nil {
		return 0, store.NewStoreError("producer", "count", "failed to count producers", MapError(err))
	}
	return total, nil
}

// List implements store.ProducerStore.List
func (s *PostgresProducerStore) List(
	ctx context.Context,
	filter store.ProducerFilter,
	limit, offset int,
) ([]*domain.Producer, error) {
	where := producerWhere(filter)
	page, args := where.page(limit, offset)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+producerColumns+` FROM producers`+where.clause()+` ORDER BY name, id`+page,
		args...)
	if err != nil {
		return nil, store.NewStoreError("producer", "list", "failed to query producers", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	producers := []*domain.Producer{}
	for rows.Next() {
		producer, err := scanProducer(rows)
		if err != nil {
			return nil, store.NewStoreError("producer", "list", "failed to scan producer", err)
		}
		producers = append(producers, producer)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("producer", "list", "failed to iterate producers", err)
	}

	return producers, nil
}

func producerWhere(filter store.ProducerFilter) *whereBuilder {
	where := &whereBuilder{}
	if filter.Name != "" {
		where.add(`name ILIKE $%d`, containsPattern(filter.Name))
	}
	return where
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProducer(row rowScanner) (*domain.Producer, error) {
	var (
		p    domain.Producer
		cpf  sql.NullString
		cnpj sql.NullString
	)
	if err := row.Scan(
		&p.ID, &p.Name, &cpf, &cnpj, &p.Email, &p.Phone,
		&p.BirthDate, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.CPF = cpf.String
	p.CNPJ = cnpj.String
	return &p, nil
}

// nullString stores an empty optional value as NULL so unique constraints
// ignore it.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
