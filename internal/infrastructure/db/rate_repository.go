package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/domain/repository"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

const ratesSchema = `
CREATE TABLE IF NOT EXISTS rates (
	id SERIAL PRIMARY KEY,
	vedhani TEXT NOT NULL,
	ornaments22k TEXT NOT NULL,
	ornaments18k TEXT NOT NULL,
	silver TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
)`

// The rates table holds at most one logical current-rate row. Writes target a
// fixed singleton id so the reconciliation is a single atomic statement and
// the one-row invariant holds under concurrent writers.
const upsertRateSQL = `
INSERT INTO rates (id, vedhani, ornaments22k, ornaments18k, silver, updated_at)
VALUES (1, $1, $2, $3, $4, COALESCE($5, NOW()))
ON CONFLICT (id) DO UPDATE SET
	vedhani = EXCLUDED.vedhani,
	ornaments22k = EXCLUDED.ornaments22k,
	ornaments18k = EXCLUDED.ornaments18k,
	silver = EXCLUDED.silver,
	updated_at = COALESCE($5, NOW())
RETURNING vedhani, ornaments22k, ornaments18k, silver, updated_at`

const latestRateSQL = `
SELECT vedhani, ornaments22k, ornaments18k, silver, updated_at
FROM rates
ORDER BY updated_at DESC
LIMIT 1`

// PostgresRateRepository implements repository.RateRepository on Postgres.
type PostgresRateRepository struct {
	pool   Pool
	logger logger.Logger
}

// NewPostgresRateRepository creates a rate repository over the given pool.
func NewPostgresRateRepository(pool Pool, log logger.Logger) *PostgresRateRepository {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &PostgresRateRepository{pool: pool, logger: log}
}

// EnsureSchema creates the rates table if absent.
func (r *PostgresRateRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, ratesSchema); err != nil {
		return &OperationError{Op: "ensure rates schema", Err: err}
	}
	return nil
}

// Latest returns the most recently updated reading, or repository.ErrNoRates
// when the table is empty.
func (r *PostgresRateRepository) Latest(ctx context.Context) (*entity.RateReading, error) {
	var reading entity.RateReading
	err := r.pool.QueryRow(ctx, latestRateSQL).Scan(
		&reading.Vedhani,
		&reading.Ornaments22K,
		&reading.Ornaments18K,
		&reading.Silver,
		&reading.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNoRates
	}
	if err != nil {
		return nil, &OperationError{Op: "read latest rates", Err: err}
	}
	return &reading, nil
}

// Upsert reconciles the reading into the singleton row. A zero UpdatedAt lets
// the database stamp NOW(); an explicit source timestamp is preserved.
func (r *PostgresRateRepository) Upsert(ctx context.Context, reading *entity.RateReading) (*entity.RateReading, error) {
	var updatedAt *time.Time
	if !reading.UpdatedAt.IsZero() {
		updatedAt = &reading.UpdatedAt
	}

	var saved entity.RateReading
	err := r.pool.QueryRow(ctx, upsertRateSQL,
		reading.Vedhani,
		reading.Ornaments22K,
		reading.Ornaments18K,
		reading.Silver,
		updatedAt,
	).Scan(
		&saved.Vedhani,
		&saved.Ornaments22K,
		&saved.Ornaments18K,
		&saved.Silver,
		&saved.UpdatedAt,
	)
	if err != nil {
		return nil, &OperationError{Op: "upsert rates", Err: err}
	}
	saved.Source = reading.Source

	r.logger.Info("Rates upserted", map[string]interface{}{
		"vedhani":      saved.Vedhani,
		"ornaments22k": saved.Ornaments22K,
		"ornaments18k": saved.Ornaments18K,
		"silver":       saved.Silver,
	})

	return &saved, nil
}
