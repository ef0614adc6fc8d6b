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

const goldRatesSchema = `
CREATE TABLE IF NOT EXISTS gold_rates (
	id SERIAL PRIMARY KEY,
	gold_24k_sale NUMERIC,
	gold_24k_purchase NUMERIC,
	gold_22k_sale NUMERIC,
	gold_22k_purchase NUMERIC,
	gold_18k_sale NUMERIC,
	gold_18k_purchase NUMERIC,
	silver_per_kg_sale NUMERIC,
	silver_per_kg_purchase NUMERIC,
	is_active BOOLEAN DEFAULT TRUE,
	created_date TIMESTAMP DEFAULT NOW(),
	source TEXT
)`

const deactivateGoldRatesSQL = `UPDATE gold_rates SET is_active = false WHERE is_active = true`

const insertGoldRateSQL = `
INSERT INTO gold_rates (
	gold_24k_sale, gold_24k_purchase,
	gold_22k_sale, gold_22k_purchase,
	gold_18k_sale, gold_18k_purchase,
	silver_per_kg_sale, silver_per_kg_purchase,
	is_active, created_date, source
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, COALESCE($9, NOW()), $10)
RETURNING id, gold_24k_sale, gold_22k_sale, gold_18k_sale, silver_per_kg_sale, is_active, created_date, source`

const latestActiveGoldRateSQL = `
SELECT id, gold_24k_sale, gold_22k_sale, gold_18k_sale, silver_per_kg_sale, is_active, created_date, COALESCE(source, '')
FROM gold_rates
WHERE is_active = true
ORDER BY created_date DESC
LIMIT 1`

// PostgresGoldRateRepository implements repository.GoldRateRepository. The
// gold_rates table is append-only: history is preserved and the is_active
// flag marks the single current row.
type PostgresGoldRateRepository struct {
	pool   Pool
	logger logger.Logger
}

// NewPostgresGoldRateRepository creates a gold-rate repository over the pool.
func NewPostgresGoldRateRepository(pool Pool, log logger.Logger) *PostgresGoldRateRepository {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &PostgresGoldRateRepository{pool: pool, logger: log}
}

// EnsureSchema creates the gold_rates table if absent.
func (r *PostgresGoldRateRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, goldRatesSchema); err != nil {
		return &OperationError{Op: "ensure gold_rates schema", Err: err}
	}
	return nil
}

// InsertActive flips every active row to false and appends the new rate as
// the active one, inside a single transaction so the exactly-one-active
// invariant never has a visible gap.
func (r *PostgresGoldRateRepository) InsertActive(ctx context.Context, rate *entity.GoldRate) (*entity.GoldRate, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deactivateGoldRatesSQL); err != nil {
		return nil, &OperationError{Op: "deactivate gold_rates", Err: err}
	}

	var createdDate *time.Time
	if !rate.CreatedDate.IsZero() {
		createdDate = &rate.CreatedDate
	}

	var saved entity.GoldRate
	err = tx.QueryRow(ctx, insertGoldRateSQL,
		rate.Gold24KSale, rate.Gold24KPurchase,
		rate.Gold22KSale, rate.Gold22KPurchase,
		rate.Gold18KSale, rate.Gold18KPurchase,
		rate.SilverPerKgSale, rate.SilverPerKgPurchase,
		createdDate, rate.Source,
	).Scan(
		&saved.ID,
		&saved.Gold24KSale,
		&saved.Gold22KSale,
		&saved.Gold18KSale,
		&saved.SilverPerKgSale,
		&saved.IsActive,
		&saved.CreatedDate,
		&saved.Source,
	)
	if err != nil {
		return nil, &OperationError{Op: "insert gold_rates", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &OperationError{Op: "commit gold_rates insert", Err: err}
	}

	r.logger.Info("Gold rate row appended", map[string]interface{}{
		"id":     saved.ID,
		"source": saved.Source,
	})

	return &saved, nil
}

// LatestActive returns the active row, or repository.ErrNoRates.
func (r *PostgresGoldRateRepository) LatestActive(ctx context.Context) (*entity.GoldRate, error) {
	var rate entity.GoldRate
	err := r.pool.QueryRow(ctx, latestActiveGoldRateSQL).Scan(
		&rate.ID,
		&rate.Gold24KSale,
		&rate.Gold22KSale,
		&rate.Gold18KSale,
		&rate.SilverPerKgSale,
		&rate.IsActive,
		&rate.CreatedDate,
		&rate.Source,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNoRates
	}
	if err != nil {
		return nil, &OperationError{Op: "read active gold rate", Err: err}
	}
	return &rate, nil
}
