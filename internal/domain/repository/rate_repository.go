package repository

import (
	"context"
	"errors"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
)

// ErrNoRates is returned when the rates table holds no rows yet. An empty
// store is a normal outcome, not a failure.
var ErrNoRates = errors.New("no rates found")

// RateRepository defines storage for the single current-rate row.
type RateRepository interface {
	// EnsureSchema creates the rates table if absent. Safe to call repeatedly.
	EnsureSchema(ctx context.Context) error

	// Latest returns the most recently updated reading, or ErrNoRates when
	// the table is empty.
	Latest(ctx context.Context) (*entity.RateReading, error)

	// Upsert reconciles the reading into the single current row and returns
	// the persisted reading with its final timestamp.
	Upsert(ctx context.Context, reading *entity.RateReading) (*entity.RateReading, error)
}

// GoldRateRepository defines storage for the append-only provenance table.
type GoldRateRepository interface {
	// EnsureSchema creates the gold_rates table if absent.
	EnsureSchema(ctx context.Context) error

	// InsertActive deactivates every currently active row and appends the
	// given rate as the new active row, returning the persisted row.
	InsertActive(ctx context.Context, rate *entity.GoldRate) (*entity.GoldRate, error)

	// LatestActive returns the active row, or ErrNoRates when none exists.
	LatestActive(ctx context.Context) (*entity.GoldRate, error)
}

// RateSource is a read-only origin of canonical readings, such as a secondary
// database that is polled on a timer. It reports which candidate table the
// reading came from.
type RateSource interface {
	Latest(ctx context.Context) (reading *entity.RateReading, usedTable string, err error)
}
