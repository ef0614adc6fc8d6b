package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

// remoteCandidate pairs a source table name with the query that reads its
// latest row in canonical column order. The list is tried in priority order;
// the first table yielding a row wins. Numeric columns are cast to text so
// the source formatting carries into the canonical reading unchanged.
type remoteCandidate struct {
	table string
	query string
}

var remoteCandidates = []remoteCandidate{
	{
		table: "rates",
		query: `SELECT vedhani::text, ornaments22k::text, ornaments18k::text, silver::text, updated_at
			FROM rates ORDER BY updated_at DESC LIMIT 1`,
	},
	{
		// The remote provenance table uses sale-column names and an
		// is_active flag; alias it into the canonical shape.
		table: "gold_rates",
		query: `SELECT gold_24k_sale::text, gold_22k_sale::text, gold_18k_sale::text, silver_per_kg_sale::text, created_date
			FROM gold_rates WHERE is_active = true ORDER BY created_date DESC LIMIT 1`,
	},
	{
		table: "current_rates",
		query: `SELECT vedhani::text, ornaments22k::text, ornaments18k::text, silver::text, updated_at
			FROM current_rates ORDER BY updated_at DESC LIMIT 1`,
	},
}

// RemoteRateSource reads the latest reading out of a secondary database,
// trying the known candidate tables in priority order.
type RemoteRateSource struct {
	pool   Pool
	logger logger.Logger
}

// NewRemoteRateSource creates a source over a pool connected to the remote
// database.
func NewRemoteRateSource(pool Pool, log logger.Logger) *RemoteRateSource {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &RemoteRateSource{pool: pool, logger: log}
}

// Latest returns the first candidate table's latest row along with the table
// name that served it. When every candidate is empty or errors, the result is
// a NoCandidateError carrying the last error seen.
func (s *RemoteRateSource) Latest(ctx context.Context) (*entity.RateReading, string, error) {
	var lastErr error

	for _, cand := range remoteCandidates {
		reading, err := s.readCandidate(ctx, cand)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			s.logger.Debug("Candidate table not usable", map[string]interface{}{
				"table": cand.table,
				"error": err.Error(),
			})
			lastErr = err
			continue
		}

		s.logger.Info("Remote rates found", map[string]interface{}{
			"table": cand.table,
		})
		return reading, cand.table, nil
	}

	tables := make([]string, len(remoteCandidates))
	for i, cand := range remoteCandidates {
		tables[i] = cand.table
	}
	return nil, "", &NoCandidateError{Tables: tables, LastErr: lastErr}
}

func (s *RemoteRateSource) readCandidate(ctx context.Context, cand remoteCandidate) (*entity.RateReading, error) {
	var (
		vedhani, ornaments22k, ornaments18k, silver *string
		updatedAt                                   *time.Time
	)
	err := s.pool.QueryRow(ctx, cand.query).Scan(&vedhani, &ornaments22k, &ornaments18k, &silver, &updatedAt)
	if err != nil {
		return nil, err
	}

	reading := &entity.RateReading{
		Vedhani:      deref(vedhani),
		Ornaments22K: deref(ornaments22k),
		Ornaments18K: deref(ornaments18k),
		Silver:       deref(silver),
	}
	if updatedAt != nil {
		reading.UpdatedAt = *updatedAt
	} else {
		reading.UpdatedAt = time.Now()
	}
	return reading, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
