package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/domain/repository"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

func newGoldRateMock(t *testing.T) (pgxmock.PgxPoolIface, *PostgresGoldRateRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresGoldRateRepository(mock, logger.NewNop())
}

func TestGoldRateRepositoryInsertActive(t *testing.T) {
	ctx := context.Background()

	t.Run("Deactivates old rows and appends inside one transaction", func(t *testing.T) {
		mock, repo := newGoldRateMock(t)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectExec(deactivateGoldRatesSQL).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery(insertGoldRateSQL).
			WithArgs(7250.0, (*float64)(nil), 6700.0, (*float64)(nil), 5500.0, (*float64)(nil),
				92500.0, (*float64)(nil), (*time.Time)(nil), "devi-feed").
			WillReturnRows(
				pgxmock.NewRows([]string{"id", "gold_24k_sale", "gold_22k_sale", "gold_18k_sale",
					"silver_per_kg_sale", "is_active", "created_date", "source"}).
					AddRow(7, 7250.0, 6700.0, 5500.0, 92500.0, true, now, "devi-feed"))
		mock.ExpectCommit()

		saved, err := repo.InsertActive(ctx, &entity.GoldRate{
			Gold24KSale:     7250,
			Gold22KSale:     6700,
			Gold18KSale:     5500,
			SilverPerKgSale: 92500,
			Source:          "devi-feed",
		})

		require.NoError(t, err)
		assert.Equal(t, 7, saved.ID)
		assert.True(t, saved.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Deactivation failure rolls back", func(t *testing.T) {
		mock, repo := newGoldRateMock(t)

		mock.ExpectBegin()
		mock.ExpectExec(deactivateGoldRatesSQL).WillReturnError(errors.New("lock timeout"))
		mock.ExpectRollback()

		_, err := repo.InsertActive(ctx, &entity.GoldRate{Gold24KSale: 7250})

		var opErr *OperationError
		assert.ErrorAs(t, err, &opErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert failure rolls back", func(t *testing.T) {
		mock, repo := newGoldRateMock(t)

		mock.ExpectBegin()
		mock.ExpectExec(deactivateGoldRatesSQL).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery(insertGoldRateSQL).
			WithArgs(7250.0, (*float64)(nil), 0.0, (*float64)(nil), 0.0, (*float64)(nil),
				0.0, (*float64)(nil), (*time.Time)(nil), "").
			WillReturnError(errors.New("numeric overflow"))
		mock.ExpectRollback()

		_, err := repo.InsertActive(ctx, &entity.GoldRate{Gold24KSale: 7250})

		var opErr *OperationError
		assert.ErrorAs(t, err, &opErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGoldRateRepositoryLatestActive(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the active row", func(t *testing.T) {
		mock, repo := newGoldRateMock(t)
		now := time.Now()

		mock.ExpectQuery(latestActiveGoldRateSQL).WillReturnRows(
			pgxmock.NewRows([]string{"id", "gold_24k_sale", "gold_22k_sale", "gold_18k_sale",
				"silver_per_kg_sale", "is_active", "created_date", "source"}).
				AddRow(7, 7250.0, 6700.0, 5500.0, 92500.0, true, now, "devi-feed"))

		rate, err := repo.LatestActive(ctx)

		require.NoError(t, err)
		assert.Equal(t, 7250.0, rate.Gold24KSale)
		assert.Equal(t, "devi-feed", rate.Source)
	})

	t.Run("No active row maps to ErrNoRates", func(t *testing.T) {
		mock, repo := newGoldRateMock(t)

		mock.ExpectQuery(latestActiveGoldRateSQL).WillReturnError(pgx.ErrNoRows)

		_, err := repo.LatestActive(ctx)

		assert.ErrorIs(t, err, repository.ErrNoRates)
	})
}
