package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/api"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/db"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/journal"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
	"github.com/devi-jewellers/rate-service/internal/mocks"
)

const (
	testFeedURL = "https://feed.example.com/api.php"
	testDeviURL = "https://devi.example.com/api/rates/live"
)

func newTestSyncService(fetcher *mocks.MockRateFetcher, rates *mocks.MockRateRepository,
	gold *mocks.MockGoldRateRepository, remote *mocks.MockRateSource) *SyncService {
	cfg := SyncConfig{
		FeedURL:     testFeedURL,
		DeviFeedURL: testDeviURL,
		Fetcher:     fetcher,
		Rates:       rates,
		GoldRates:   gold,
		Logger:      logger.NewNop(),
	}
	if remote != nil {
		cfg.Remote = remote
	}
	return NewSyncService(cfg)
}

func TestSync(t *testing.T) {
	ctx := context.Background()

	t.Run("Fetches, normalizes and upserts", func(t *testing.T) {
		fetcher := new(mocks.MockRateFetcher)
		rates := new(mocks.MockRateRepository)
		svc := newTestSyncService(fetcher, rates, nil, nil)

		rates.On("EnsureSchema", ctx).Return(nil).Once()
		fetcher.On("Fetch", ctx, testFeedURL).Return(api.RawDocument{
			"vedhani": "7250",
			"silver":  "92000",
		}, nil).Once()
		rates.On("Upsert", ctx, mock.MatchedBy(func(r *entity.RateReading) bool {
			return r.Vedhani == "7250" && r.Silver == "92000"
		})).Return(&entity.RateReading{Vedhani: "7250", Silver: "92000"}, nil).Once()

		saved, err := svc.Sync(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "7250", saved.Vedhani)
		fetcher.AssertExpectations(t)
		rates.AssertExpectations(t)
	})

	t.Run("Upstream failure leaves store untouched", func(t *testing.T) {
		fetcher := new(mocks.MockRateFetcher)
		rates := new(mocks.MockRateRepository)
		svc := newTestSyncService(fetcher, rates, nil, nil)

		upstreamErr := &api.UpstreamError{URL: testFeedURL, StatusCode: 503}
		rates.On("EnsureSchema", ctx).Return(nil).Once()
		fetcher.On("Fetch", ctx, testFeedURL).Return(nil, upstreamErr).Once()

		_, err := svc.Sync(ctx)

		assert.Error(t, err)
		var ue *api.UpstreamError
		assert.ErrorAs(t, err, &ue)
		rates.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("REST path is tried first", func(t *testing.T) {
		fetcher := new(mocks.MockRateFetcher)
		rates := new(mocks.MockRateRepository)
		rest := new(mocks.MockRestInserter)
		svc := newTestSyncService(fetcher, rates, nil, nil)
		svc.rest = rest

		rates.On("EnsureSchema", ctx).Return(nil).Once()
		fetcher.On("Fetch", ctx, testFeedURL).Return(api.RawDocument{"vedhani": "7250"}, nil).Once()
		rest.On("Insert", ctx, mock.Anything).Return(&entity.RateReading{Vedhani: "7250"}, nil).Once()

		saved, err := svc.Sync(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "7250", saved.Vedhani)
		rates.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		rest.AssertExpectations(t)
	})

	t.Run("REST failure falls back to database", func(t *testing.T) {
		fetcher := new(mocks.MockRateFetcher)
		rates := new(mocks.MockRateRepository)
		rest := new(mocks.MockRestInserter)
		svc := newTestSyncService(fetcher, rates, nil, nil)
		svc.rest = rest

		rates.On("EnsureSchema", ctx).Return(nil).Once()
		fetcher.On("Fetch", ctx, testFeedURL).Return(api.RawDocument{"vedhani": "7250"}, nil).Once()
		rest.On("Insert", ctx, mock.Anything).Return(nil, errors.New("rest down")).Once()
		rates.On("Upsert", ctx, mock.Anything).Return(&entity.RateReading{Vedhani: "7250"}, nil).Once()

		saved, err := svc.Sync(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "7250", saved.Vedhani)
		rates.AssertExpectations(t)
	})

	t.Run("Failure is journaled", func(t *testing.T) {
		fetcher := new(mocks.MockRateFetcher)
		rates := new(mocks.MockRateRepository)
		j := new(mocks.MockSyncJournal)
		svc := newTestSyncService(fetcher, rates, nil, nil)
		svc.journal = j

		rates.On("EnsureSchema", ctx).Return(nil).Once()
		fetcher.On("Fetch", ctx, testFeedURL).Return(nil, &api.UpstreamError{URL: testFeedURL}).Once()
		j.On("Record", mock.MatchedBy(func(e journal.Entry) bool {
			return e.Pipeline == PipelineSync && !e.OK && e.Error != ""
		})).Return(nil).Once()

		_, err := svc.Sync(ctx)

		assert.Error(t, err)
		j.AssertExpectations(t)
	})
}

func TestSyncGoldRates(t *testing.T) {
	ctx := context.Background()

	t.Run("Always appends a new active row", func(t *testing.T) {
		fetcher := new(mocks.MockRateFetcher)
		gold := new(mocks.MockGoldRateRepository)
		svc := newTestSyncService(fetcher, nil, gold, nil)

		gold.On("EnsureSchema", ctx).Return(nil).Once()
		fetcher.On("Fetch", ctx, testDeviURL).Return(api.RawDocument{
			"vedhani": "7250",
			"silver":  "92500",
		}, nil).Once()
		gold.On("InsertActive", ctx, mock.MatchedBy(func(r *entity.GoldRate) bool {
			return r.Gold24KSale == 7250 && r.SilverPerKgSale == 92500 && r.IsActive
		})).Return(&entity.GoldRate{ID: 7, Gold24KSale: 7250}, nil).Once()

		saved, err := svc.SyncGoldRates(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 7, saved.ID)
		gold.AssertExpectations(t)
	})

	t.Run("Falls back to the display feed when no devi feed is set", func(t *testing.T) {
		fetcher := new(mocks.MockRateFetcher)
		gold := new(mocks.MockGoldRateRepository)
		svc := newTestSyncService(fetcher, nil, gold, nil)
		svc.deviFeedURL = ""

		gold.On("EnsureSchema", ctx).Return(nil).Once()
		fetcher.On("Fetch", ctx, testFeedURL).Return(api.RawDocument{
			"Silver": "92.5",
		}, nil).Once()
		gold.On("InsertActive", ctx, mock.MatchedBy(func(r *entity.GoldRate) bool {
			return r.SilverPerKgSale == 92500
		})).Return(&entity.GoldRate{ID: 1}, nil).Once()

		_, err := svc.SyncGoldRates(ctx)

		assert.NoError(t, err)
		gold.AssertExpectations(t)
	})

	t.Run("Store failure propagates", func(t *testing.T) {
		fetcher := new(mocks.MockRateFetcher)
		gold := new(mocks.MockGoldRateRepository)
		svc := newTestSyncService(fetcher, nil, gold, nil)

		gold.On("EnsureSchema", ctx).Return(nil).Once()
		fetcher.On("Fetch", ctx, testDeviURL).Return(api.RawDocument{"vedhani": "7250"}, nil).Once()
		gold.On("InsertActive", ctx, mock.Anything).
			Return(nil, &db.OperationError{Op: "insert gold rate", Err: errors.New("boom")}).Once()

		_, err := svc.SyncGoldRates(ctx)

		var opErr *db.OperationError
		assert.ErrorAs(t, err, &opErr)
	})
}

func TestImportFromRemote(t *testing.T) {
	ctx := context.Background()

	t.Run("Imports and reports the used table", func(t *testing.T) {
		rates := new(mocks.MockRateRepository)
		remote := new(mocks.MockRateSource)
		svc := newTestSyncService(nil, rates, nil, remote)

		incoming := &entity.RateReading{Vedhani: "7300", Silver: "93000"}
		rates.On("EnsureSchema", ctx).Return(nil).Once()
		remote.On("Latest", ctx).Return(incoming, "current_rates", nil).Once()
		rates.On("Latest", ctx).Return(&entity.RateReading{Vedhani: "7250"}, nil).Once()
		rates.On("Upsert", ctx, incoming).Return(incoming, nil).Once()

		saved, usedTable, err := svc.ImportFromRemote(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "current_rates", usedTable)
		assert.Equal(t, "7300", saved.Vedhani)
		rates.AssertExpectations(t)
	})

	t.Run("Unchanged reading skips the write", func(t *testing.T) {
		rates := new(mocks.MockRateRepository)
		remote := new(mocks.MockRateSource)
		svc := newTestSyncService(nil, rates, nil, remote)

		stored := &entity.RateReading{Vedhani: "7250", Ornaments22K: "6700", Ornaments18K: "5500", Silver: "92000"}
		incoming := &entity.RateReading{Vedhani: "7250", Ornaments22K: "6700", Ornaments18K: "5500", Silver: "92000"}
		rates.On("EnsureSchema", ctx).Return(nil).Once()
		remote.On("Latest", ctx).Return(incoming, "rates", nil).Once()
		rates.On("Latest", ctx).Return(stored, nil).Once()

		saved, usedTable, err := svc.ImportFromRemote(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "rates", usedTable)
		assert.Equal(t, stored, saved)
		rates.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Empty local store still imports", func(t *testing.T) {
		rates := new(mocks.MockRateRepository)
		remote := new(mocks.MockRateSource)
		svc := newTestSyncService(nil, rates, nil, remote)

		incoming := &entity.RateReading{Vedhani: "7300"}
		rates.On("EnsureSchema", ctx).Return(nil).Once()
		remote.On("Latest", ctx).Return(incoming, "gold_rates", nil).Once()
		rates.On("Latest", ctx).Return(nil, errors.New("no rates found")).Once()
		rates.On("Upsert", ctx, incoming).Return(incoming, nil).Once()

		_, usedTable, err := svc.ImportFromRemote(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "gold_rates", usedTable)
		rates.AssertExpectations(t)
	})

	t.Run("No candidate table propagates", func(t *testing.T) {
		rates := new(mocks.MockRateRepository)
		remote := new(mocks.MockRateSource)
		svc := newTestSyncService(nil, rates, nil, remote)

		rates.On("EnsureSchema", ctx).Return(nil).Once()
		remote.On("Latest", ctx).
			Return(nil, "", &db.NoCandidateError{Tables: []string{"rates", "gold_rates", "current_rates"}}).Once()

		_, _, err := svc.ImportFromRemote(ctx)

		var ncErr *db.NoCandidateError
		assert.ErrorAs(t, err, &ncErr)
		rates.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
