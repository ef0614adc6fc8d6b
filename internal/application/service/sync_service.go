package service

import (
	"context"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/domain/repository"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/api"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/journal"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
	"github.com/devi-jewellers/rate-service/internal/metrics"
)

// Pipeline names used in journal entries and metrics labels.
const (
	PipelineSync      = "sync"
	PipelineGoldRates = "sync-gold-rates"
	PipelineImport    = "import-remote"
)

// RateFetcher fetches a raw upstream rate document.
type RateFetcher interface {
	Fetch(ctx context.Context, url string) (api.RawDocument, error)
}

// RestInserter writes a reading through the REST data API.
type RestInserter interface {
	Insert(ctx context.Context, reading *entity.RateReading) (*entity.RateReading, error)
}

// SyncJournal records sync cycle outcomes for diagnostics.
type SyncJournal interface {
	Record(entry journal.Entry) error
}

// SyncConfig wires a SyncService. Rest, Remote and Journal are optional; a nil
// Rest means readings persist straight to the database, a nil Remote disables
// the import pipeline and a nil Journal disables cycle history.
type SyncConfig struct {
	FeedURL     string
	DeviFeedURL string
	Fetcher     RateFetcher
	Rates       repository.RateRepository
	GoldRates   repository.GoldRateRepository
	Remote      repository.RateSource
	Rest        RestInserter
	Journal     SyncJournal
	Logger      logger.Logger
}

// SyncService orchestrates the three pipelines that move upstream rates into
// storage: the main feed sync, the gold-rates provenance sync, and the
// remote-database import.
type SyncService struct {
	feedURL     string
	deviFeedURL string
	fetcher     RateFetcher
	rates       repository.RateRepository
	goldRates   repository.GoldRateRepository
	remote      repository.RateSource
	rest        RestInserter
	journal     SyncJournal
	logger      logger.Logger
}

// NewSyncService creates a sync service from its wiring.
func NewSyncService(cfg SyncConfig) *SyncService {
	log := cfg.Logger
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &SyncService{
		feedURL:     cfg.FeedURL,
		deviFeedURL: cfg.DeviFeedURL,
		fetcher:     cfg.Fetcher,
		rates:       cfg.Rates,
		goldRates:   cfg.GoldRates,
		remote:      cfg.Remote,
		rest:        cfg.Rest,
		journal:     cfg.Journal,
		logger:      log,
	}
}

// Fetch returns the normalized live reading without persisting it. Backs the
// live endpoint.
func (s *SyncService) Fetch(ctx context.Context) (*entity.RateReading, error) {
	raw, err := s.fetcher.Fetch(ctx, s.feedURL)
	if err != nil {
		return nil, err
	}
	return Normalize(raw), nil
}

// Sync runs one full cycle of the main pipeline: ensure schema, fetch the
// upstream document, normalize it and reconcile it into the current row. A
// failure at any stage leaves the stored reading untouched.
func (s *SyncService) Sync(ctx context.Context) (*entity.RateReading, error) {
	if err := s.rates.EnsureSchema(ctx); err != nil {
		return nil, s.fail(PipelineSync, err)
	}

	raw, err := s.fetcher.Fetch(ctx, s.feedURL)
	if err != nil {
		return nil, s.fail(PipelineSync, err)
	}
	reading := Normalize(raw)

	saved, err := s.persist(ctx, reading)
	if err != nil {
		return nil, s.fail(PipelineSync, err)
	}

	s.logger.Info("Rates synced", map[string]interface{}{
		"vedhani": saved.Vedhani,
		"silver":  saved.Silver,
	})
	metrics.SyncCycles.WithLabelValues(PipelineSync, "success").Inc()
	s.record(journal.Entry{Pipeline: PipelineSync, OK: true})
	return saved, nil
}

// persist writes the reading through the REST data API when one is configured,
// falling back to the direct database upsert on any REST failure. Both paths
// end with an equivalent stored row.
func (s *SyncService) persist(ctx context.Context, reading *entity.RateReading) (*entity.RateReading, error) {
	if s.rest != nil {
		saved, err := s.rest.Insert(ctx, reading)
		if err == nil {
			return saved, nil
		}
		s.logger.Warn("REST insert failed, falling back to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return s.rates.Upsert(ctx, reading)
}

// SyncGoldRates runs the provenance pipeline: fetch, normalize into the
// numeric gold-rate shape and append a new active row. There is no change
// detection here; every cycle appends so the table keeps full history.
func (s *SyncService) SyncGoldRates(ctx context.Context) (*entity.GoldRate, error) {
	if err := s.goldRates.EnsureSchema(ctx); err != nil {
		return nil, s.fail(PipelineGoldRates, err)
	}

	url := s.deviFeedURL
	source := "devi-feed"
	if url == "" {
		url = s.feedURL
		source = "rate-feed"
	}

	raw, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, s.fail(PipelineGoldRates, err)
	}
	rate := NormalizeGoldRate(raw, source)

	saved, err := s.goldRates.InsertActive(ctx, rate)
	if err != nil {
		return nil, s.fail(PipelineGoldRates, err)
	}

	s.logger.Info("Gold rates appended", map[string]interface{}{
		"id":     saved.ID,
		"source": saved.Source,
	})
	metrics.SyncCycles.WithLabelValues(PipelineGoldRates, "success").Inc()
	s.record(journal.Entry{Pipeline: PipelineGoldRates, OK: true})
	return saved, nil
}

// ImportFromRemote copies the latest reading out of the secondary database
// into the local current row. When the remote reading matches the stored one
// field for field the write is skipped; the stored reading and the remote
// table name are still returned.
func (s *SyncService) ImportFromRemote(ctx context.Context) (*entity.RateReading, string, error) {
	if err := s.rates.EnsureSchema(ctx); err != nil {
		return nil, "", s.fail(PipelineImport, err)
	}

	remote, usedTable, err := s.remote.Latest(ctx)
	if err != nil {
		return nil, "", s.fail(PipelineImport, err)
	}

	current, err := s.rates.Latest(ctx)
	if err == nil && current.SameRates(remote) {
		s.logger.Info("Remote rates unchanged, skipping write", map[string]interface{}{
			"table": usedTable,
		})
		metrics.SyncSkipped.Inc()
		metrics.SyncCycles.WithLabelValues(PipelineImport, "success").Inc()
		s.record(journal.Entry{Pipeline: PipelineImport, OK: true, UsedTable: usedTable, Skipped: true})
		return current, usedTable, nil
	}

	saved, err := s.rates.Upsert(ctx, remote)
	if err != nil {
		return nil, "", s.fail(PipelineImport, err)
	}

	s.logger.Info("Rates imported from remote", map[string]interface{}{
		"table":   usedTable,
		"vedhani": saved.Vedhani,
	})
	metrics.SyncCycles.WithLabelValues(PipelineImport, "success").Inc()
	s.record(journal.Entry{Pipeline: PipelineImport, OK: true, UsedTable: usedTable})
	return saved, usedTable, nil
}

// fail journals and counts a pipeline failure, then hands the error back.
func (s *SyncService) fail(pipeline string, err error) error {
	metrics.SyncCycles.WithLabelValues(pipeline, "error").Inc()
	s.record(journal.Entry{Pipeline: pipeline, Error: err.Error()})
	return err
}

// record journals an entry. Journal failures are logged and swallowed; the
// journal is observability, not a dependency.
func (s *SyncService) record(entry journal.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(entry); err != nil {
		s.logger.Warn("Failed to journal sync cycle", map[string]interface{}{
			"pipeline": entry.Pipeline,
			"error":    err.Error(),
		})
	}
}
