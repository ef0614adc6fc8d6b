package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/devi-jewellers/rate-service/internal/application/service"
	"github.com/devi-jewellers/rate-service/internal/config"
	"github.com/devi-jewellers/rate-service/internal/domain/repository"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/api"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/cache"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/db"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/handler"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/journal"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

// app holds every wired component a command might need. Optional pieces
// (remote pool, REST writer, journal) stay nil when their configuration is
// absent; the services treat nil as disabled.
type app struct {
	cfg    *config.Config
	logger *logger.ZapLogger

	pool       db.Pool
	remotePool db.Pool
	journal    *journal.BadgerJournal

	rates     repository.RateRepository
	goldRates repository.GoldRateRepository
	images    repository.ImageRepository

	rateService  *service.RateService
	imageService *service.ImageService
	syncService  *service.SyncService

	closers []func()
}

type buildOptions struct {
	withJournal bool
}

// buildApp wires the application from configuration. DATABASE_URL is
// mandatory; everything else degrades gracefully.
func buildApp(ctx context.Context, opts buildOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	logger.SetDefaultLogger(log)

	if cfg.DatabaseURL == "" {
		return nil, eris.New("DATABASE_URL is not set")
	}

	a := &app{cfg: cfg, logger: log}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.pool = pool
	a.closers = append(a.closers, pool.Close)

	var remote repository.RateSource
	if cfg.RemoteDatabaseURL != "" {
		remotePool, err := db.NewPool(ctx, cfg.RemoteDatabaseURL)
		if err != nil {
			// The remote database backs only the import pipeline; start
			// without it rather than refusing to serve local rates.
			log.Warn("Remote database unavailable, import pipeline disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			a.remotePool = remotePool
			a.closers = append(a.closers, remotePool.Close)
			remote = db.NewRemoteRateSource(remotePool, log)
		}
	}

	if opts.withJournal && cfg.JournalPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.JournalPath), 0o755); err == nil {
			j, err := journal.Open(cfg.JournalPath, log)
			if err != nil {
				log.Warn("Journal unavailable, diagnostics history disabled", map[string]interface{}{
					"path":  cfg.JournalPath,
					"error": err.Error(),
				})
			} else {
				a.journal = j
				a.closers = append(a.closers, func() { j.Close() })
			}
		}
	}

	a.rates = db.NewPostgresRateRepository(a.pool, log)
	a.goldRates = db.NewPostgresGoldRateRepository(a.pool, log)
	a.images = db.NewPostgresImageRepository(a.pool, log)

	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	fetcher := api.NewFeedClient(httpClient, log)

	var rest service.RestInserter
	if cfg.RESTBaseURL != "" {
		rest = api.NewRESTWriter(cfg.RESTBaseURL, cfg.RESTAccessToken, httpClient, log)
	}

	var syncJournal service.SyncJournal
	if a.journal != nil {
		syncJournal = a.journal
	}

	a.rateService = service.NewRateService(a.rates, log)
	a.imageService = service.NewImageService(a.images, log)
	a.syncService = service.NewSyncService(service.SyncConfig{
		FeedURL:     cfg.FeedURL,
		DeviFeedURL: cfg.DeviFeedURL,
		Fetcher:     fetcher,
		Rates:       a.rates,
		GoldRates:   a.goldRates,
		Remote:      remote,
		Rest:        rest,
		Journal:     syncJournal,
		Logger:      log,
	})

	return a, nil
}

// hasRemote reports whether the import pipeline is usable.
func (a *app) hasRemote() bool {
	return a.remotePool != nil
}

// liveCache returns a fresh short-TTL cache for the live endpoint.
func (a *app) liveCache() *cache.RateCache {
	return cache.NewRateCache()
}

// journalReader returns the journal as an interface, or a nil interface when
// no journal is open. Returning the typed field directly would hand the
// handler a non-nil interface wrapping a nil pointer.
func (a *app) journalReader() handler.JournalReader {
	if a.journal == nil {
		return nil
	}
	return a.journal
}

// close releases pools and the journal in reverse construction order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.logger.Sync()
}
