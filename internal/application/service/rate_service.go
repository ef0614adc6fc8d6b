package service

import (
	"context"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/domain/repository"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

// RateService exposes read and manual-write access to the stored current
// rates. The synchronization pipelines live in SyncService; this covers the
// HTTP GET/PUT surface.
type RateService struct {
	repo   repository.RateRepository
	logger logger.Logger
}

// NewRateService creates a rate service.
func NewRateService(repo repository.RateRepository, log logger.Logger) *RateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &RateService{repo: repo, logger: log}
}

// Latest returns the stored current reading, or repository.ErrNoRates when the
// store is empty.
func (s *RateService) Latest(ctx context.Context) (*entity.RateReading, error) {
	return s.repo.Latest(ctx)
}

// Save reconciles a manually supplied reading into the current row. The schema
// is ensured first so a fresh database accepts writes without a setup step.
func (s *RateService) Save(ctx context.Context, reading *entity.RateReading) (*entity.RateReading, error) {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	saved, err := s.repo.Upsert(ctx, reading)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Rates saved manually", map[string]interface{}{
		"vedhani": saved.Vedhani,
		"silver":  saved.Silver,
	})
	return saved, nil
}
