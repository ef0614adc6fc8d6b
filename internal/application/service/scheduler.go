package service

import (
	"context"
	"time"

	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
	"github.com/devi-jewellers/rate-service/internal/resilience"
)

// Scheduler runs a sync cycle on a fixed interval. The first run happens
// immediately on Start; after that the ticker is authoritative. A failing
// cycle is logged and the next tick proceeds regardless, so one bad upstream
// response never stops the loop.
type Scheduler struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
	retry    resilience.RetryConfig
	logger   logger.Logger
}

// NewScheduler creates a scheduler for the named pipeline.
func NewScheduler(name string, interval time.Duration, run func(ctx context.Context) error, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = func(attempt int, err error) {
		log.Warn("Retrying sync cycle", map[string]interface{}{
			"pipeline": name,
			"attempt":  attempt,
			"error":    err.Error(),
		})
	}

	return &Scheduler{
		name:     name,
		interval: interval,
		run:      run,
		retry:    retry,
		logger:   log,
	}
}

// Start blocks until ctx is cancelled, running one cycle immediately and then
// one per interval. A non-positive interval disables the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("Scheduler disabled", map[string]interface{}{
			"pipeline": s.name,
		})
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info("Scheduler started", map[string]interface{}{
		"pipeline": s.name,
		"interval": s.interval.String(),
	})

	s.cycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped", map[string]interface{}{
				"pipeline": s.name,
			})
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

// cycle runs one scheduled cycle with bounded retries on transient errors.
func (s *Scheduler) cycle(ctx context.Context) {
	err := resilience.Do(ctx, s.retry, s.run)
	if err != nil && ctx.Err() == nil {
		s.logger.Error("Sync cycle failed", map[string]interface{}{
			"pipeline": s.name,
			"error":    err.Error(),
		})
	}
}
