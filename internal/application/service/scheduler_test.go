package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

func TestScheduler(t *testing.T) {
	t.Run("Runs immediately and then on the interval", func(t *testing.T) {
		var runs atomic.Int32
		sched := NewScheduler("test", 20*time.Millisecond, func(ctx context.Context) error {
			runs.Add(1)
			return nil
		}, logger.NewNop())

		ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
		defer cancel()

		err := sched.Start(ctx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.GreaterOrEqual(t, runs.Load(), int32(3))
	})

	t.Run("Keeps ticking after failures", func(t *testing.T) {
		var runs atomic.Int32
		sched := NewScheduler("test", 20*time.Millisecond, func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("cycle failed")
		}, logger.NewNop())

		ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
		defer cancel()

		sched.Start(ctx)

		assert.GreaterOrEqual(t, runs.Load(), int32(2))
	})

	t.Run("Non-positive interval blocks until cancellation without running", func(t *testing.T) {
		var runs atomic.Int32
		sched := NewScheduler("test", 0, func(ctx context.Context) error {
			runs.Add(1)
			return nil
		}, logger.NewNop())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		err := sched.Start(ctx)

		assert.Error(t, err)
		assert.Equal(t, int32(0), runs.Load())
	})

	t.Run("Stops on cancellation", func(t *testing.T) {
		sched := NewScheduler("test", time.Hour, func(ctx context.Context) error {
			return nil
		}, logger.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		done := make(chan error, 1)
		go func() { done <- sched.Start(ctx) }()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop on cancellation")
		}
	})
}
