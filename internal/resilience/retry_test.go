package resilience

import (
	"context"
	"errors"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("Succeeds on first attempt", func(t *testing.T) {
		calls := 0
		err := Do(ctx, fastRetryConfig(), func(ctx context.Context) error {
			calls++
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("Retries transient errors up to the limit", func(t *testing.T) {
		calls := 0
		transient := NewTransientError(errors.New("upstream 503"), http.StatusServiceUnavailable)

		err := Do(ctx, fastRetryConfig(), func(ctx context.Context) error {
			calls++
			return transient
		})

		assert.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Recovers when a retry succeeds", func(t *testing.T) {
		calls := 0
		err := Do(ctx, fastRetryConfig(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return NewTransientError(errors.New("flaky"), 0)
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Does not retry permanent errors", func(t *testing.T) {
		calls := 0
		err := Do(ctx, fastRetryConfig(), func(ctx context.Context) error {
			calls++
			return errors.New("malformed document")
		})

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("Stops on context cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		calls := 0

		err := Do(cctx, fastRetryConfig(), func(ctx context.Context) error {
			calls++
			cancel()
			return NewTransientError(errors.New("flaky"), 0)
		})

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("OnRetry is called before each sleep", func(t *testing.T) {
		var attempts []int
		cfg := fastRetryConfig()
		cfg.OnRetry = func(attempt int, err error) {
			attempts = append(attempts, attempt)
		}

		Do(ctx, cfg, func(ctx context.Context) error {
			return NewTransientError(errors.New("flaky"), 0)
		})

		assert.Equal(t, []int{1, 2}, attempts)
	})
}

func TestIsTransient(t *testing.T) {
	t.Run("Wrapped transient errors", func(t *testing.T) {
		err := NewTransientError(errors.New("boom"), 503)
		assert.True(t, IsTransient(err))
	})

	t.Run("Connection reset", func(t *testing.T) {
		assert.True(t, IsTransient(syscall.ECONNRESET))
	})

	t.Run("Connection refused", func(t *testing.T) {
		assert.True(t, IsTransient(syscall.ECONNREFUSED))
	})

	t.Run("Plain errors are permanent", func(t *testing.T) {
		assert.False(t, IsTransient(errors.New("invalid payload")))
	})

	t.Run("Nil is not transient", func(t *testing.T) {
		assert.False(t, IsTransient(nil))
	})
}
