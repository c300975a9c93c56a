package haptictransport

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoRateLimit(t *testing.T) {
	t.Parallel()

	limiter := NoRateLimit{}
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx))
	assert.True(t, limiter.Allow(ctx))
	assert.True(t, limiter.Allow(ctx))

	assert.NoError(t, limiter.Wait(ctx))
}

func TestTokenBucketRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	t.Run("allows up to burst capacity", func(t *testing.T) {
		limiter := NewTokenBucketRateLimiter(1, 3)
		ctx := context.Background()

		assert.True(t, limiter.Allow(ctx))
		assert.True(t, limiter.Allow(ctx))
		assert.True(t, limiter.Allow(ctx))

		assert.False(t, limiter.Allow(ctx))
	})

	t.Run("refills tokens over time", func(t *testing.T) {
		limiter := NewTokenBucketRateLimiter(10, 2)
		ctx := context.Background()

		assert.True(t, limiter.Allow(ctx))
		assert.True(t, limiter.Allow(ctx))
		assert.False(t, limiter.Allow(ctx))

		time.Sleep(110 * time.Millisecond)

		assert.True(t, limiter.Allow(ctx))
		assert.False(t, limiter.Allow(ctx))
	})
}

func TestTokenBucketRateLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("waits for token availability", func(t *testing.T) {
		limiter := NewTokenBucketRateLimiter(10, 1)
		ctx := context.Background()

		assert.True(t, limiter.Allow(ctx))

		start := time.Now()
		err := limiter.Wait(ctx)
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond, "expected to wait at least 90ms, got %v", elapsed)
		assert.Less(t, elapsed, 200*time.Millisecond, "expected to wait less than 200ms, got %v", elapsed)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		limiter := NewTokenBucketRateLimiter(1, 1)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.True(t, limiter.Allow(ctx))

		err := limiter.Wait(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "context deadline")
	})
}

func TestTokenBucketRateLimiter_Concurrent(t *testing.T) {
	t.Parallel()

	limiter := NewTokenBucketRateLimiter(100, 10)
	ctx := context.Background()

	var (
		allowed           atomic.Int32
		denied            atomic.Int32
		wg                sync.WaitGroup
		numWorkers        = 20
		requestsPerWorker = 5
	)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < requestsPerWorker; j++ {
				if limiter.Allow(ctx) {
					allowed.Add(1)
				} else {
					denied.Add(1)
				}
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(10), allowed.Load())
	assert.Equal(t, int32(90), denied.Load())
}
