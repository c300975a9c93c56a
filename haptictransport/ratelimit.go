package haptictransport

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter bounds the rate at which requests are dispatched to the bridge,
// so a pathological BPM cannot turn into an HTTP flood.
type RateLimiter interface {
	// Allow checks if a request is allowed without blocking.
	Allow(ctx context.Context) bool

	// Wait blocks until the request can proceed or the context is canceled.
	Wait(ctx context.Context) error
}

// NoRateLimit never limits requests.
type NoRateLimit struct{}

func (NoRateLimit) Allow(context.Context) bool {
	return true
}

func (NoRateLimit) Wait(context.Context) error {
	return nil
}

// TokenBucketRateLimiter implements rate limiting using the token bucket algorithm.
type TokenBucketRateLimiter struct {
	limiter *rate.Limiter
}

// NewTokenBucketRateLimiter creates a new token bucket rate limiter.
//
//   - ratePerSecond: should be positive. Use rate.Inf for no limit.
//   - burst: should be >= 1. A burst of 0 means no requests can ever succeed.
func NewTokenBucketRateLimiter(ratePerSecond float64, burst int) *TokenBucketRateLimiter {
	return &TokenBucketRateLimiter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (tb *TokenBucketRateLimiter) Allow(_ context.Context) bool {
	return tb.limiter.Allow()
}

func (tb *TokenBucketRateLimiter) Wait(ctx context.Context) error {
	return tb.limiter.Wait(ctx)
}
