package haptictransport

import (
	"context"
	"net/http"
)

// RetryStrategy classifies a response/error into a retry decision.
type RetryStrategy interface {
	Classify(ctx context.Context, resp *http.Response, err error) bool
}

// RetryStrategyFunc is a function that implements RetryStrategy.
type RetryStrategyFunc func(ctx context.Context, resp *http.Response, err error) bool

func (f RetryStrategyFunc) Classify(ctx context.Context, resp *http.Response, err error) bool {
	return f(ctx, resp, err)
}

var (
	// NoRetry never retries.
	NoRetry = RetryStrategyFunc(func(context.Context, *http.Response, error) bool {
		return false
	})

	// RetryOnServerError retries on transport errors and HTTP 5xx responses —
	// the bridge's own crash/restart loop, not a malformed request.
	RetryOnServerError = RetryStrategyFunc(func(_ context.Context, resp *http.Response, err error) bool {
		if err != nil {
			return true
		}

		return resp != nil && resp.StatusCode >= http.StatusInternalServerError
	})
)
