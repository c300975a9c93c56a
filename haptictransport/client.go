package haptictransport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	defaultUserAgent   = "haptictransport.Client"
	defaultTimeout     = 10 * time.Second
	defaultRetries     = 2
	defaultBackoffTime = 150 * time.Millisecond

	respSizeLimit = int64(1 * 1024 * 1024) // 1MB, the bridge only ever answers with small JSON
)

var ErrorTimeout = errors.New("request timeout")

// Client is a wrapper around http.Client used to reach the haptic device bridge.
type Client struct {
	baseClient *http.Client
	logger     *zerolog.Logger
	retryer    RetryStrategy
	limiter    RateLimiter

	backoff      BackoffStrategy
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	maxRetries int
}

// NewClient returns a new Client. The base transport is built from
// retryablehttp with its own retry loop disabled (RetryMax: 0) so that this
// package's retry/backoff/rate-limit policy is the single source of truth;
// retryablehttp still supplies connection reuse and response-draining
// defaults tuned for flaky local bridges.
func NewClient(opts ...ClientOption) *Client {
	defaultLogger := zerolog.Nop()

	cfg := &clientConfig{
		AppName: defaultUserAgent,
		Timeout: defaultTimeout,
		Logger:  &defaultLogger,

		Retryer:    NoRetry,
		MaxRetries: defaultRetries,

		Backoff: ConstantBackoff(defaultBackoffTime),

		RateLimiter: NoRateLimit{},
	}

	for _, o := range opts {
		o.Apply(cfg)
	}

	return buildClient(cfg)
}

func buildClient(cfg *clientConfig) *Client {
	cfg.TransportMiddlewares = append(cfg.TransportMiddlewares, clientUserAgent(cfg.AppName))

	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = nil
	rc.HTTPClient.Timeout = cfg.Timeout

	baseTransport := chainRoundTrippers(rc.HTTPClient.Transport, cfg.TransportMiddlewares...)

	return &Client{
		baseClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: baseTransport,
		},
		logger:       cfg.Logger,
		retryer:      cfg.Retryer,
		backoff:      cfg.Backoff,
		maxRetries:   cfg.MaxRetries,
		retryWaitMin: cfg.MinRetryWait,
		retryWaitMax: cfg.MaxRetryWait,
		limiter:      cfg.RateLimiter,
	}
}

// DoJSON executes a JSON request, retrying according to the configured
// RetryStrategy/BackoffStrategy, and rate-limiting dispatch via the
// configured RateLimiter.
func (c *Client) DoJSON(ctx context.Context, method, url string, payload any) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait canceled")
	}

	req, err := NewRequestJSON(ctx, method, url, payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	var (
		reqBodyBytes []byte
		resp         *http.Response
		shouldRetry  bool
		doErr        error
	)

	if req.Body != nil {
		reqBodyBytes, _ = io.ReadAll(req.Body)
	}

	for i := 0; ; i++ {
		if reqBodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewBuffer(reqBodyBytes))
		}

		resp, doErr = c.baseClient.Do(req)
		shouldRetry = c.retryer.Classify(req.Context(), resp, doErr)

		if doErr != nil {
			c.logger.Debug().Err(doErr).
				Str("method", req.Method).
				Str("url", req.URL.String()).
				Msg("failed to execute request")
		}

		if !shouldRetry {
			break
		}

		remainAtt := c.maxRetries - i
		if remainAtt <= 0 {
			break
		}

		if doErr == nil {
			c.drainBody(resp.Body)
		}

		wait := c.backoff.Backoff(c.retryWaitMin, c.retryWaitMax, i, resp)

		timer := time.NewTimer(wait)
		select {
		case <-req.Context().Done():
			timer.Stop()
			c.baseClient.CloseIdleConnections()

			return nil, req.Context().Err()
		case <-timer.C:
		}
	}

	if doErr == nil && !shouldRetry {
		return resp, nil
	}

	return nil, ErrorResponse{Response: resp, Original: doErr}
}

func (c *Client) drainBody(body io.ReadCloser) {
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, respSizeLimit))
		_ = body.Close()
	}
}

type ErrorResponse struct {
	Response *http.Response
	Original error
}

func (r ErrorResponse) Error() string {
	if r.Response == nil {
		return r.Original.Error()
	}

	return fmt.Sprintf("%v %v: %d",
		r.Response.Request.Method, r.Response.Request.URL, r.Response.StatusCode,
	)
}
