package haptictransport

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticconfig"
)

type clientConfig struct {
	AppName              string
	Timeout              time.Duration
	TransportMiddlewares []roundTripperMiddleware
	Headers              map[string]string

	Retryer    RetryStrategy
	MaxRetries int

	Backoff      BackoffStrategy
	MinRetryWait time.Duration
	MaxRetryWait time.Duration

	RateLimiter RateLimiter

	Logger *zerolog.Logger
}

// ClientOption configures the client.
type ClientOption = hapticconfig.Option[clientConfig]

// WithAppName sets the user agent for the client.
func WithAppName(appName string) ClientOption {
	return hapticconfig.OptionFunc[clientConfig](func(c *clientConfig) {
		c.AppName = appName
	})
}

// WithTimeout sets the timeout for the client.
func WithTimeout(timeout time.Duration) ClientOption {
	return hapticconfig.OptionFunc[clientConfig](func(c *clientConfig) {
		c.Timeout = timeout
	})
}

// WithLogger sets the logger for the client.
func WithLogger(log *zerolog.Logger) ClientOption {
	return hapticconfig.OptionFunc[clientConfig](func(c *clientConfig) {
		c.Logger = log
	})
}

// WithBasicAuth authorizes every request with the given app_id/api_key pair.
func WithBasicAuth(username, password string) ClientOption {
	return hapticconfig.OptionFunc[clientConfig](func(c *clientConfig) {
		c.TransportMiddlewares = append(c.TransportMiddlewares, clientAuthorizationToken(basicAuthorization(username, password)))
	})
}

// WithHeader sets a default header for the client.
func WithHeader(key, value string) ClientOption {
	return hapticconfig.OptionFunc[clientConfig](func(c *clientConfig) {
		c.TransportMiddlewares = append(c.TransportMiddlewares, clientHeader(key, value))
	})
}

// WithRetryStrategy sets the retry classifier.
func WithRetryStrategy(strategy RetryStrategy) ClientOption {
	return hapticconfig.OptionFunc[clientConfig](func(c *clientConfig) {
		c.Retryer = strategy
	})
}

// WithMaxRetries sets the maximum number of retries.
func WithMaxRetries(maxRetries int) ClientOption {
	return hapticconfig.OptionFunc[clientConfig](func(c *clientConfig) {
		c.MaxRetries = maxRetries
	})
}

// WithRetryWaitTimes sets the minimum and maximum wait times for retries.
func WithRetryWaitTimes(minWait, maxWait time.Duration) ClientOption {
	return hapticconfig.OptionFunc[clientConfig](func(c *clientConfig) {
		c.MinRetryWait = minWait
		c.MaxRetryWait = maxWait
	})
}

// WithRateLimiter sets the dispatch rate limiter.
func WithRateLimiter(rl RateLimiter) ClientOption {
	return hapticconfig.OptionFunc[clientConfig](func(c *clientConfig) {
		c.RateLimiter = rl
	})
}
