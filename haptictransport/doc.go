// Package haptictransport is a small HTTP client wrapper used to talk to the
// haptic device bridge: retries, backoff, a token-bucket dispatch limiter,
// and bearer/basic auth middleware over a retryablehttp-backed transport.
package haptictransport
