// Package haptictests provides testing utilities for environment variables,
// networking, HTTP servers, and context management, shared across the
// controller's test suites.
package haptictests
