// Package hapticlog builds zerolog loggers for the controller and its
// collaborators, with a no-op default so components never have to nil-check
// their logger.
package hapticlog

import (
	"os"

	"github.com/rs/zerolog"
)

const applicationKey = "application"

// New builds a logger from the given options, writing to stdout by default.
func New(options ...Option) *zerolog.Logger {
	logger := zerolog.New(os.Stdout)

	for _, o := range options {
		o.Apply(&logger)
	}

	return &logger
}

// NewDefault builds the controller's standard production logger: info level,
// stdout, caller, timestamp and stack-trace hook, tagged with appName.
func NewDefault(appName string) *zerolog.Logger {
	options := []Option{
		WithLevel(zerolog.InfoLevel),
		WithOutput(os.Stdout),
		WithCaller(),
		WithTime(),
		WithStack(),
		WithApplicationName(appName),
	}

	return New(options...)
}

// NewNoOp returns a logger that discards everything, for tests and for
// collaborators that were not given an explicit logger.
func NewNoOp() *zerolog.Logger {
	logger := zerolog.Nop()

	return &logger
}
