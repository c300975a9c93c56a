package hapticstore

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticconfig"
	"github.com/haptic-sync/beatctl/hapticlog"
)

const defaultBucket = "config"

type storeConfig struct {
	bucket     string
	openTimeout time.Duration
	logger     *zerolog.Logger
}

func newDefaultConfig() *storeConfig {
	return &storeConfig{
		bucket:      defaultBucket,
		openTimeout: time.Second,
		logger:      hapticlog.NewNoOp(),
	}
}

// Option configures a ConfigStore.
type Option = hapticconfig.Option[storeConfig]

// WithBucket overrides the bbolt bucket name holding the config records.
func WithBucket(name string) Option {
	return hapticconfig.OptionFunc[storeConfig](func(c *storeConfig) {
		c.bucket = name
	})
}

// WithOpenTimeout bounds how long Open waits to acquire the bbolt file lock.
func WithOpenTimeout(d time.Duration) Option {
	return hapticconfig.OptionFunc[storeConfig](func(c *storeConfig) {
		c.openTimeout = d
	})
}

// WithLogger sets the logger used for non-fatal persistence failures.
func WithLogger(logger *zerolog.Logger) Option {
	return hapticconfig.OptionFunc[storeConfig](func(c *storeConfig) {
		c.logger = logger
	})
}
