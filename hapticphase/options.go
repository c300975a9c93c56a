package hapticphase

import (
	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticconfig"
)

type managerConfig struct {
	log *zerolog.Logger
}

// Option configures a Manager.
type Option = hapticconfig.Option[managerConfig]

// WithLogger sets the logger used for non-fatal persistence failures.
func WithLogger(log *zerolog.Logger) Option {
	return hapticconfig.OptionFunc[managerConfig](func(c *managerConfig) {
		c.log = log
	})
}
