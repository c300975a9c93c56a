package hapticdevice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticlog"
)

// NoopActuator logs every call and otherwise does nothing. Used in tests
// and by operators running without a paired device.
type NoopActuator struct {
	logger *zerolog.Logger
}

// NewNoopActuator builds a NoopActuator. A nil logger falls back to a
// no-op logger.
func NewNoopActuator(logger *zerolog.Logger) *NoopActuator {
	if logger == nil {
		logger = hapticlog.NewNoOp()
	}

	return &NoopActuator{logger: logger}
}

func (a *NoopActuator) Initialize(context.Context) error {
	a.logger.Debug().Msg("noop actuator initialize")
	return nil
}

func (a *NoopActuator) Play(_ context.Context, offset, durationMS int, _ [MotorCount]byte, repeat int) error {
	a.logger.Debug().Int("offset", offset).Int("duration_ms", durationMS).Int("repeat", repeat).Msg("noop actuator play")
	return nil
}

func (a *NoopActuator) StopAll(context.Context) error {
	a.logger.Debug().Msg("noop actuator stop_all")
	return nil
}

func (a *NoopActuator) Close(context.Context) error {
	a.logger.Debug().Msg("noop actuator close")
	return nil
}
