package hapticcore

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticconfig"
	"github.com/haptic-sync/beatctl/hapticsignal"
)

// DefaultBPM is the controller's initial BPM (spec section 3).
const DefaultBPM = 120

// DefaultCommandTimeout is the suggested per-command caller timeout (spec
// section 5: "every external submission carries a timeout, default 5
// seconds, after which the caller observes a timeout error; the scheduler
// still completes the work"). Callers apply it themselves via
// context.WithTimeout, since Core's command methods take a caller-supplied
// context rather than imposing one internally.
const DefaultCommandTimeout = 5 * time.Second

// StatusSchedulerKind selects which hapticsignal.Scheduler implementation
// republishes StatusSnapshots to observers.
type StatusSchedulerKind int

const (
	// StatusSchedulerBroker fans a snapshot out to all subscribers
	// concurrently (hapticsignal.BrokerScheduler). Default.
	StatusSchedulerBroker StatusSchedulerKind = iota
	// StatusSchedulerSequential sends to subscribers one at a time within
	// the scheduler's own loop (hapticsignal.SequentialScheduler).
	StatusSchedulerSequential
)

type coreConfig struct {
	logger           *zerolog.Logger
	initialBPM       int
	statusKind       StatusSchedulerKind
	statusPeriod     time.Duration
	statusBufferSize uint16
}

func newDefaultConfig() coreConfig {
	return coreConfig{
		logger:           nil,
		initialBPM:       DefaultBPM,
		statusKind:       StatusSchedulerBroker,
		statusPeriod:     500 * time.Millisecond,
		statusBufferSize: 5,
	}
}

// Option configures a Core.
type Option = hapticconfig.Option[coreConfig]

// WithLogger sets the logger used for all of Core's internal components.
func WithLogger(log *zerolog.Logger) Option {
	return hapticconfig.OptionFunc[coreConfig](func(c *coreConfig) {
		c.logger = log
	})
}

// WithInitialBPM overrides DefaultBPM.
func WithInitialBPM(bpm int) Option {
	return hapticconfig.OptionFunc[coreConfig](func(c *coreConfig) {
		c.initialBPM = bpm
	})
}

// WithStatusSchedulerKind selects the status fan-out implementation.
func WithStatusSchedulerKind(kind StatusSchedulerKind) Option {
	return hapticconfig.OptionFunc[coreConfig](func(c *coreConfig) {
		c.statusKind = kind
	})
}

// WithStatusPeriod sets how often the status scheduler republishes a
// snapshot to subscribers.
func WithStatusPeriod(period time.Duration) Option {
	return hapticconfig.OptionFunc[coreConfig](func(c *coreConfig) {
		c.statusPeriod = period
	})
}

// WithStatusBufferSize sets each subscriber's signal buffer size.
func WithStatusBufferSize(size uint16) Option {
	return hapticconfig.OptionFunc[coreConfig](func(c *coreConfig) {
		c.statusBufferSize = size
	})
}

func (c coreConfig) signalConfig() hapticsignal.Config {
	opts := []hapticsignal.Option{
		hapticsignal.WithPeriod(c.statusPeriod),
		hapticsignal.WithBufferSize(c.statusBufferSize),
	}

	if c.logger != nil {
		opts = append(opts, hapticsignal.WithLogger(c.logger))
	}

	return hapticsignal.NewConfig(opts...)
}
