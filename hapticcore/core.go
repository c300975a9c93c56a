package hapticcore

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticbeat"
	"github.com/haptic-sync/beatctl/hapticclock"
	"github.com/haptic-sync/beatctl/hapticdevice"
	"github.com/haptic-sync/beatctl/hapticlog"
	"github.com/haptic-sync/beatctl/hapticphase"
	"github.com/haptic-sync/beatctl/hapticsignal"
	"github.com/haptic-sync/beatctl/hapticstart"
)

// ErrInvalidBPM is returned by SetBPM for a non-positive value.
var ErrInvalidBPM = errors.New("bpm must be positive")

// ErrStaleStart is returned by ScheduleStart when the target has already
// lapsed by more than the staleness threshold (spec invariant I6).
var ErrStaleStart = errors.New("ignored stale start")

// ErrClosed is returned by any command submitted after Close has completed.
var ErrClosed = errors.New("controller core is closed")

// ErrInvalidScheduleTarget is returned by ScheduleStart when the supplied
// payload target is not a plausible epoch-ms timestamp (spec section 4.7:
// "validates epoch-ms (>= 10^11)"). MessageAdapter already rejects this
// before a broker message ever reaches Core; this is the same check
// enforced directly on the Core API for callers that bypass the adapter.
var ErrInvalidScheduleTarget = errors.New("schedule target is not a plausible epoch-ms timestamp")

const staleStartThresholdMS = 5000

const minScheduleTargetMS = 100_000_000_000

// Core is the controller's single-consumer command processor (spec
// section 4.7). Construct with New and drive it with SetBPM, Stop,
// ScheduleStart, SetPhaseShift and Close; read Status at any time without
// waiting on a command.
type Core struct {
	actuator hapticdevice.Actuator
	clock    hapticclock.Clock
	phase    *hapticphase.Manager
	beat     *hapticbeat.Scheduler
	start    *hapticstart.Scheduler
	logger   *zerolog.Logger

	statusScheduler hapticsignal.Scheduler[StatusSnapshot]

	ctx    context.Context
	cancel context.CancelFunc

	cmdCh    chan command
	loopDone chan struct{}

	scheduleID atomic.Int64

	mu                  sync.Mutex
	closed              bool
	bpm                 int
	runState            RunState
	lastPayloadTargetMS int64
	lastTargetMS        int64
	lastActualMS        int64
	lastEventText       string
}

// New builds a Core. actuator, clock and phase are the C2/C3/C6
// collaborators; phase should already be loaded from a ConfigStore (spec
// section 4.6).
func New(actuator hapticdevice.Actuator, clock hapticclock.Clock, phase *hapticphase.Manager, opts ...Option) *Core {
	cfg := newDefaultConfig()
	for _, o := range opts {
		o.Apply(&cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = hapticlog.NewNoOp()
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Core{
		actuator: actuator,
		clock:    clock,
		phase:    phase,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		cmdCh:    make(chan command, 16),
		loopDone: make(chan struct{}),
		bpm:      cfg.initialBPM,
		runState: Stopped,
	}

	c.beat = hapticbeat.New(actuatorAdapter{actuator}, bpmAdapter{c}, phase, clock, logger)
	c.start = hapticstart.New(clock, logger)

	signalCfg := cfg.signalConfig()

	switch cfg.statusKind {
	case StatusSchedulerSequential:
		c.statusScheduler = hapticsignal.NewSequentialScheduler[StatusSnapshot](signalCfg)
	default:
		c.statusScheduler = hapticsignal.NewBrokerScheduler[StatusSnapshot](signalCfg)
	}

	go func() {
		_ = c.statusScheduler.Start(ctx, c.Status)
	}()

	go c.run()

	return c
}

// actuatorAdapter makes hapticdevice.Actuator satisfy hapticbeat.Actuator;
// the two Play signatures are already structurally identical, but a named
// adapter keeps the dependency direction explicit and one-way.
type actuatorAdapter struct {
	a hapticdevice.Actuator
}

func (w actuatorAdapter) Play(ctx context.Context, offset, durationMS int, intensities [hapticbeat.MotorCount]byte, repeat int) error {
	return w.a.Play(ctx, offset, durationMS, intensities, repeat)
}

// actuatorInitializer adapts hapticdevice.Actuator.Initialize to
// hapticstart.Initializer.
type actuatorInitializer struct {
	a hapticdevice.Actuator
}

func (w actuatorInitializer) Init(ctx context.Context) error {
	return w.a.Initialize(ctx)
}

// bpmAdapter exposes Core's live BPM as a hapticbeat.BPMSource without
// making Core itself implement an interface consumers might mistake for
// part of its public API.
type bpmAdapter struct {
	c *Core
}

func (b bpmAdapter) BPM() int {
	b.c.mu.Lock()
	defer b.c.mu.Unlock()

	return b.c.bpm
}

// Status returns a copy of the controller's current StatusSnapshot. It
// never waits behind a command (spec section 5: "status snapshot fields:
// guarded by one mutex, held only for field copies").
func (c *Core) Status() StatusSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return StatusSnapshot{
		BPM:                 c.bpm,
		RunState:            c.runState,
		PhaseShift:          c.phase.PhaseShift(),
		SessionDelta:        c.phase.SessionDelta(),
		PendingDelta:        c.phase.PendingDelta(),
		EffectivePhaseShift: c.phase.Effective(),
		LastPayloadTargetMS: c.lastPayloadTargetMS,
		LastTargetMS:        c.lastTargetMS,
		LastActualMS:        c.lastActualMS,
		LastEventText:       c.lastEventText,
	}
}

// Subscribe registers an observer for periodic StatusSnapshot pushes (spec
// section 9's GUI-reads-at-fixed-cadence note). Callers must Unsubscribe
// when done.
func (c *Core) Subscribe() *hapticsignal.JobSignal[StatusSnapshot] {
	return c.statusScheduler.Subscribe()
}

// Unsubscribe removes a previously-registered observer.
func (c *Core) Unsubscribe(sub *hapticsignal.JobSignal[StatusSnapshot]) {
	c.statusScheduler.Unsubscribe(sub)
}
