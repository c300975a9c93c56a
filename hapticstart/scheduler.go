package hapticstart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticclock"
	"github.com/haptic-sync/beatctl/hapticlog"
)

var ErrAlreadyRunning = errors.New("start scheduler is already running")

// Initializer performs whatever setup the actuator needs before a
// synchronized start may fire (spec section 4.5, step 1).
type Initializer interface {
	Init(ctx context.Context) error
}

// Validator re-checks, at the moment both the sleep and the init have
// completed, whether this run is still the one that should fire (spec
// section 4.5, step 4: stale ScheduleId or RunState no longer Scheduled).
type Validator func() bool

// OnReady is invoked once the target has been reached, init has
// succeeded, and Validator has confirmed the run is still live. lastActualMS
// is the wall-clock reading taken at that moment (spec section 4.5, step 5).
type OnReady func(lastActualMS int64)

// OnFail is invoked when the handshake cannot complete: actuator
// initialization failed at fire time (spec section 4.9: "surfaced; RunState
// returns to Stopped"). It is not invoked on cancellation or on a stale/
// superseded validate() result, since those already have a current owner of
// RunState and must not stomp on it.
type OnFail func(err error)

// Scheduler runs the parallel init/sleep-until-target handshake described
// by spec section 4.5. A single Scheduler instance runs at most one
// handshake at a time.
type Scheduler struct {
	clock  hapticclock.Clock
	logger *zerolog.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	doneCh    chan struct{}
}

// New builds a start Scheduler.
func New(clock hapticclock.Clock, logger *zerolog.Logger) *Scheduler {
	if logger == nil {
		logger = hapticlog.NewNoOp()
	}

	return &Scheduler{clock: clock, logger: logger}
}

// Start begins the handshake for targetMS and returns immediately. init
// runs in its own goroutine alongside the sleep until targetMS; validate
// is invoked from the scheduler's own goroutine, and ready is invoked
// synchronously from that same goroutine once the run is
// confirmed live, so the caller can transition state and spawn the beat
// loop without an extra handoff.
func (s *Scheduler) Start(ctx context.Context, targetMS int64, init Initializer, validate Validator, ready OnReady, fail OnFail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	doneCh := make(chan struct{})

	s.isRunning = true
	s.cancel = cancel
	s.doneCh = doneCh

	go func() {
		defer close(doneCh)
		s.run(runCtx, targetMS, init, validate, ready, fail)
	}()

	return nil
}

// Stop cancels the in-flight sleep and initialization and waits for the
// goroutine to exit (spec section 4.5: "cancellation must cancel the
// in-flight sleep and the initialization task").
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}

	cancel := s.cancel
	doneCh := s.doneCh
	s.mu.Unlock()

	cancel()
	<-doneCh

	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()
}

func (s *Scheduler) run(ctx context.Context, targetMS int64, init Initializer, validate Validator, ready OnReady, fail OnFail) {
	initDone := make(chan error, 1)
	go func() {
		initDone <- init.Init(ctx)
	}()

	if !s.sleepUntil(ctx, targetMS) {
		return
	}

	var initErr error
	select {
	case <-ctx.Done():
		return
	case initErr = <-initDone:
	}

	if initErr != nil {
		s.logger.Warn().Err(initErr).Msg("actuator initialization failed, discarding scheduled start")

		if fail != nil {
			fail(initErr)
		}

		return
	}

	if !validate() {
		s.logger.Info().Msg("scheduled start discarded: stale or no longer scheduled")
		return
	}

	ready(s.clock.NowWallMS())
}

// sleepUntil blocks until targetMS on the wall clock, or returns false if
// ctx is cancelled first.
func (s *Scheduler) sleepUntil(ctx context.Context, targetMS int64) bool {
	delay := targetMS - s.clock.NowWallMS()
	if delay <= 0 {
		return true
	}

	timer := time.NewTimer(time.Duration(delay) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
