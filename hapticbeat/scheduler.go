package hapticbeat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticclock"
	"github.com/haptic-sync/beatctl/hapticlog"
)

// MotorCount is the fixed length of the intensity vector sent on every beat.
const MotorCount = 32

// BeatIntensity is the fixed per-beat amplitude for every motor (spec
// section 4.4: "a fixed constant for this core; making it data-driven is a
// future extension").
const BeatIntensity = 20

const (
	beatOffset     = 0
	beatDurationMS = 100
	beatRepeat     = -1
)

var ErrAlreadyRunning = errors.New("beat scheduler is already running")

// Actuator is the subset of the device driver the beat loop dispatches to.
type Actuator interface {
	Play(ctx context.Context, offset, durationMS int, intensities [MotorCount]byte, repeat int) error
}

// BPMSource supplies the live, re-readable BPM value.
type BPMSource interface {
	BPM() int
}

// PendingDeltaSource supplies the single-cycle phase nudge, consumed once
// per iteration.
type PendingDeltaSource interface {
	TakePendingDelta() int
}

// Scheduler drives Actuator.Play at a period of 60000/BPM ms, re-reading BPM
// every iteration and applying any queued PendingDelta to the next tick
// baseline (spec section 4.4, steps 1-5).
type Scheduler struct {
	actuator Actuator
	bpm      BPMSource
	delta    PendingDeltaSource
	clock    hapticclock.Clock
	logger   *zerolog.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	doneCh    chan struct{}
}

// New builds a beat Scheduler.
func New(actuator Actuator, bpm BPMSource, delta PendingDeltaSource, clock hapticclock.Clock, logger *zerolog.Logger) *Scheduler {
	if logger == nil {
		logger = hapticlog.NewNoOp()
	}

	return &Scheduler{
		actuator: actuator,
		bpm:      bpm,
		delta:    delta,
		clock:    clock,
		logger:   logger,
	}
}

// Start arms the cadence loop in its own goroutine and returns immediately;
// spec's catch-up behavior (step 4) and PendingDelta consumption (step 2)
// happen inside that goroutine. At most one loop may run at a time (spec
// invariant I1).
func (s *Scheduler) Start(ctx context.Context) error {
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
		s.loop(runCtx)
	}()

	return nil
}

// Stop cancels the cadence loop and waits for it to exit. It does not call
// Actuator.StopAll: per spec section 4.4, the caller is expected to do that
// after cancellation returns, so Stop must not leave the actuator mid-play.
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

func (s *Scheduler) loop(ctx context.Context) {
	nextTick := s.clock.NowMono()
	intensities := intensityVector()

	for {
		period := periodFor(s.bpm.BPM())

		if pending := s.delta.TakePendingDelta(); pending != 0 {
			nextTick = nextTick.Add(-time.Duration(pending) * time.Millisecond)
		}

		if err := s.actuator.Play(ctx, beatOffset, beatDurationMS, intensities, beatRepeat); err != nil {
			s.logger.Warn().Err(err).Msg("actuator play failed, continuing on next tick")
		}

		now := s.clock.NowMono()
		nextTick = advancePastDue(nextTick.Add(period), period, now)
		sleepFor := nextTick.Sub(now)

		timer := time.NewTimer(sleepFor)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// periodFor converts a BPM value into a beat period, flooring BPM at 1 since
// a zero or negative value would stall or invert the cadence. Core.SetBPM
// rejects non-positive BPM before it ever reaches the scheduler; this floor
// only guards against a stale BPMSource snapshot.
func periodFor(bpm int) time.Duration {
	if bpm <= 0 {
		bpm = 1
	}

	periodMS := 60000.0 / float64(bpm)

	return time.Duration(periodMS * float64(time.Millisecond))
}

// advancePastDue repeatedly adds period to tick until it is strictly after
// now, without ever playing an extra beat (spec section 4.4, step 4: missed
// wakeups are caught up silently, not replayed).
func advancePastDue(tick time.Time, period time.Duration, now time.Time) time.Time {
	for !tick.After(now) {
		tick = tick.Add(period)
	}

	return tick
}

func intensityVector() [MotorCount]byte {
	var v [MotorCount]byte
	for i := range v {
		v[i] = BeatIntensity
	}

	return v
}
