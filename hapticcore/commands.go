package hapticcore

import (
	"context"

	"github.com/haptic-sync/beatctl/hapticphase"
)

type commandKind int

const (
	cmdSetBPM commandKind = iota
	cmdStop
	cmdScheduleStart
	cmdSetPhaseShift
	cmdClose
)

type command struct {
	kind            commandKind
	bpm             int
	payloadTargetMS int64
	phaseShift      int
	reply           chan error
}

// SetBPM validates bpm is positive and applies it (spec section 4.7).
func (c *Core) SetBPM(ctx context.Context, bpm int) error {
	return c.submit(ctx, command{kind: cmdSetBPM, bpm: bpm})
}

// Stop unconditionally transitions to Stopped: cancels any StartScheduler
// and BeatScheduler, calls Actuator.StopAll, and commits the staged phase
// shift via PhaseShiftManager.
func (c *Core) Stop(ctx context.Context) error {
	return c.submit(ctx, command{kind: cmdStop})
}

// ScheduleStart requests a synchronized start at payloadTargetMS (an
// epoch-ms wall-clock target supplied by the publisher). Rejected if the
// resulting target has already lapsed by more than 5 seconds (ErrStaleStart).
func (c *Core) ScheduleStart(ctx context.Context, payloadTargetMS int64) error {
	return c.submit(ctx, command{kind: cmdScheduleStart, payloadTargetMS: payloadTargetMS})
}

// SetPhaseShift requests a new effective phase shift, clamped to
// [-2000, 2000]. While Running this stages a single-cycle nudge; otherwise
// it commits immediately and, if Scheduled, reschedules the pending start.
func (c *Core) SetPhaseShift(ctx context.Context, newValue int) error {
	return c.submit(ctx, command{kind: cmdSetPhaseShift, phaseShift: newValue})
}

// Close performs Stop semantics, releases the actuator, and stops
// accepting further commands. Safe to call at most once; later calls
// return ErrClosed.
func (c *Core) Close(ctx context.Context) error {
	err := c.submit(ctx, command{kind: cmdClose})
	c.cancel()

	return err
}

func (c *Core) submit(ctx context.Context, cmd command) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	reply := make(chan error, 1)
	cmd.reply = reply

	select {
	case c.cmdCh <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		// The command keeps running to completion on the loop goroutine
		// (spec section 5); the caller just stops waiting for it.
		return ctx.Err()
	}
}

func (c *Core) run() {
	defer close(c.loopDone)

	for cmd := range c.cmdCh {
		err := c.dispatch(cmd)
		if cmd.reply != nil {
			cmd.reply <- err
		}

		if cmd.kind == cmdClose {
			return
		}
	}
}

func (c *Core) dispatch(cmd command) error {
	switch cmd.kind {
	case cmdSetBPM:
		return c.applySetBPM(cmd.bpm)
	case cmdStop:
		return c.applyStop()
	case cmdScheduleStart:
		return c.applyScheduleStart(cmd.payloadTargetMS)
	case cmdSetPhaseShift:
		return c.applySetPhaseShift(cmd.phaseShift)
	case cmdClose:
		return c.applyClose()
	default:
		return nil
	}
}

func (c *Core) applySetBPM(bpm int) error {
	if bpm <= 0 {
		return ErrInvalidBPM
	}

	c.mu.Lock()
	c.bpm = bpm
	c.mu.Unlock()

	return nil
}

func (c *Core) applyStop() error {
	c.scheduleID.Add(1)

	c.start.Stop()
	c.beat.Stop()

	if err := c.actuator.StopAll(c.ctx); err != nil {
		c.logger.Warn().Err(err).Msg("actuator stop_all failed during stop")
	}

	c.phase.CommitOnStop()

	c.mu.Lock()
	c.runState = Stopped
	c.lastEventText = "stopped"
	c.mu.Unlock()

	return nil
}

func (c *Core) applyScheduleStart(payloadTargetMS int64) error {
	if payloadTargetMS < minScheduleTargetMS {
		return ErrInvalidScheduleTarget
	}

	effective := c.phase.Effective()
	targetMS := payloadTargetMS - int64(effective)

	now := c.clock.NowWallMS()
	if now-targetMS > staleStartThresholdMS {
		c.mu.Lock()
		c.lastEventText = "ignored stale start"
		c.mu.Unlock()

		return ErrStaleStart
	}

	id := c.scheduleID.Add(1)

	c.start.Stop()
	c.beat.Stop()

	c.mu.Lock()
	c.runState = Scheduled
	c.lastPayloadTargetMS = payloadTargetMS
	c.lastTargetMS = targetMS
	c.lastEventText = "scheduled"
	c.mu.Unlock()

	return c.armStart(id, targetMS)
}

// armStart arms the StartScheduler for the given ScheduleId/target. It is
// used both by ScheduleStart and by SetPhaseShift's Scheduled-state
// reschedule path.
func (c *Core) armStart(id int64, targetMS int64) error {
	validate := func() bool {
		if c.scheduleID.Load() != id {
			return false
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		return c.runState == Scheduled
	}

	ready := func(actualMS int64) {
		c.mu.Lock()
		c.lastActualMS = actualMS
		c.runState = Running
		c.lastEventText = "running"
		c.mu.Unlock()

		if err := c.beat.Start(c.ctx); err != nil {
			c.logger.Warn().Err(err).Msg("failed to start beat scheduler")
		}
	}

	// fail surfaces an actuator initialization failure at fire time (spec
	// section 4.9): RunState returns to Stopped. It only touches RunState if
	// this handshake is still the current one; a newer ScheduleStart/Stop has
	// already advanced scheduleID and owns RunState by the time this runs.
	fail := func(err error) {
		if c.scheduleID.Load() != id {
			return
		}

		c.mu.Lock()
		if c.runState == Scheduled {
			c.runState = Stopped
			c.lastEventText = "start initialization failed"
		}
		c.mu.Unlock()

		c.logger.Warn().Err(err).Msg("actuator initialization failed, scheduled start discarded")
	}

	return c.start.Start(c.ctx, targetMS, actuatorInitializer{c.actuator}, validate, ready, fail)
}

func (c *Core) applySetPhaseShift(newValue int) error {
	newValue = hapticphase.Clamp(newValue)

	c.mu.Lock()
	state := c.runState
	c.mu.Unlock()

	if state == Running {
		delta := c.phase.RequestRunning(newValue)

		c.mu.Lock()
		c.lastEventText = "phase shift staged"
		c.mu.Unlock()

		c.logger.Debug().Int("delta_ms", delta).Msg("phase shift staged for next beat")

		return nil
	}

	c.phase.RequestIdle(newValue)

	c.mu.Lock()
	c.lastEventText = "phase shift applied"
	payloadTargetMS := c.lastPayloadTargetMS
	isScheduled := c.runState == Scheduled
	c.mu.Unlock()

	if isScheduled && payloadTargetMS != 0 {
		return c.applyScheduleStart(payloadTargetMS)
	}

	return nil
}

func (c *Core) applyClose() error {
	_ = c.applyStop()

	if err := c.actuator.Close(c.ctx); err != nil {
		c.logger.Warn().Err(err).Msg("actuator close failed during shutdown")
	}

	if err := c.statusScheduler.Stop(); err != nil {
		c.logger.Warn().Err(err).Msg("status scheduler stop failed during shutdown")
	}

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	return nil
}
