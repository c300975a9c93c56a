// Package hapticphase implements the controller's phase-shift calibration:
// a persisted PhaseShift, a volatile session-scoped delta staged while
// running, and a PendingDelta consumed once by the beat loop. See spec
// section 4.6 for the full state-machine rationale.
package hapticphase
