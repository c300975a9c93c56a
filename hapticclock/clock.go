// Package hapticclock separates wall-clock time (used only to align a
// scheduled start against a remote-supplied epoch-millisecond target) from
// monotonic time (used only to pace beats within a run, immune to wall-clock
// jumps).
package hapticclock

import "time"

// Clock provides the two time sources the controller needs.
type Clock interface {
	// NowWallMS returns the current epoch time in milliseconds (UTC).
	NowWallMS() int64

	// NowMono returns a time.Time suitable only for measuring elapsed
	// monotonic intervals (via Sub/Since); never persist or compare it
	// against a wall-clock value.
	NowMono() time.Time
}

// SystemClock is the production Clock, backed by the runtime clock.
type SystemClock struct{}

// NewSystemClock returns the production Clock.
func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) NowWallMS() int64 {
	return time.Now().UnixMilli()
}

func (SystemClock) NowMono() time.Time {
	return time.Now()
}
