// Package hapticbeat implements the controller's cadence loop (spec section
// 4.4): a cancellable periodic task whose period tracks a live BPM value and
// whose next tick can be nudged by a pending phase-shift delta, without
// stopping playback.
//
// The loop shape (context-cancellable select loop, mutex-guarded isRunning,
// Start/Stop contract) is grounded on hapticsignal's SequentialScheduler,
// generalized to a manually armed time.Timer instead of a time.Ticker,
// since here the period and the next-tick baseline both mutate mid-loop.
package hapticbeat
