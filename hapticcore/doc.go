// Package hapticcore implements ControllerCore (spec section 4.7): a
// single-consumer command processor composing the beat cadence loop, the
// synchronized-start handshake, and phase-shift calibration over an
// actuator, a clock, and durable configuration.
//
// Commands enter from arbitrary goroutines (a broker callback, a GUI, a
// signal handler) and are marshalled onto one internal goroutine that
// applies them to completion, one at a time, in enqueue order — the
// teacher's bounded-command-channel-with-per-command-reply-channel
// pattern. Status reads take a separate, short-lived lock and never wait
// behind a command.
package hapticcore
