// Package hapticmsg implements the controller's MessageAdapter (spec
// section 4.8): parsing broker payloads on the bpm and run topics into
// typed commands. Parsing is pure and side-effect free; callers dispatch
// the returned command to ControllerCore and are responsible for logging
// parse failures.
package hapticmsg
