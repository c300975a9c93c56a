// Package hapticdevice implements the controller's Actuator (spec section
// 4.2): an opaque initialize/play/stop_all/close capability set. HTTPActuator
// talks to the bHaptics Player's local bridge over haptictransport; a
// NoopActuator satisfies the same interface for tests and for operators
// running without a paired device.
package hapticdevice
