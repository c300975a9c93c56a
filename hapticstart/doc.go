// Package hapticstart implements the controller's synchronized-start
// handshake (spec section 4.5): actuator initialization runs concurrently
// with a wall-clock sleep until a remote-agreed target, and the run is
// discarded if it has gone stale by the time both finish.
//
// The loop shape mirrors hapticbeat's cancellable goroutine plus
// Start/Stop contract; the parallel init/sleep join is grounded on the
// same teacher loop generalized with a sync.WaitGroup-free select join,
// since only two branches ever need to rendezvous here.
package hapticstart
