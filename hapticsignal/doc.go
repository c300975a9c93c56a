// Package hapticsignal provides a thread-safe, generic publish/subscribe
// scheduler used to fan a periodically produced value out to any number of
// observers without blocking the producer.
//
// ControllerCore uses it to broadcast StatusSnapshot values to GUIs and
// other passive observers on a fixed cadence (spec's "status reads do not
// serialize with commands" design note): the snapshot is produced once
// under a short-lived lock and handed to the scheduler's signalFactory,
// which fans it out to every subscriber.
//
// # BrokerScheduler
//
// High-performance concurrent scheduler that prevents head-of-line blocking
// by sending signals to all subscribers concurrently. Slow subscribers
// don't affect fast ones. This is the default status broadcaster.
//
// # SequentialScheduler
//
// Simple sequential scheduler that sends signals to all subscribers within
// the main loop. Uses fewer resources but slow subscribers can delay
// delivery to others; selectable when a deployment has few, well-behaved
// observers and wants to avoid the extra goroutine-per-tick fan-out.
//
// # Thread Safety
//
// All operations are thread-safe. Signal sends are non-blocking and
// silently drop signals that cannot be delivered, preventing deadlocks.
package hapticsignal
