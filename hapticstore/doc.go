// Package hapticstore implements the controller's ConfigStore: a durable,
// process-restart-surviving key-to-signed-integer mapping, backed by a
// single-file bbolt database with a write-through in-memory cache so reads
// never touch disk on the hot path.
package hapticstore
