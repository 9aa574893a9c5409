package kv

import "errors"

// ErrUnavailable is returned when the durable medium cannot be read or
// written. Operations that hit it fail as a whole; there is no retry.
var ErrUnavailable = errors.New("durable store unavailable")

// Store is the persistence contract the core depends on: opaque string
// values under string keys, synchronous reads and writes.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	// Set writes the value, replacing any previous one.
	Set(key, value string) error
}
