// Package kv provides the durable key-value surface backing quote draft
// persistence.
//
// Two tiers exist, mirroring how a browser splits its storage:
//   - a session tier (MemoryStore) whose contents end with the process
//   - a persistent tier (FileStore) that survives restarts
//
// Values are strings; callers bring their own serialization.
package kv

import "errors"

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a flat string key-value store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys lists all stored keys in unspecified order.
	Keys() ([]string, error)
}
