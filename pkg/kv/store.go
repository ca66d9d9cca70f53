// Package kv provides the small key-value persistence layer behind the
// corpus manifest: a Badger-backed store for long-running use and a
// plain-file store for tooling and tests. Both are value-blind; all
// schema knowledge stays with the callers.
package kv

import "errors"

// ErrKeyNotFound is returned by Get when no value is stored for a key.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is a minimal durable byte store.
type Store interface {
	// Get returns the stored value, or ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Set stores a value, replacing any previous one.
	Set(key string, value []byte) error

	// Remove deletes a key. Removing an absent key is not an error.
	Remove(key string) error

	// Close releases the store's resources.
	Close() error
}
