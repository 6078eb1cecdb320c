package storage

import (
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when a key does not exist or has
// passed its expiry hint.
var ErrKeyNotFound = errors.New("key not found")

// KVStore defines the interface for key-value storage backends.
//
// Every key is independent; implementations guarantee per-key atomicity of
// individual Get/Put/Delete calls and nothing more. Share records are stored
// with no expiry hint (ttl == 0) so they remain inspectable after their
// logical deadline; only session keys use PutWithTTL.
type KVStore interface {
	// Get retrieves the value for a key. Returns ErrKeyNotFound for
	// missing or expired keys.
	Get(key string) (string, error)

	// Put stores a value with no expiry hint.
	Put(key, value string) error

	// PutWithTTL stores a value that the backend may drop after ttl.
	// A non-positive ttl behaves like Put.
	PutWithTTL(key, value string, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key string) error

	// List returns all live keys.
	List() ([]string, error)

	// Exists checks whether a key is live.
	Exists(key string) (bool, error)

	// Close closes the storage connection.
	Close() error
}
