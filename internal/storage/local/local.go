// Package local defines the Store interface for the raw storage area that
// backs the dashboard cache.
package local

import "errors"

var (
	// ErrNoSuchKey indicates that there's no value for the given key.
	ErrNoSuchKey = errors.New("no such key")
	// ErrQuotaExceeded indicates that a write would exceed the store's quota.
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// Store is a synchronous string key-value storage area. Every key in the
// area is visible to Keys, including keys written by other components.
type Store interface {
	// Get returns the value for key. When the key is absent the error
	// is such that errors.Is(err, ErrNoSuchKey).
	Get(key string) (string, error)
	// Set writes value under key, overwriting any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys returns every key in the area, sorted.
	Keys() ([]string, error)
	// Close releases the underlying resources.
	Close() error
}
