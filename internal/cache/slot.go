// Package cache implements the versioned dashboard and navigation state
// caches. Each cached value is wrapped in an Envelope carrying the schema
// version and write time; entries persist until explicitly cleared.
package cache

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/iggydv12/dashcache/internal/storage"
)

// Envelope is the persisted wrapper around cached data.
// Version is an exact-match discriminator, not a semver range.
type Envelope[T any] struct {
	Version   string `json:"version"`
	Timestamp int64  `json:"timestamp"` // ms since epoch
	Data      T      `json:"data"`
}

// storedEnvelope defers decoding until the version is checked. Version is
// kept raw so that a non-string version still counts as a mismatch.
type storedEnvelope struct {
	Version json.RawMessage `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Slot is a single typed cache entry stored under one namespaced key.
type Slot[T any] struct {
	adapter *storage.Adapter
	name    string
	version string
	logger  *zap.Logger
}

func newSlot[T any](a *storage.Adapter, name, version string, logger *zap.Logger) *Slot[T] {
	return &Slot[T]{
		adapter: a,
		name:    name,
		version: version,
		logger:  logger,
	}
}

// Key returns the full storage key of the slot.
func (s *Slot[T]) Key() string { return s.adapter.Key(s.name) }

// Save wraps v in an envelope and writes it, replacing any previous value.
// A false result means the value was not persisted; callers carry on
// without the cache.
func (s *Slot[T]) Save(v T) bool {
	env := Envelope[T]{
		Version:   s.version,
		Timestamp: time.Now().UnixMilli(),
		Data:      v,
	}
	return s.adapter.Put(s.name, env)
}

// Load returns the cached value. The second result is false on a cache
// miss: absent entry, undecodable entry, or version mismatch. A mismatched
// entry is removed so it is not read again.
func (s *Slot[T]) Load() (T, bool) {
	var zero T
	raw, ok := s.adapter.Get(s.name)
	if !ok {
		return zero, false
	}

	var env storedEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		s.logger.Warn("Discarding unreadable cache entry", zap.String("key", s.Key()), zap.Error(err))
		return zero, false
	}
	if !s.versionMatches(env.Version) {
		s.logger.Info("Cache version mismatch, clearing entry",
			zap.String("key", s.Key()),
			zap.ByteString("stored", env.Version),
			zap.String("current", s.version),
		)
		s.adapter.Remove(s.name)
		return zero, false
	}

	if len(env.Data) == 0 {
		s.logger.Warn("Cache entry has no data", zap.String("key", s.Key()))
		return zero, false
	}
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		s.logger.Warn("Cache entry has unexpected shape", zap.String("key", s.Key()), zap.Error(err))
		return zero, false
	}
	return v, true
}

// versionMatches requires the stored version to be a JSON string equal to
// the current one.
func (s *Slot[T]) versionMatches(stored json.RawMessage) bool {
	var v string
	if err := json.Unmarshal(stored, &v); err != nil {
		return false
	}
	return v == s.version
}

// Clear removes the entry.
func (s *Slot[T]) Clear() {
	s.adapter.Remove(s.name)
}
