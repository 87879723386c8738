// Package storage provides the namespaced adapter every cache component
// writes through.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/iggydv12/dashcache/internal/storage/local"
)

// Adapter namespaces keys under a fixed application prefix on top of a
// local.Store. Failures are logged and reported as soft results; nothing
// here returns an error to the caller.
type Adapter struct {
	store  local.Store
	prefix string
	logger *zap.Logger
}

// New creates an Adapter.
func New(store local.Store, prefix string, logger *zap.Logger) *Adapter {
	return &Adapter{
		store:  store,
		prefix: prefix,
		logger: logger,
	}
}

// Prefix returns the application prefix.
func (a *Adapter) Prefix() string { return a.prefix }

// Store returns the underlying storage area.
func (a *Adapter) Store() local.Store { return a.store }

// Key returns the full storage key for a logical name.
func (a *Adapter) Key(name string) string { return a.prefix + name }

// Put JSON-encodes v and writes it under the prefixed key.
// Returns false if the value could not be persisted.
func (a *Adapter) Put(name string, v any) bool {
	key := a.Key(name)
	data, err := json.Marshal(v)
	if err != nil {
		a.logger.Warn("encode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := a.store.Set(key, string(data)); err != nil {
		a.logger.Warn("write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Get returns the raw string stored under the prefixed key.
func (a *Adapter) Get(name string) (string, bool) {
	key := a.Key(name)
	raw, err := a.store.Get(key)
	if errors.Is(err, local.ErrNoSuchKey) {
		return "", false
	}
	if err != nil {
		a.logger.Warn("read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return raw, true
}

// Remove deletes the prefixed key. Removing a missing key is a no-op.
func (a *Adapter) Remove(name string) {
	a.RemoveKey(a.Key(name))
}

// RemoveKey deletes a full (already prefixed) key. Returns false on failure.
func (a *Adapter) RemoveKey(key string) bool {
	if err := a.store.Delete(key); err != nil {
		a.logger.Warn("remove failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// ListPrefixedKeys returns every full key carrying the application prefix.
// A listing failure is logged and yields no keys.
func (a *Adapter) ListPrefixedKeys() []string {
	keys, err := a.PrefixedKeys()
	if err != nil {
		a.logger.Warn("list keys failed", zap.Error(err))
		return nil
	}
	return keys
}

// PrefixedKeys is ListPrefixedKeys for callers that must not mistake a
// listing failure for an empty namespace.
func (a *Adapter) PrefixedKeys() ([]string, error) {
	keys, err := a.store.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	var out []string
	for _, k := range keys {
		if strings.HasPrefix(k, a.prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

// HasPrefix reports whether key belongs to this application.
func (a *Adapter) HasPrefix(key string) bool {
	return strings.HasPrefix(key, a.prefix)
}
