// Package diagnostics provides introspection over the cache's storage area:
// size statistics, bulk clear, and export/import of every managed entry.
package diagnostics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/iggydv12/dashcache/internal/cache"
	"github.com/iggydv12/dashcache/internal/session"
	"github.com/iggydv12/dashcache/internal/storage"
	"github.com/iggydv12/dashcache/internal/storage/local"
)

// AppDataBucket groups every prefixed entry in StorageStats.
const AppDataBucket = "App Data"

// Bucket is the size of one group of entries.
type Bucket struct {
	Name    string `json:"name"`
	Bytes   int64  `json:"bytes"`
	Entries int    `json:"entries"`
}

// Stats summarizes storage usage. CapacityBytes is nominal and only
// used for display; nothing enforces it.
type Stats struct {
	Buckets       []Bucket `json:"buckets"`
	Entries       int      `json:"entries"`
	TotalBytes    int64    `json:"totalBytes"`
	CapacityBytes int64    `json:"capacityBytes"`
	UsedPercent   float64  `json:"usedPercent"`
}

// Inspector runs the diagnostic operations.
type Inspector struct {
	adapter    *storage.Adapter
	dashboards *cache.Dashboards
	navigation *cache.Navigation
	sessions   *session.Validator
	capacity   int64
	logger     *zap.Logger
}

// New creates an Inspector.
func New(a *storage.Adapter, d *cache.Dashboards, n *cache.Navigation, v *session.Validator,
	capacity int64, logger *zap.Logger) *Inspector {
	return &Inspector{
		adapter:    a,
		dashboards: d,
		navigation: n,
		sessions:   v,
		capacity:   capacity,
		logger:     logger,
	}
}

// ClearAllAppState removes every prefixed entry, continuing past failures.
// Unprefixed keys are left alone. Returns the number of entries removed.
func (i *Inspector) ClearAllAppState() int {
	removed := 0
	for _, key := range i.adapter.ListPrefixedKeys() {
		if i.adapter.RemoveKey(key) {
			removed++
		}
	}
	i.logger.Info("Cleared application state", zap.Int("removed", removed))
	return removed
}

// StorageStats measures every key in the storage area. A value's size is
// the UTF-8 length of its stored string.
func (i *Inspector) StorageStats() (*Stats, error) {
	store := i.adapter.Store()
	keys, err := store.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	app := Bucket{Name: AppDataBucket}
	var others []Bucket
	stats := &Stats{CapacityBytes: i.capacity}
	for _, key := range keys {
		value, err := store.Get(key)
		if err != nil {
			if !errors.Is(err, local.ErrNoSuchKey) {
				i.logger.Warn("stat read failed", zap.String("key", key), zap.Error(err))
			}
			continue
		}
		size := int64(len(value))
		stats.TotalBytes += size
		stats.Entries++
		if i.adapter.HasPrefix(key) {
			app.Bytes += size
			app.Entries++
			continue
		}
		others = append(others, Bucket{Name: key, Bytes: size, Entries: 1})
	}

	sort.Slice(others, func(a, b int) bool { return others[a].Name < others[b].Name })
	if app.Entries > 0 {
		stats.Buckets = append(stats.Buckets, app)
	}
	stats.Buckets = append(stats.Buckets, others...)
	if i.capacity > 0 {
		stats.UsedPercent = float64(stats.TotalBytes) * 100 / float64(i.capacity)
	}
	return stats, nil
}

// Export maps every prefixed key, plus the session keys, to its raw
// stored string.
func (i *Inspector) Export() (map[string]string, error) {
	store := i.adapter.Store()
	keys, err := i.adapter.PrefixedKeys()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	keys = append(keys, session.TokenKey, session.ProfileKey)

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		value, err := store.Get(key)
		if errors.Is(err, local.ErrNoSuchKey) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", key, err)
		}
		out[key] = value
	}
	return out, nil
}

// ExportJSON is Export encoded as an indented JSON object.
func (i *Inspector) ExportJSON() ([]byte, error) {
	entries, err := i.Export()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(entries, "", "  ")
}

// Import writes every entry of a backup produced by ExportJSON back
// verbatim. The whole document must parse before anything is written;
// after that each write is best effort. Entries are not validated, so
// only trusted backups should be imported. Returns the number written.
func (i *Inspector) Import(data []byte) (int, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		i.logger.Error("Import aborted, backup is not a JSON object", zap.Error(err))
		return 0, fmt.Errorf("parse backup: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	store := i.adapter.Store()
	written := 0
	for _, key := range keys {
		value := rawValue(entries[key])
		if err := store.Set(key, value); err != nil {
			i.logger.Warn("import write failed", zap.String("key", key), zap.Error(err))
			continue
		}
		written++
	}
	i.logger.Info("Imported application state", zap.Int("written", written), zap.Int("entries", len(keys)))
	return written, nil
}

// rawValue unquotes JSON strings; any other value, null included, is kept
// as JSON text.
func rawValue(v json.RawMessage) string {
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return "null"
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}
