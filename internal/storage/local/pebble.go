package local

import (
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"
)

// PebbleStore is a Pebble LSM-tree backed Store.
type PebbleStore struct {
	db     *pebble.DB
	path   string
	logger *zap.Logger
}

var _ Store = &PebbleStore{}

// NewPebbleStore creates a PebbleStore instance (not yet opened).
func NewPebbleStore(dbPath string, logger *zap.Logger) *PebbleStore {
	return &PebbleStore{
		path:   dbPath,
		logger: logger,
	}
}

// Init opens the Pebble database. Another process may briefly hold the
// directory lock (a CLI invocation racing the server), so opening is retried.
func (p *PebbleStore) Init() error {
	opts := &pebble.Options{
		Logger: &pebbleLogger{p.logger},
	}
	var db *pebble.DB
	err := retry.Do(func() error {
		var err error
		db, err = pebble.Open(p.path, opts)
		return err
	},
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("Pebble open retry", zap.Uint("attempt", n), zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("pebble open %s: %w", p.path, err)
	}
	p.db = db
	p.logger.Info("Pebble storage opened", zap.String("path", p.path))
	return nil
}

// Close flushes and closes the database.
func (p *PebbleStore) Close() error {
	if p.db != nil {
		err := p.db.Close()
		p.db = nil
		return err
	}
	return nil
}

// Get returns the value stored under key.
func (p *PebbleStore) Get(key string) (string, error) {
	data, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", ErrNoSuchKey
	}
	if err != nil {
		return "", fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()
	// data is only valid until closer.Close
	return string(data), nil
}

// Set overwrites the value stored under key.
func (p *PebbleStore) Set(key, value string) error {
	if err := p.db.Set([]byte(key), []byte(value), pebble.Sync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

// Delete removes key. Pebble writes a tombstone, so a missing key is fine.
func (p *PebbleStore) Delete(key string) error {
	if err := p.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete: %w", err)
	}
	return nil
}

// Keys returns every key in iteration (lexicographic) order.
func (p *PebbleStore) Keys() ([]string, error) {
	iter, err := p.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("pebble iter: %w", err)
	}
	defer iter.Close()

	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return keys, nil
}

// pebbleLogger adapts zap.Logger to the pebble.Logger interface.
type pebbleLogger struct {
	z *zap.Logger
}

func (l *pebbleLogger) Infof(format string, args ...any) {
	l.z.Sugar().Infof(format, args...)
}

func (l *pebbleLogger) Errorf(format string, args ...any) {
	l.z.Sugar().Errorf(format, args...)
}

func (l *pebbleLogger) Fatalf(format string, args ...any) {
	l.z.Sugar().Fatalf(format, args...)
}
