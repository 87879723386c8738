package local

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store. A positive quota caps the total
// number of key and value bytes held, the way browsers cap local storage.
type MemoryStore struct {
	mu    sync.Mutex
	m     map[string]string
	quota int
}

var _ Store = &MemoryStore{}

// NewMemoryStore creates an empty MemoryStore. quota <= 0 means unlimited.
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{
		m:     make(map[string]string),
		quota: quota,
	}
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.m[key]
	if !ok {
		return "", ErrNoSuchKey
	}
	return value, nil
}

// Set writes value under key. Returns ErrQuotaExceeded when the write
// would push the store over its quota; the previous value is kept.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 {
		used := s.usedLocked()
		if old, ok := s.m[key]; ok {
			used -= len(key) + len(old)
		}
		if used+len(key)+len(value) > s.quota {
			return ErrQuotaExceeded
		}
	}
	s.m[key] = value
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// Keys returns every key, sorted.
func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// usedLocked must be called with the lock held.
func (s *MemoryStore) usedLocked() int {
	n := 0
	for k, v := range s.m {
		n += len(k) + len(v)
	}
	return n
}
