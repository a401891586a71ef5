// Package cache persists corpus snapshots and memoizes derived query results.
//
// Snapshots are written to a key-value Store under version-namespaced keys.
// The payload is xz-compressed JSON guarded by a BLAKE3 checksum recorded in
// a separate metadata record; any mismatch on load is treated as a miss.
package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Store is the key-value persistence a Manager writes through.
type Store interface {
	// Get returns the value under key, or ok=false when absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	Close() error
}

// MemoryStore is an in-process Store, useful for tests and for hosts that
// have no persistent storage.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) DeletePrefix(ctx context.Context, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
		}
	}
	return nil
}

// Keys returns the stored keys in order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *MemoryStore) Close() error {
	return nil
}
