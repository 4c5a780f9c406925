package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultMemorySize is the number of entries kept by NewMemory when size <= 0.
const DefaultMemorySize = 128

// MemoryStore is an in-process LRU store. It is safe for concurrent use.
type MemoryStore struct {
	entries *lru.Cache
}

// NewMemory returns an LRU store holding at most size entries.
func NewMemory(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = DefaultMemorySize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &MemoryStore{entries: c}, nil
}

// Get returns a copy of the payload stored under key.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.entries.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	b, _ := v.([]byte)
	return append([]byte(nil), b...), nil
}

// Set stores a copy of value under key, evicting the oldest entry if full.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.entries.Add(key, append([]byte(nil), value...))
	return nil
}

// Len reports the number of cached entries.
func (m *MemoryStore) Len() int {
	return m.entries.Len()
}

// Close drops all entries.
func (m *MemoryStore) Close() error {
	m.entries.Purge()
	return nil
}
