package repository

import (
	"context"
	"sync"
)

// UsageStore is a key/value counter. Keys are opaque to the store; the usage
// service composes them from identity and calendar date.
type UsageStore interface {
	// Get returns the counter for key, or 0 when it does not exist.
	Get(ctx context.Context, key string) (int, error)
	// Increment adds one to the counter for key and returns the new value.
	Increment(ctx context.Context, key string) (int, error)
}

type memoryUsageStore struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMemoryUsageStore returns a process-local store. Counts are lost on restart
// and are not shared between instances.
func NewMemoryUsageStore() UsageStore {
	return &memoryUsageStore{counts: make(map[string]int)}
}

func (s *memoryUsageStore) Get(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key], nil
}

func (s *memoryUsageStore) Increment(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}
