package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/ports"
)

// MemoryStore keeps records in process memory. Used by tests and by the
// memory driver for throwaway sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// Verify interface compliance at compile time
var _ ports.DurableStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

// Load returns a copy of the stored value of key
func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, key)
	}
	return append([]byte(nil), value...), nil
}

// Save stores a copy of value under key
func (s *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append([]byte{}, value...)
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
