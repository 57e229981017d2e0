package state

import (
	"context"
	"sync"
)

// MemoryStore is a minimal in-memory Store. It stands in for the key-value
// medium in tests and examples and makes no durability promises.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]string
	writes  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]string{}}
}

func (s *MemoryStore) Read(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrKeyRequired
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	blob, ok := s.records[key]
	s.mu.RUnlock()
	return blob, ok, nil
}

func (s *MemoryStore) Write(ctx context.Context, key string, blob string) error {
	if key == "" {
		return ErrKeyRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.records[key] = blob
	s.writes++
	s.mu.Unlock()
	return nil
}

// Writes reports how many successful writes the store has accepted.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
