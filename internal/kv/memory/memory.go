// Package memory is an in-process kv.Store used by tests and STORE=memory.
package memory

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/timemark/internal/kv"
)

// Store keeps values in a map guarded by a RWMutex.
// Values are copied on the way in and out so callers cannot alias them.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates an empty memory store
func New() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = clone(value)
	return nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return clone(v), nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

func (s *Store) All(_ context.Context) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte, len(s.values))
	for k, v := range s.values {
		out[k] = clone(v)
	}
	return out, nil
}

// Len returns the number of keys currently stored
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

var _ kv.Store = (*Store)(nil)
