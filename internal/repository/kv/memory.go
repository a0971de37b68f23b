package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. It is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	dirty   map[string]struct{}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		dirty:   make(map[string]struct{}),
	}
}

// Get returns the tentative value of key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}

	return cloneBytes(e.Value), nil
}

// GetConfirmed returns the confirmed value of key.
func (s *MemoryStore) GetConfirmed(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.Confirmed == nil {
		return nil, ErrNotFound
	}

	return cloneBytes(e.Confirmed), nil
}

// Put stores a tentative value.
func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = new(entry)
		s.entries[key] = e
	}

	e.Value = cloneBytes(value)
	s.dirty[key] = struct{}{}

	return nil
}

// Confirm promotes tentative writes.
func (s *MemoryStore) Confirm(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.dirty {
		e := s.entries[key]
		e.Confirmed = cloneBytes(e.Value)
	}

	clear(s.dirty)

	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
