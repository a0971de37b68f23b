package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/pulse-sentry/internal/config"
)

// FileStore persists every key to a single JSON file on disk.
// The file is rewritten on every Put and Confirm, which suits the small
// keyspace of an alert board.
type FileStore struct {
	// path is the filesystem location of the JSON state file.
	path string
	// mu protects the entries and the state file.
	mu      sync.Mutex
	entries map[string]*entry
}

// fileDocument is the on-disk layout of a FileStore.
type fileDocument struct {
	Entries map[string]*entry `json:"entries"`
}

// OpenFileStore loads the JSON file at path, starting empty when it does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    filepath.Clean(path),
		entries: make(map[string]*entry),
	}

	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var doc fileDocument
	if err = json.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	for key, e := range doc.Entries {
		if e != nil {
			s.entries[key] = e
		}
	}

	return s, nil
}

// Get returns the tentative value of key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}

	return cloneBytes(e.Value), nil
}

// GetConfirmed returns the confirmed value of key.
func (s *FileStore) GetConfirmed(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.Confirmed == nil {
		return nil, ErrNotFound
	}

	return cloneBytes(e.Confirmed), nil
}

// Put stores a tentative value and flushes the file.
// A failed flush leaves the previous value in place.
func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("put %s: value is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = new(entry)
		s.entries[key] = e
	}

	previous := e.Value
	e.Value = cloneBytes(value)

	// Memory must keep matching the file when the write fails.
	if err := s.flush(); err != nil {
		if ok {
			e.Value = previous
		} else {
			delete(s.entries, key)
		}

		return err
	}

	return nil
}

// Confirm promotes tentative writes and flushes the file.
// A failed flush leaves the previous confirmed values in place.
func (s *FileStore) Confirm(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := make(map[*entry][]byte, len(s.entries))
	for _, e := range s.entries {
		previous[e] = e.Confirmed
		e.Confirmed = cloneBytes(e.Value)
	}

	if err := s.flush(); err != nil {
		for e, confirmed := range previous {
			e.Confirmed = confirmed
		}

		return err
	}

	return nil
}

// Close is a no-op; every change is already on disk.
func (s *FileStore) Close() error {
	return nil
}

// flush writes the whole document. Callers hold mu.
func (s *FileStore) flush() error {
	data, err := json.Marshal(fileDocument{Entries: s.entries})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err = os.WriteFile(s.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}
