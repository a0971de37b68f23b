package kv

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("key not found")

// Reader reads tentative values, including writes of the running transaction.
type Reader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Writer stores tentative values.
type Writer interface {
	Put(ctx context.Context, key string, value []byte) error
}

// Store is the full keyed store used by the transaction host.
type Store interface {
	Reader
	Writer
	// GetConfirmed reads the last confirmed value of key.
	GetConfirmed(ctx context.Context, key string) ([]byte, error)
	// Confirm makes every tentative write visible to GetConfirmed.
	Confirm(ctx context.Context) error
	// Close releases resources held by the store.
	Close() error
}

// entry is a key's tentative and confirmed values.
// A nil Confirmed means the key has never been confirmed.
type entry struct {
	Value     json.RawMessage `json:"value"`
	Confirmed json.RawMessage `json:"confirmed,omitempty"`
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}

	return append([]byte(nil), b...)
}
