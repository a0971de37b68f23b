package kv

import (
	"context"
	"fmt"

	"github.com/oshokin/pulse-sentry/internal/config"
)

// Open creates the store selected by driver.
//
//nolint:ireturn // Callers only need the Store contract.
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch driver {
	case config.StoreDriverMemory:
		return NewMemoryStore(), nil
	case config.StoreDriverFile:
		store, err := OpenFileStore(path)
		if err != nil {
			return nil, err
		}

		return store, nil
	case config.StoreDriverSQLite:
		store, err := OpenSQLiteStore(ctx, path)
		if err != nil {
			return nil, err
		}

		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
