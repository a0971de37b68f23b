package server

import (
	"context"
	"fmt"

	"github.com/oshokin/pulse-sentry/internal/logger"
	"github.com/oshokin/pulse-sentry/internal/repository/kv"
	"github.com/oshokin/pulse-sentry/internal/service/peer"
)

// service owns the keyed store and the peer running on top of it.
type service struct {
	// store persists alert state between restarts.
	store kv.Store
	// peer serializes transactions against store.
	peer *peer.Peer
}

// newService opens the store selected by driver and starts a peer over it.
func newService(ctx context.Context, driver, path string) (*service, error) {
	store, err := kv.Open(ctx, driver, path)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}

	logger.InfoKV(ctx, "Store opened", "driver", driver, "path", path)

	return &service{
		store: store,
		peer:  peer.New(store),
	}, nil
}

// close flushes and releases the store.
func (s *service) close(ctx context.Context) {
	if s == nil || s.store == nil {
		return
	}

	if err := s.store.Close(); err != nil {
		logger.Errorf(ctx, "Failed to close store: %v", err)
	}
}
