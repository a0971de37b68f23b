package sentry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oshokin/pulse-sentry/internal/domain/alert"
	"github.com/oshokin/pulse-sentry/internal/repository/kv"
	"github.com/oshokin/pulse-sentry/internal/schema"
	"github.com/oshokin/pulse-sentry/internal/service/timer"
)

// Store keys outside the alert/ namespace.
const (
	IndexKey     = "alert_index"
	LastAlertKey = "alert_last"
)

// Store is the part of the keyed store the machine reads and writes.
type Store interface {
	kv.Reader
	kv.Writer
}

// Machine applies lifecycle operations to the keyed store.
type Machine struct {
	store   Store
	clock   *timer.Clock
	schemas *schema.Registry
}

// New creates a machine over store, taking time from clock first.
func New(store Store, clock *timer.Clock) *Machine {
	return &Machine{
		store:   store,
		clock:   clock,
		schemas: newRegistry(),
	}
}

// now resolves the transaction time: timer value, then payload ts, then nil.
func (m *Machine) now(ctx context.Context, tx Tx) (*int64, error) {
	if m.clock != nil {
		ts, ok, err := m.clock.Time(ctx)
		if err != nil {
			return nil, err
		}

		if ok {
			return &ts, nil
		}
	}

	if ts, ok := tx.timestamp(); ok {
		return &ts, nil
	}

	return nil, nil
}

// loadAlert returns the stored alert or nil when absent.
func (m *Machine) loadAlert(ctx context.Context, alertID string) (*alert.Alert, error) {
	raw, err := m.store.Get(ctx, alert.Key(alertID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read alert %s: %w", alertID, err)
	}

	var a alert.Alert
	if err = json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode alert %s: %w", alertID, err)
	}

	return &a, nil
}

// loadIndex returns the alert index; a missing or malformed index reads as empty.
func (m *Machine) loadIndex(ctx context.Context) ([]string, error) {
	raw, err := m.store.Get(ctx, IndexKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read alert index: %w", err)
	}

	var index []string
	if err = json.Unmarshal(raw, &index); err != nil || index == nil {
		return []string{}, nil //nolint:nilerr // A non-array index counts as empty.
	}

	return index, nil
}

// loadLastAlert returns the last written alert or nil.
func (m *Machine) loadLastAlert(ctx context.Context) (*alert.Alert, error) {
	raw, err := m.store.Get(ctx, LastAlertKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read last alert: %w", err)
	}

	var a *alert.Alert
	if err = json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode last alert: %w", err)
	}

	return a, nil
}

// writeAlert stores the alert and moves the last-alert pointer to it.
func (m *Machine) writeAlert(ctx context.Context, a *alert.Alert) error {
	if err := m.putJSON(ctx, alert.Key(a.AlertID), a); err != nil {
		return err
	}

	return m.putJSON(ctx, LastAlertKey, a)
}

func (m *Machine) putJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err = m.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}
