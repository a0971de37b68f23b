package sentry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oshokin/pulse-sentry/internal/domain/alert"
	"github.com/oshokin/pulse-sentry/internal/logger"
)

// AlertList is a page of alerts, newest first.
type AlertList struct {
	// Status is the filter of ListAlertsByStatus; empty for ListAlerts.
	Status alert.Status `json:"status,omitempty"`
	// Total is the index length for ListAlerts and the number of matches
	// for ListAlertsByStatus.
	Total int            `json:"total"`
	Limit int            `json:"limit"`
	Items []*alert.Alert `json:"items"`
}

// Snapshot is a cheap summary of the board.
type Snapshot struct {
	AlertCount  int             `json:"alertCount"`
	AlertLast   *alert.Alert    `json:"alertLast"`
	CurrentTime json.RawMessage `json:"currentTime"`
}

// ReadAlert returns the alert or nil when it does not exist.
// Absence is reported as a nil alert, not as an error.
func (m *Machine) ReadAlert(ctx context.Context, tx Tx) (*alert.Alert, error) {
	if err := m.schemas.Validate(SchemaReadAlert, tx.Value); err != nil {
		return nil, err
	}

	alertID := alert.NormalizeID(tx.text("alertId"))
	if alertID == "" {
		return nil, errMissingAlertID
	}

	found, err := m.loadAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "read_alert", "alert_id", alertID, "found", found != nil)

	return found, nil
}

// ListAlerts returns up to limit alerts, newest first.
func (m *Machine) ListAlerts(ctx context.Context, tx Tx) (*AlertList, error) {
	if err := m.schemas.Validate(SchemaListAlerts, tx.Value); err != nil {
		return nil, err
	}

	index, err := m.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	limit := ParseLimit(tx.Value["limit"])

	items, err := m.walk(ctx, index, limit, func(*alert.Alert) bool { return true })
	if err != nil {
		return nil, err
	}

	return &AlertList{Total: len(index), Limit: limit, Items: items}, nil
}

// ListAlertsByStatus returns up to limit alerts in the requested status, newest first.
// The status comparison is case-insensitive.
func (m *Machine) ListAlertsByStatus(ctx context.Context, tx Tx) (*AlertList, error) {
	if err := m.schemas.Validate(SchemaListAlertsByStatus, tx.Value); err != nil {
		return nil, err
	}

	status := alert.NormalizeStatus(tx.text("status"))
	if status == "" {
		return nil, fmt.Errorf("%w: missing status", alert.ErrValidation)
	}

	index, err := m.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	limit := ParseLimit(tx.Value["limit"])

	items, err := m.walk(ctx, index, limit, func(a *alert.Alert) bool {
		return alert.NormalizeStatus(string(a.Status)) == status
	})
	if err != nil {
		return nil, err
	}

	return &AlertList{Status: status, Total: len(items), Limit: limit, Items: items}, nil
}

// ReadSnapshot returns the index length, the last written alert and the timer value.
func (m *Machine) ReadSnapshot(ctx context.Context) (*Snapshot, error) {
	currentTime, err := m.ReadTimer(ctx)
	if err != nil {
		return nil, err
	}

	index, err := m.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	last, err := m.loadLastAlert(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		AlertCount:  len(index),
		AlertLast:   last,
		CurrentTime: currentTime,
	}, nil
}

// ReadTimer returns the raw timer value, or nil when it was never set.
func (m *Machine) ReadTimer(ctx context.Context) (json.RawMessage, error) {
	if m.clock == nil {
		return nil, nil
	}

	return m.clock.Raw(ctx)
}

// walk visits the index from the newest entry and collects up to limit
// matching alerts, skipping ids whose alert is missing.
func (m *Machine) walk(
	ctx context.Context,
	index []string,
	limit int,
	keep func(*alert.Alert) bool,
) ([]*alert.Alert, error) {
	items := make([]*alert.Alert, 0, min(limit, len(index)))

	for i := len(index) - 1; i >= 0 && len(items) < limit; i-- {
		a, err := m.loadAlert(ctx, index[i])
		if err != nil {
			return nil, err
		}

		if a != nil && keep(a) {
			items = append(items, a)
		}
	}

	return items, nil
}
