package sentry

import (
	"context"
	"fmt"
	"slices"

	"github.com/oshokin/pulse-sentry/internal/domain/alert"
	"github.com/oshokin/pulse-sentry/internal/logger"
)

var errMissingAlertID = fmt.Errorf("%w: missing alertId", alert.ErrValidation)

// Raise creates a new open alert owned by the sender.
func (m *Machine) Raise(ctx context.Context, tx Tx) (*alert.Alert, error) {
	if err := m.schemas.Validate(SchemaRaise, tx.Value); err != nil {
		return nil, err
	}

	alertID := alert.NormalizeID(tx.text("alertId"))
	if alertID == "" {
		return nil, errMissingAlertID
	}

	if tx.Sender == "" {
		return nil, alert.ErrMissingSender
	}

	severity, ok := alert.ParseSeverity(tx.text("severity"))
	if !ok {
		return nil, fmt.Errorf("%w: severity must be low|medium|high|critical", alert.ErrValidation)
	}

	existing, err := m.loadAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, fmt.Errorf("%w: %s", alert.ErrAlreadyExists, alertID)
	}

	now, err := m.now(ctx, tx)
	if err != nil {
		return nil, err
	}

	index, err := m.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	raised := &alert.Alert{
		AlertID:   alertID,
		Title:     tx.text("title"),
		Severity:  severity,
		Message:   tx.text("message"),
		Channel:   tx.optionalText("channel"),
		Tags:      alert.NormalizeTags(tx.stringList("tags")),
		Status:    alert.StatusOpen,
		RaisedBy:  tx.Sender,
		RaisedAt:  now,
		UpdatedAt: now,
	}

	if !slices.Contains(index, alertID) {
		index = append(index, alertID)
	}

	if err = m.writeAlert(ctx, raised); err != nil {
		return nil, err
	}

	if err = m.putJSON(ctx, IndexKey, index); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "alert_raise ok", "alert_id", alertID, "by", tx.Sender, "severity", severity)

	return raised, nil
}

// Ack moves an open alert to acknowledged on behalf of the sender.
func (m *Machine) Ack(ctx context.Context, tx Tx) (*alert.Alert, error) {
	if err := m.schemas.Validate(SchemaAck, tx.Value); err != nil {
		return nil, err
	}

	current, err := m.loadForTransition(ctx, tx)
	if err != nil {
		return nil, err
	}

	if current.Status != alert.StatusOpen || !alert.CanTransition(current.Status, alert.StatusAcknowledged) {
		return nil, fmt.Errorf("%w: alert is not open: %s", alert.ErrInvalidTransition, current.Status)
	}

	now, err := m.now(ctx, tx)
	if err != nil {
		return nil, err
	}

	current.Status = alert.StatusAcknowledged
	current.UpdatedAt = now
	current.Ack = &alert.Ack{
		By:   tx.Sender,
		At:   now,
		Note: tx.optionalText("note"),
	}

	if err = m.writeAlert(ctx, current); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "alert_ack ok", "alert_id", current.AlertID, "by", tx.Sender)

	return current, nil
}

// Resolve closes an open or acknowledged alert. Only the raiser or the
// acknowledger may resolve it.
func (m *Machine) Resolve(ctx context.Context, tx Tx) (*alert.Alert, error) {
	if err := m.schemas.Validate(SchemaResolve, tx.Value); err != nil {
		return nil, err
	}

	current, err := m.loadForTransition(ctx, tx)
	if err != nil {
		return nil, err
	}

	if current.Status != alert.StatusOpen && current.Status != alert.StatusAcknowledged {
		return nil, fmt.Errorf("%w: alert cannot be resolved from: %s", alert.ErrInvalidTransition, current.Status)
	}

	if !current.CanResolve(tx.Sender) {
		return nil, fmt.Errorf("%w: %s", alert.ErrUnauthorized, current.AlertID)
	}

	if !alert.CanTransition(current.Status, alert.StatusResolved) {
		return nil, fmt.Errorf("%w: %s -> %s", alert.ErrInvalidTransition, current.Status, alert.StatusResolved)
	}

	now, err := m.now(ctx, tx)
	if err != nil {
		return nil, err
	}

	current.Status = alert.StatusResolved
	current.UpdatedAt = now
	current.Resolved = &alert.Resolution{
		By:         tx.Sender,
		At:         now,
		Resolution: tx.optionalText("resolution"),
	}

	if err = m.writeAlert(ctx, current); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "alert_resolve ok", "alert_id", current.AlertID, "by", tx.Sender)

	return current, nil
}

// loadForTransition runs the checks shared by ack and resolve:
// non-empty id, present sender, existing alert.
func (m *Machine) loadForTransition(ctx context.Context, tx Tx) (*alert.Alert, error) {
	alertID := alert.NormalizeID(tx.text("alertId"))
	if alertID == "" {
		return nil, errMissingAlertID
	}

	if tx.Sender == "" {
		return nil, alert.ErrMissingSender
	}

	current, err := m.loadAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}

	if current == nil {
		return nil, fmt.Errorf("%w: %s", alert.ErrNotFound, alertID)
	}

	return current, nil
}
