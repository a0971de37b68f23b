package sentry

import "github.com/oshokin/pulse-sentry/internal/schema"

// Schema names, one per payload-carrying operation.
const (
	SchemaRaise              = "alertRaise"
	SchemaAck                = "alertAck"
	SchemaResolve            = "alertResolve"
	SchemaReadAlert          = "readAlert"
	SchemaListAlerts         = "listAlerts"
	SchemaListAlertsByStatus = "listAlertsByStatus"
)

// Field limits shared with callers that build payloads.
const (
	MaxTags          = 20
	DefaultLimit     = 20
	MaxLimit         = 200
	minAlertIDLen    = 3
	maxAlertIDLen    = 64
	maxOpLen         = 64
	maxTitleLen      = 180
	maxMessageLen    = 4000
	maxChannelLen    = 160
	maxNoteLen       = 1000
	maxResolutionLen = 1500
)

// newRegistry builds the strict schemas of every payload-carrying operation.
func newRegistry() *schema.Registry {
	op := schema.String(1, maxOpLen)
	alertID := schema.String(minAlertIDLen, maxAlertIDLen)
	ts := schema.Integer().AsOptional()
	limit := schema.Integer().AsOptional()

	return schema.NewRegistry(
		&schema.Schema{
			Name:   SchemaRaise,
			Strict: true,
			Fields: map[string]schema.Rule{
				"op":       op,
				"alertId":  alertID,
				"title":    schema.String(3, maxTitleLen),
				"severity": schema.String(1, 16),
				"message":  schema.String(1, maxMessageLen),
				"channel":  schema.String(1, maxChannelLen).AsOptional(),
				"tags":     schema.StringArray(MaxTags).AsOptional(),
				"ts":       ts,
			},
		},
		&schema.Schema{
			Name:   SchemaAck,
			Strict: true,
			Fields: map[string]schema.Rule{
				"op":      op,
				"alertId": alertID,
				"note":    schema.String(1, maxNoteLen).AsOptional(),
				"ts":      ts,
			},
		},
		&schema.Schema{
			Name:   SchemaResolve,
			Strict: true,
			Fields: map[string]schema.Rule{
				"op":         op,
				"alertId":    alertID,
				"resolution": schema.String(1, maxResolutionLen).AsOptional(),
				"ts":         ts,
			},
		},
		&schema.Schema{
			Name:   SchemaReadAlert,
			Strict: true,
			Fields: map[string]schema.Rule{
				"op":      op,
				"alertId": alertID,
			},
		},
		&schema.Schema{
			Name:   SchemaListAlerts,
			Strict: true,
			Fields: map[string]schema.Rule{
				"op":    op,
				"limit": limit,
			},
		},
		&schema.Schema{
			Name:   SchemaListAlertsByStatus,
			Strict: true,
			Fields: map[string]schema.Rule{
				"op":     op,
				"status": schema.String(1, maxOpLen),
				"limit":  limit,
			},
		},
	)
}
