package router

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/oshokin/pulse-sentry/internal/schema"
)

// DefaultListLimit is used by shorthand list commands without a valid number.
const DefaultListLimit = 20

// Shorthand commands.
const (
	CommandSnapshot     = "alert_snapshot"
	CommandReadSnapshot = "read_snapshot"
	CommandReadTimer    = "read_timer"
	CommandList         = "alert_list"
	CommandListAlerts   = "list_alerts"

	PrefixList   = "alert_list:"
	PrefixRead   = "alert_read:"
	PrefixStatus = "alert_status:"
)

// rule matches a command. It reports false to let the next rule try.
type rule func(cmd string) (Route, bool)

//nolint:gochecknoglobals // Ordered, read-only rule table.
var rules = []rule{
	matchExact,
	matchListPrefix,
	matchReadPrefix,
	matchStatusPrefix,
}

// jsonOps maps the lower-cased op field of JSON commands to an operation.
//
//nolint:gochecknoglobals // Read-only lookup table.
var jsonOps = map[string]Kind{
	"alert_raise":           KindRaise,
	"alert_ack":             KindAck,
	"alert_resolve":         KindResolve,
	"read_alert":            KindReadAlert,
	"list_alerts":           KindListAlerts,
	"list_alerts_by_status": KindListAlertsByStatus,
	"read_snapshot":         KindReadSnapshot,
}

// Map classifies a command. It reports false when the input is not a command.
// Exact keywords win over prefixes, and prefixes over JSON payloads.
func Map(command string) (Route, bool) {
	cmd := strings.TrimSpace(command)

	for _, match := range rules {
		if route, ok := match(cmd); ok {
			return route, true
		}
	}

	return matchJSON(cmd)
}

func matchExact(cmd string) (Route, bool) {
	switch cmd {
	case CommandSnapshot, CommandReadSnapshot:
		return Route{Kind: KindReadSnapshot}, true
	case CommandReadTimer:
		return Route{Kind: KindReadTimer}, true
	case CommandList, CommandListAlerts:
		return listRoute(DefaultListLimit), true
	default:
		return Route{}, false
	}
}

func matchListPrefix(cmd string) (Route, bool) {
	suffix, ok := strings.CutPrefix(cmd, PrefixList)
	if !ok {
		return Route{}, false
	}

	limit := DefaultListLimit
	if n, parsed := schema.ParseIntPrefix(suffix); parsed {
		limit = int(max(min(n, math.MaxInt), math.MinInt))
	}

	return listRoute(limit), true
}

func matchReadPrefix(cmd string) (Route, bool) {
	suffix, ok := strings.CutPrefix(cmd, PrefixRead)
	if !ok {
		return Route{}, false
	}

	alertID := strings.TrimSpace(suffix)
	if alertID == "" {
		return Route{}, false
	}

	return Route{
		Kind:  KindReadAlert,
		Value: map[string]any{"op": "read_alert", "alertId": alertID},
	}, true
}

func matchStatusPrefix(cmd string) (Route, bool) {
	suffix, ok := strings.CutPrefix(cmd, PrefixStatus)
	if !ok {
		return Route{}, false
	}

	status := strings.ToLower(strings.TrimSpace(suffix))
	if status == "" {
		return Route{}, false
	}

	return Route{
		Kind:  KindListAlertsByStatus,
		Value: map[string]any{"op": "list_alerts_by_status", "status": status, "limit": DefaultListLimit},
	}, true
}

func matchJSON(cmd string) (Route, bool) {
	decoder := json.NewDecoder(strings.NewReader(cmd))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil || payload == nil {
		return Route{}, false
	}

	if decoder.More() {
		return Route{}, false
	}

	op, _ := payload["op"].(string)

	kind, ok := jsonOps[strings.ToLower(strings.TrimSpace(op))]
	if !ok {
		return Route{}, false
	}

	if kind == KindReadSnapshot {
		return Route{Kind: kind}, true
	}

	return Route{Kind: kind, Value: payload}, true
}

func listRoute(limit int) Route {
	return Route{
		Kind:  KindListAlerts,
		Value: map[string]any{"op": "list_alerts", "limit": limit},
	}
}
