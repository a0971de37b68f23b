// Package router classifies shorthand text and JSON commands into typed routes.
//
// Routing is pure: it never touches the store and never validates business
// rules. An input that matches no rule is reported as "not a command".
package router

// Kind identifies the lifecycle operation a command maps to.
type Kind int

// Operation kinds.
const (
	KindUnknown Kind = iota
	KindRaise
	KindAck
	KindResolve
	KindReadAlert
	KindListAlerts
	KindListAlertsByStatus
	KindReadSnapshot
	KindReadTimer
)

// String returns the operation name.
func (k Kind) String() string {
	switch k {
	case KindRaise:
		return "alertRaise"
	case KindAck:
		return "alertAck"
	case KindResolve:
		return "alertResolve"
	case KindReadAlert:
		return "readAlert"
	case KindListAlerts:
		return "listAlerts"
	case KindListAlertsByStatus:
		return "listAlertsByStatus"
	case KindReadSnapshot:
		return "readSnapshot"
	case KindReadTimer:
		return "readTimer"
	default:
		return "unknown"
	}
}

// Op returns the wire name reported in result records.
func (k Kind) Op() string {
	switch k {
	case KindRaise:
		return "alert_raise"
	case KindAck:
		return "alert_ack"
	case KindResolve:
		return "alert_resolve"
	case KindReadAlert:
		return "read_alert"
	case KindListAlerts:
		return "list_alerts"
	case KindListAlertsByStatus:
		return "list_alerts_by_status"
	case KindReadSnapshot:
		return "alert_snapshot"
	case KindReadTimer:
		return "read_timer"
	default:
		return "unknown"
	}
}

// IsQuery reports whether the operation only reads state.
func (k Kind) IsQuery() bool {
	switch k {
	case KindRaise, KindAck, KindResolve:
		return false
	default:
		return true
	}
}

// Route is a classified command: the operation plus its payload.
// Value is nil for operations without a payload.
type Route struct {
	Kind  Kind
	Value map[string]any
}
