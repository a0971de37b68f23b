package alert

// transitions lists the states reachable from each state.
//
//nolint:gochecknoglobals // Read-only lookup table.
var transitions = map[Status][]Status{
	StatusOpen:         {StatusAcknowledged, StatusResolved},
	StatusAcknowledged: {StatusResolved},
	StatusResolved:     {},
}

// CanTransition reports whether an alert may move from one status to another.
// Staying in the same status is never a valid transition.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// SameIdentity reports whether two identities are both present and equal.
func SameIdentity(a, b string) bool {
	return a != "" && b != "" && a == b
}

// IsRaiser reports whether sender raised the alert.
func (a *Alert) IsRaiser(sender string) bool {
	return a != nil && SameIdentity(a.RaisedBy, sender)
}

// IsAcknowledger reports whether sender acknowledged the alert.
func (a *Alert) IsAcknowledger(sender string) bool {
	return a != nil && a.Ack != nil && SameIdentity(a.Ack.By, sender)
}

// CanResolve reports whether sender is allowed to resolve the alert.
func (a *Alert) CanResolve(sender string) bool {
	return a.IsRaiser(sender) || a.IsAcknowledger(sender)
}
