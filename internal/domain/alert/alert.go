package alert

import "strings"

// Severity is the impact class of an alert.
type Severity string

// Allowed severities.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ParseSeverity normalizes raw input and reports whether it is allowed.
func ParseSeverity(raw string) (Severity, bool) {
	switch s := Severity(strings.ToLower(strings.TrimSpace(raw))); s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return s, true
	default:
		return "", false
	}
}

// Status is the lifecycle state of an alert.
type Status string

// Lifecycle states.
const (
	StatusOpen         Status = "open"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
)

// NormalizeStatus lower-cases and trims raw status input.
// The result is not checked against the known states: filtering by an
// unknown status simply matches nothing.
func NormalizeStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

// Ack records who acknowledged an alert.
type Ack struct {
	By   string  `json:"by"`
	At   *int64  `json:"at"`
	Note *string `json:"note"`
}

// Resolution records who resolved an alert.
type Resolution struct {
	By         string  `json:"by"`
	At         *int64  `json:"at"`
	Resolution *string `json:"resolution"`
}

// Alert is the persisted alert entity stored at Key(AlertID).
type Alert struct {
	AlertID   string      `json:"alertId"`
	Title     string      `json:"title"`
	Severity  Severity    `json:"severity"`
	Message   string      `json:"message"`
	Channel   *string     `json:"channel"`
	Tags      []string    `json:"tags"`
	Status    Status      `json:"status"`
	RaisedBy  string      `json:"raisedBy"`
	RaisedAt  *int64      `json:"raisedAt"`
	UpdatedAt *int64      `json:"updatedAt"`
	Ack       *Ack        `json:"ack"`
	Resolved  *Resolution `json:"resolved"`
}

// KeyPrefix namespaces alert entries in the keyed store.
const KeyPrefix = "alert/"

// Key returns the store key of an alert.
func Key(alertID string) string {
	return KeyPrefix + alertID
}

// NormalizeID trims surrounding whitespace from a raw alert id.
func NormalizeID(raw string) string {
	return strings.TrimSpace(raw)
}

// NormalizeTags trims every tag and drops the empty ones.
// The result is never nil so it encodes as an empty list.
func NormalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))

	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

// Clone returns a deep copy of the alert.
func (a *Alert) Clone() *Alert {
	if a == nil {
		return nil
	}

	cloned := *a
	cloned.Channel = cloneString(a.Channel)
	cloned.RaisedAt = cloneInt(a.RaisedAt)
	cloned.UpdatedAt = cloneInt(a.UpdatedAt)

	if a.Tags != nil {
		cloned.Tags = append([]string(nil), a.Tags...)
	}

	if a.Ack != nil {
		cloned.Ack = &Ack{
			By:   a.Ack.By,
			At:   cloneInt(a.Ack.At),
			Note: cloneString(a.Ack.Note),
		}
	}

	if a.Resolved != nil {
		cloned.Resolved = &Resolution{
			By:         a.Resolved.By,
			At:         cloneInt(a.Resolved.At),
			Resolution: cloneString(a.Resolved.Resolution),
		}
	}

	return &cloned
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}

	v := *s

	return &v
}

func cloneInt(i *int64) *int64 {
	if i == nil {
		return nil
	}

	v := *i

	return &v
}
