package sentry

import (
	"strings"

	"github.com/oshokin/pulse-sentry/internal/schema"
)

// Tx is one transaction as delivered by the host.
type Tx struct {
	// Sender is the identity of the peer that signed the transaction.
	Sender string
	// Value is the decoded JSON payload; nil for payload-less commands.
	Value map[string]any
}

// text returns the trimmed string at key, or "" when absent or not a string.
func (tx Tx) text(key string) string {
	s, _ := tx.Value[key].(string)

	return strings.TrimSpace(s)
}

// optionalText returns the trimmed string at key, or nil when absent or blank.
func (tx Tx) optionalText(key string) *string {
	s := tx.text(key)
	if s == "" {
		return nil
	}

	return &s
}

// stringList returns the string items of the array at key.
func (tx Tx) stringList(key string) []string {
	items, _ := tx.Value[key].([]any)

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

// timestamp returns the integer-parsed ts field.
func (tx Tx) timestamp() (int64, bool) {
	value, ok := tx.Value["ts"]
	if !ok || value == nil {
		return 0, false
	}

	return schema.IntegerOf(value)
}

// ParseLimit clamps a requested page size to [1, MaxLimit].
// Absent or non-numeric values give DefaultLimit.
func ParseLimit(value any) int {
	if value == nil {
		return DefaultLimit
	}

	requested, ok := schema.IntegerOf(value)
	if !ok {
		return DefaultLimit
	}

	return int(max(1, min(requested, MaxLimit)))
}
