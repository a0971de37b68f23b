package alert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseSeverity covers case-insensitive parsing and rejection of unknown values.
func TestParseSeverity(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]Severity{
		"low":        SeverityLow,
		" Medium ":   SeverityMedium,
		"HIGH":       SeverityHigh,
		"critical\n": SeverityCritical,
	} {
		got, ok := ParseSeverity(raw)
		require.True(t, ok, raw)
		require.Equal(t, want, got)
	}

	for _, raw := range []string{"", "urgent", "hi"} {
		_, ok := ParseSeverity(raw)
		require.False(t, ok, raw)
	}
}

// TestNormalizeStatus lower-cases and trims.
func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, StatusOpen, NormalizeStatus(" Open "))
	require.Equal(t, StatusAcknowledged, NormalizeStatus("ACKNOWLEDGED"))
	require.Equal(t, Status("bogus"), NormalizeStatus("Bogus"))
}

// TestNormalizeTags drops empty entries and keeps order.
func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"indexer", "sync"}, NormalizeTags([]string{" indexer", "", "  ", "sync "}))
	require.NotNil(t, NormalizeTags(nil))
	require.Empty(t, NormalizeTags(nil))
}

// TestKey checks the store key layout.
func TestKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "alert/alert-001", Key("alert-001"))
}

// TestAlertClone verifies Clone returns a deep copy and handles nil safely.
func TestAlertClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Alert)(nil).Clone())

	at := int64(100)
	note := "checking"
	channel := "ops/indexer"

	a := &Alert{
		AlertID:   "a1",
		Channel:   &channel,
		Tags:      []string{"x"},
		RaisedAt:  &at,
		UpdatedAt: &at,
		Ack:       &Ack{By: "peer-y", At: &at, Note: &note},
		Resolved:  &Resolution{By: "peer-x", At: &at},
	}

	b := a.Clone()
	require.Equal(t, a, b)
	require.NotSame(t, a, b)
	require.NotSame(t, a.Ack, b.Ack)
	require.NotSame(t, a.Ack.Note, b.Ack.Note)
	require.NotSame(t, a.Resolved, b.Resolved)
	require.NotSame(t, a.Channel, b.Channel)

	b.Tags[0] = "y"
	require.Equal(t, "x", a.Tags[0])
}
