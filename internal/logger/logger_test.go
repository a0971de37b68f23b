package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestParseFormat checks encoder format parsing.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, ok := ParseFormat(" JSON ")
	require.True(t, ok)
	require.Equal(t, FormatJSON, f)

	f, ok = ParseFormat("")
	require.True(t, ok)
	require.Equal(t, FormatConsole, f)

	_, ok = ParseFormat("xml")
	require.False(t, ok)
}

// TestContextLogger ensures scoped fields and names travel through the context.
func TestContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := NewWithWriter(&buf, FormatJSON, zap.NewAtomicLevelAt(zap.DebugLevel))

	ctx := ToContext(context.Background(), l)
	ctx = WithName(ctx, "peer")
	ctx = WithKV(ctx, "sender", "peer-x", "alert_id", "a1")

	InfoKV(ctx, "alert_raise ok", "severity", "high")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "alert_raise ok", entry["message"])
	require.Equal(t, "peer", entry["logger"])
	require.Equal(t, "peer-x", entry["sender"])
	require.Equal(t, "a1", entry["alert_id"])
	require.Equal(t, "high", entry["severity"])
	require.Equal(t, "info", entry["level"])
}

// TestFromContext_Fallback returns the global logger when the context has none.
func TestFromContext_Fallback(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithLevel verifies the overriding level drops lower-severity messages.
func TestWithLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := NewWithWriter(&buf, FormatJSON, zap.NewAtomicLevelAt(zap.DebugLevel)).
		WithOptions(WithLevel(zapcore.WarnLevel))

	ctx := ToContext(context.Background(), l)

	InfoKV(ctx, "dropped")
	require.Empty(t, buf.String())

	WarnKV(ctx, "kept")
	require.Contains(t, buf.String(), "kept")
}
