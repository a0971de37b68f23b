package server

import (
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

// fakeProcess implements ps.Process for guard tests.
type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int { return p.pid }

func (p fakeProcess) PPid() int { return 1 }

func (p fakeProcess) Executable() string { return p.name }

// TestFindConflicting skips the current process and matches truncated names.
func TestFindConflicting(t *testing.T) {
	t.Parallel()

	processList := []ps.Process{
		fakeProcess{pid: 10, name: "pulse-sentry-server"},
		fakeProcess{pid: 11, name: "pulse-sentry"},
	}

	_, found := findConflicting(processList, 10, "pulse-sentry-server")
	require.False(t, found)

	processList = append(processList, fakeProcess{pid: 12, name: "pulse-sentry-se"})

	pid, found := findConflicting(processList, 10, "pulse-sentry-server")
	require.True(t, found)
	require.Equal(t, 12, pid)
}

// TestSameExecutable compares names across platforms.
func TestSameExecutable(t *testing.T) {
	t.Parallel()

	require.True(t, sameExecutable("pulse-sentry-server.exe", "pulse-sentry-server"))
	require.True(t, sameExecutable("pulse-sentry-se", "pulse-sentry-server"))
	require.False(t, sameExecutable("pulse-sentry", "pulse-sentry-server"))
	require.False(t, sameExecutable("", ""))
}
