//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDetectSender ensures the sender carries both user and host.
func TestDetectSender(t *testing.T) {
	t.Parallel()

	sender, err := DetectSender()
	require.NoError(t, err)

	username, hostname, found := strings.Cut(sender, "@")
	require.True(t, found)
	require.NotEmpty(t, username)
	require.NotEmpty(t, hostname)
}

// TestResolveSender prefers the explicit flag over the configured default.
func TestResolveSender(t *testing.T) {
	t.Parallel()

	sender, err := ResolveSender("trac1flag", "trac1config")
	require.NoError(t, err)
	require.Equal(t, "trac1flag", sender)

	sender, err = ResolveSender("", "trac1config")
	require.NoError(t, err)
	require.Equal(t, "trac1config", sender)
}
