package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing socket.
	err := Validate(new(Config))
	require.Error(t, err)

	// Bad socket.
	err = Validate(&Config{ServerAddress: "bad:address"})
	require.Error(t, err)

	// Unknown driver.
	err = Validate(&Config{ServerAddress: "127.0.0.1:0", StoreDriver: "redis"})
	require.ErrorIs(t, err, errUnknownStoreDriver)

	// Unknown level.
	err = Validate(&Config{ServerAddress: "127.0.0.1:0", LogLevel: "loud"})
	require.ErrorIs(t, err, errUnknownLogLevel)

	// Unknown format.
	err = Validate(&Config{ServerAddress: "127.0.0.1:0", LogFormat: "xml"})
	require.ErrorIs(t, err, errUnknownLogFormat)
}

// TestValidate_Defaults verifies defaults are filled for optional fields.
func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	settings := &Config{ServerAddress: "127.0.0.1:50061"}
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, StoreDriverFile, settings.StoreDriver)
	require.Equal(t, DefaultFileStoreFilename, settings.StorePath)

	settings = &Config{ServerAddress: "127.0.0.1:50061", StoreDriver: " SQLite "}
	require.NoError(t, Validate(settings))
	require.Equal(t, StoreDriverSQLite, settings.StoreDriver)
	require.Equal(t, DefaultSQLiteFilename, settings.StorePath)

	settings = &Config{ServerAddress: "127.0.0.1:50061", StoreDriver: StoreDriverMemory}
	require.NoError(t, Validate(settings))
	require.Empty(t, settings.StorePath)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	settings := &Config{
		ServerAddress: "127.0.0.1:50061",
		StoreDriver:   StoreDriverSQLite,
		StorePath:     "/var/lib/pulse-sentry/state.db",
		Timeout:       3 * time.Second,
		LogLevel:      "debug",
		Sender:        "peer-x",
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestSave_Nil rejects a nil configuration.
func TestSave_Nil(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil), errConfigIsNotSet)
}
