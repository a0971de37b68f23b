package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/pulse-sentry/internal/logger"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	// ServerAddress is the gRPC server address.
	ServerAddress string `yaml:"server_addr"`
	// StoreDriver selects the keyed store implementation: memory, file or sqlite.
	StoreDriver string `yaml:"store_driver"`
	// StorePath is the file or database location for persistent drivers.
	StorePath string `yaml:"store_path"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level written by the server logger.
	LogLevel string `yaml:"log_level"`
	// LogFormat is console or json.
	LogFormat string `yaml:"log_format"`
	// Sender is the default transaction sender used by the CLI.
	// When empty the CLI derives one from the current user and hostname.
	Sender string `yaml:"sender,omitempty"`
}

// Store drivers understood by the repository factory.
const (
	StoreDriverMemory = "memory"
	StoreDriverFile   = "file"
	StoreDriverSQLite = "sqlite"
)

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "pulse-sentry.yaml"

	// DefaultFileStoreFilename is the default path of the JSON file store.
	DefaultFileStoreFilename = "pulse-sentry-state.json"

	// DefaultSQLiteFilename is the default path of the SQLite store.
	DefaultSQLiteFilename = "pulse-sentry.db"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default permission for files written by the project.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errUnknownStoreDriver is returned for drivers the factory cannot open.
	errUnknownStoreDriver = errors.New("unknown store driver")
	// errUnknownLogLevel is returned for levels zap does not know.
	errUnknownLogLevel = errors.New("unknown log level")
	// errUnknownLogFormat is returned for unsupported encoders.
	errUnknownLogFormat = errors.New("unknown log format")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes Config to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults in place.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	settings.StoreDriver = strings.ToLower(strings.TrimSpace(settings.StoreDriver))

	switch settings.StoreDriver {
	case "":
		settings.StoreDriver = StoreDriverFile
	case StoreDriverMemory, StoreDriverFile, StoreDriverSQLite:
	default:
		return fmt.Errorf("%w: %q", errUnknownStoreDriver, settings.StoreDriver)
	}

	if settings.StorePath == "" {
		settings.StorePath = DefaultStorePath(settings.StoreDriver)
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	if _, ok := logger.ParseFormat(settings.LogFormat); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogFormat, settings.LogFormat)
	}

	return nil
}

// DefaultStorePath returns the default location for a store driver.
func DefaultStorePath(driver string) string {
	switch driver {
	case StoreDriverSQLite:
		return DefaultSQLiteFilename
	case StoreDriverFile:
		return DefaultFileStoreFilename
	default:
		return ""
	}
}
