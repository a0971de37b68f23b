package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/pulse-sentry/internal/config"
	"github.com/oshokin/pulse-sentry/internal/service/server"
	"github.com/oshokin/pulse-sentry/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// storeDriver overrides the store driver from config.
	storeDriver string
	// storePath overrides the store location from config.
	storePath string
	// logLevel overrides the log level from config.
	logLevel string
	// allowConcurrent disables the running-process check.
	allowConcurrent bool

	// rootCmd represents the base command for running the gRPC server.
	rootCmd = &cobra.Command{
		Use:   "pulse-sentry-server [listen-address]",
		Short: "Run the pulse-sentry peer and serve alert transactions over gRPC.",
		Long: `Starts the pulse-sentry peer that owns the alert board and applies transactions.

The server listens on the specified address or uses settings from configuration file.
Only the port from server_addr config is used for listening (e.g., :7070).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:7070).
Alert state is kept in a memory, JSON file or SQLite store chosen by store_driver.
Only one server process may run per machine unless --allow-concurrent is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:      configPath,
				ListenAddress:   listenAddress,
				StoreDriver:     storeDriver,
				StorePath:       storePath,
				LogLevel:        logLevel,
				AllowConcurrent: allowConcurrent,
			})
		},
	}
)

// Execute runs the pulse-sentry-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVar(&storeDriver, "store-driver", "", "store driver override: memory, file or sqlite")
	flags.StringVarP(&storePath, "store-path", "s", "", "store file or database path override")
	flags.StringVar(&logLevel, "log-level", "", "log level override: debug, info, warn or error")
	flags.BoolVar(&allowConcurrent, "allow-concurrent", false, "skip the check for other running server processes")
}
