package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	api "github.com/oshokin/pulse-sentry/internal/api/grpc/sentry"
	"github.com/oshokin/pulse-sentry/internal/config"
	"github.com/oshokin/pulse-sentry/internal/logger"
)

// Options controls the pulse-sentry-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// StoreDriver overrides the store driver from config.
	StoreDriver string
	// StorePath overrides the store location from config.
	StorePath string
	// LogLevel overrides the log level from config.
	LogLevel string
	// AllowConcurrent skips the check for other running server processes.
	AllowConcurrent bool
	// Ready, when set, receives the bound listen address once the server accepts connections.
	Ready chan<- string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server and blocks until context is canceled or server stops.
// Loads configuration first, then determines listen address from config or override.
func Run(ctx context.Context, opts *Options) error {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = applyOverrides(settings, opts); err != nil {
		return err
	}

	if err = configureLogger(settings); err != nil {
		return err
	}

	// Named after configureLogger so the context logger uses the chosen encoder.
	ctx = logger.WithName(ctx, "pulse-sentry-server")

	if !opts.AllowConcurrent {
		if err = ensureSingleWriter(currentExecutable()); err != nil {
			return err
		}
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	svc, err := newService(ctx, settings.StoreDriver, settings.StorePath)
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	defer svc.close(ctx)

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterServiceServer(grpcServer, api.NewServer(svc.peer))

	logger.InfoKV(ctx, "Pulse sentry server listening",
		"listen_address", lis.Addr().String(),
		"store_driver", settings.StoreDriver,
		"store_path", settings.StorePath)

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if opts.Ready != nil {
		opts.Ready <- lis.Addr().String()
	}

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// applyOverrides layers command line options over the loaded settings.
func applyOverrides(settings *config.Config, opts *Options) error {
	if opts.StoreDriver != "" {
		settings.StoreDriver = opts.StoreDriver
		settings.StorePath = ""
	}

	if opts.StorePath != "" {
		settings.StorePath = opts.StorePath
	}

	if opts.LogLevel != "" {
		settings.LogLevel = opts.LogLevel
	}

	if err := config.Validate(settings); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	return nil
}

// configureLogger applies the level and encoder chosen in settings.
func configureLogger(settings *config.Config) error {
	level, ok := logger.ParseLogLevel(settings.LogLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", settings.LogLevel)
	}

	logger.SetLevel(level)

	if format, _ := logger.ParseFormat(settings.LogFormat); format == logger.FormatJSON {
		logger.SetLogger(logger.NewWithWriter(os.Stdout, logger.FormatJSON, nil))
	}

	return nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Port-only address binds on all interfaces.
	return ":" + port, nil
}
