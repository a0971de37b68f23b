package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap/zapcore"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/oshokin/pulse-sentry/internal/config"
	"github.com/oshokin/pulse-sentry/internal/logger"
	"github.com/oshokin/pulse-sentry/internal/service/common"
	"github.com/oshokin/pulse-sentry/internal/service/timer"
)

// Options configures how CLI runners reach the server.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Sender overrides the configured or detected transaction sender.
	Sender string
	// Verbose lets client-side info logs through.
	Verbose bool

	// clientOptions are extra dial options, used by tests.
	clientOptions []common.Option
}

// session is an open connection plus the settings it was built from.
type session struct {
	settings *config.Config
	client   *common.Client
}

// RunTx submits one command and prints the result record.
func RunTx(ctx context.Context, w io.Writer, opts *Options, command string) error {
	ctx = quietContext(ctx, "pulse-sentry tx", opts.Verbose)

	s, err := open(ctx, opts)
	if err != nil {
		return err
	}

	defer s.close()

	sender, err := common.ResolveSender(opts.Sender, s.settings.Sender)
	if err != nil {
		return fmt.Errorf("detect sender: %w", err)
	}

	logger.InfoKV(ctx, "Submitting transaction", "sender", sender, "command", command)

	result, err := s.client.Execute(ctx, sender, command)
	if err != nil {
		return err
	}

	return writeJSON(w, result)
}

// RunGet reads one store key. Confirmed reads only see committed state.
func RunGet(ctx context.Context, w io.Writer, opts *Options, key string, confirmed bool) error {
	ctx = quietContext(ctx, "pulse-sentry get", opts.Verbose)

	s, err := open(ctx, opts)
	if err != nil {
		return err
	}

	defer s.close()

	value, err := s.client.GetKey(ctx, key, confirmed)
	if err != nil {
		return err
	}

	return writeJSON(w, value)
}

// RunTimerSet writes the shared clock through the timer feature.
func RunTimerSet(ctx context.Context, w io.Writer, opts *Options, value int64) error {
	ctx = quietContext(ctx, "pulse-sentry timer", opts.Verbose)

	s, err := open(ctx, opts)
	if err != nil {
		return err
	}

	defer s.close()

	if err = s.client.ApplyFeature(ctx, timer.FeatureName, timer.CurrentTimeKey, value); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Timer updated", "value", value)

	_, err = fmt.Fprintln(w, value)

	return err
}

// RunInfo prints the server's application descriptor.
func RunInfo(ctx context.Context, w io.Writer, opts *Options) error {
	ctx = quietContext(ctx, "pulse-sentry info", opts.Verbose)

	s, err := open(ctx, opts)
	if err != nil {
		return err
	}

	defer s.close()

	info, err := s.client.AppInfo(ctx)
	if err != nil {
		return err
	}

	return writeJSON(w, info)
}

// open loads settings and dials the configured server.
func open(ctx context.Context, opts *Options) (*session, error) {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	serverAddress := settings.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	clientOptions := append([]common.Option{common.WithCallTimeout(settings.Timeout)}, opts.clientOptions...)

	client, err := common.Dial(ctx, serverAddress, clientOptions...)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Connected", "server_address", serverAddress)

	return &session{
		settings: settings,
		client:   client,
	}, nil
}

func (s *session) close() {
	_ = s.client.Close()
}

// quietContext names the logger and, unless verbose, keeps it at warn so
// logs do not interleave with the printed JSON.
func quietContext(ctx context.Context, name string, verbose bool) context.Context {
	ctx = logger.WithName(ctx, name)
	if verbose {
		return ctx
	}

	quiet := logger.FromContext(ctx).WithOptions(logger.WithLevel(zapcore.WarnLevel))

	return logger.ToContext(ctx, quiet)
}

// writeJSON prints message as indented JSON. protojson whitespace varies
// between builds, so it is re-indented here.
func writeJSON(w io.Writer, message proto.Message) error {
	data, err := protojson.Marshal(message)
	if err != nil {
		return fmt.Errorf("format response: %w", err)
	}

	var out bytes.Buffer
	if err = json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("format response: %w", err)
	}

	out.WriteByte('\n')

	_, err = out.WriteTo(w)

	return err
}
