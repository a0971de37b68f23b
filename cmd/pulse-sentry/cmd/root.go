package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/pulse-sentry/internal/config"
	"github.com/oshokin/pulse-sentry/internal/service/client"
	"github.com/oshokin/pulse-sentry/internal/version"
)

const binaryName = "pulse-sentry"

// errTimerValueRequired is returned by timer set without a value or --now.
var errTimerValueRequired = errors.New("timer value or --now is required")

var (
	// opts is shared by every subcommand through persistent flags.
	opts client.Options

	// txCommand is the router input submitted by tx.
	txCommand string
	// getKey is the store key read by get.
	getKey string
	// getConfirmed selects confirmed reads.
	getConfirmed bool
	// getUnconfirmed forces tentative reads and wins over --confirmed.
	getUnconfirmed bool
	// timerNow sets the timer from the local clock.
	timerNow bool

	// rootCmd represents the base command of the pulse-sentry CLI.
	rootCmd = &cobra.Command{
		Use:   binaryName,
		Short: "Raise, acknowledge and resolve alerts on a pulse-sentry peer.",
		Long: `Command line client of the pulse-sentry peer.

Transactions are submitted with tx; reads of the board are tx commands too
(alert_snapshot, alert_list:N, alert_read:ID, alert_status:S, read_timer).
The sender defaults to the configured sender or to user@hostname.`,
		SilenceUsage: true,
	}

	txCmd = &cobra.Command{
		Use:   "tx",
		Short: "Submit one command and print the result record.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return client.RunTx(ctx, cmd.OutOrStdout(), &opts, txCommand)
		},
	}

	getCmd = &cobra.Command{
		Use:   "get",
		Short: "Read one raw store key.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			confirmed := getConfirmed && !getUnconfirmed

			return client.RunGet(ctx, cmd.OutOrStdout(), &opts, getKey, confirmed)
		},
	}

	timerCmd = &cobra.Command{
		Use:   "timer",
		Short: "Manage the shared timer used for alert timestamps.",
	}

	timerSetCmd = &cobra.Command{
		Use:   "set [unix-millis]",
		Short: "Set the shared timer value.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := timerValue(args)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			return client.RunTimerSet(ctx, cmd.OutOrStdout(), &opts, value)
		},
	}

	examplesCmd = &cobra.Command{
		Use:   "examples",
		Short: "Print ready tx commands for the alert lifecycle.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return client.WriteExamples(cmd.OutOrStdout(), binaryName)
		},
	}

	wizardCmd = &cobra.Command{
		Use:   "wizard",
		Short: "Print the raise, acknowledge and resolve walkthrough.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return client.WriteWizard(cmd.OutOrStdout(), binaryName)
		},
	}

	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Print the server's application descriptor.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return client.RunInfo(ctx, cmd.OutOrStdout(), &opts)
		},
	}
)

// Execute runs the pulse-sentry CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// timerValue parses the explicit value or falls back to --now.
func timerValue(args []string) (int64, error) {
	if len(args) == 0 {
		if !timerNow {
			return 0, errTimerValueRequired
		}

		return time.Now().UnixMilli(), nil
	}

	value, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timer value %q: %w", args[0], err)
	}

	return value, nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&opts.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	persistent.StringVarP(&opts.ServerAddress, "server", "a", "", "server address override")
	persistent.StringVar(&opts.Sender, "sender", "", "transaction sender override")
	persistent.BoolVarP(&opts.Verbose, "verbose", "v", false, "print client logs")

	txCmd.Flags().StringVar(&txCommand, "command", "", "command to submit, JSON or shorthand")
	getCmd.Flags().StringVar(&getKey, "key", "", "store key to read")
	getCmd.Flags().BoolVar(&getConfirmed, "confirmed", true, "read confirmed state only")
	getCmd.Flags().BoolVar(&getUnconfirmed, "unconfirmed", false, "read tentative state")
	timerSetCmd.Flags().BoolVar(&timerNow, "now", false, "use the local clock")

	for _, required := range []struct {
		cmd  *cobra.Command
		name string
	}{
		{txCmd, "command"},
		{getCmd, "key"},
	} {
		if err := required.cmd.MarkFlagRequired(required.name); err != nil {
			panic(err)
		}
	}

	timerCmd.AddCommand(timerSetCmd)
	rootCmd.AddCommand(txCmd, getCmd, timerCmd, examplesCmd, wizardCmd, infoCmd)
}
