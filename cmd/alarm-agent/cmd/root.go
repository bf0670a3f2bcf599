package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-agent/internal/config"
	"github.com/oshokin/alarm-agent/internal/service/agent"
	"github.com/oshokin/alarm-agent/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command running the monitoring agent.
	rootCmd = &cobra.Command{
		Use:   "alarm-agent",
		Short: "Sample metrics and dispatch alarms.",
		Long: `Monitoring agent that periodically samples operational metrics and dispatches
notification actions when alarm thresholds are crossed.

Checks (filesystem usage, memory usage, process liveness) run on independent
timers. Each alarm requires a configurable number of consecutive bad cycles
before triggering and of good cycles before recovering, so flapping metrics
do not flood the configured actions (log, webhook, process, email).

The agent runs in the foreground until it receives SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return agent.Run(ctx, &agent.Options{
				ConfigPath: configPath,
				LogLevel:   logLevel,
			})
		},
	}
)

// Execute runs the alarm-agent CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level override (debug, info, warn, error)")
}
