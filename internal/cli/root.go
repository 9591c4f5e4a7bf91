package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/me/schedsim/internal/logging"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking SCHEDSIM_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("SCHEDSIM_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the schedsim CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schedsim",
		Short: "schedsim: single-CPU scheduling simulator",
		Long: `schedsim simulates FCFS, SJF and Round Robin scheduling of a process set.

The preview and run commands work offline. The remaining commands drive a
schedsim server.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "schedsim server URL (or SCHEDSIM_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		// Offline
		newPreviewCmd(),
		newRunCmd(),
		// Remote
		newAddCmd(),
		newRemoveCmd(),
		newClearCmd(),
		newListCmd(),
		newLoadCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newStartCmd(),
		newPauseCmd(),
		newResumeCmd(),
		newResetCmd(),
		newStepCmd(),
		newRemotePreviewCmd(),
		newRunsCmd(),
	)

	return root
}
