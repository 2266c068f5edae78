// Package cli wires the goblocks command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/me/goblocks/internal/logging"
)

var (
	flagConfig    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// defaultConfigPath returns the default config file location, checking the
// GOBLOCKS_CONFIG env var first.
func defaultConfigPath() string {
	if p := os.Getenv("GOBLOCKS_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "goblocks.yaml"
	}
	return home + "/.config/goblocks/config.yaml"
}

// NewRootCmd creates the root cobra command for goblocks.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "goblocks",
		Short: "goblocks — a scheduler for status line blocks",
		Long:  "goblocks runs configured status blocks on their intervals, signals and clicks, and feeds the i3bar protocol on stdout.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", defaultConfigPath(), "Config file path (or GOBLOCKS_CONFIG env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newHistoryCmd(),
		newCheckCmd(),
	)

	return root
}
