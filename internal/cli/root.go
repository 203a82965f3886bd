package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dalfonso89/prayer-times-api/internal/config"
)

// Flags shared by every subcommand. Empty values keep the environment
// configuration.
var (
	flagPort     string
	flagLogLevel string
)

// NewRootCmd creates the root command. Without a subcommand it serves HTTP.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "prayer-times-api",
		Short:         "Prayer times HTTP API",
		Long:          "Resolves a free-text location and serves its daily prayer schedule and current prayer status.",
		Version:       version,
		RunE:          func(cmd *cobra.Command, args []string) error { return runServe(cmd, version) },
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagPort, "port", "", "Override PORT")
	pf.StringVar(&flagLogLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(newServeCmd(version))
	rootCmd.AddCommand(newLookupCmd(version))

	return rootCmd
}

// loadConfig reads the environment and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagPort != "" {
		cfg.Port = flagPort
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}
