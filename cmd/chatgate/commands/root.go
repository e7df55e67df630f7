// Package commands implements the chatgate CLI commands using cobra.
package commands

import (
	"log/slog"
	"os"

	"github.com/averko/chatgate/pkg/chatgate/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the CLI root command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chatgate",
		Short: "chatgate - LLM chat API gateway",
		Long: `chatgate is an HTTP gateway that proxies chat messages to an LLM
provider, persists conversation history, and routes each message to
the cheapest model that can handle it, with automatic fallback.

Examples:
  chatgate serve
  chatgate chat "explain goroutines"
  chatgate models
  chatgate key set`,
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newModelsCmd(),
		newStatsCmd(),
		newKeyCmd(),
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	return rootCmd
}

// resolveConfig loads the configuration for a command invocation. A missing
// file is not an error: the service can start from defaults plus env vars.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	return config.Load(configPath)
}

// newLogger builds the slog logger from config and the --verbose flag.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")

	level := slog.LevelInfo
	switch {
	case verbose, cfg.Logging.Level == "debug":
		level = slog.LevelDebug
	case cfg.Logging.Level == "warn":
		level = slog.LevelWarn
	case cfg.Logging.Level == "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}
