// Package cmd wires the MIDAS assistant gateway commands.
package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/midas-health/midas/internal/config"
	"github.com/midas-health/midas/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "midas",
	Short: "MIDAS assistant gateway",
	Long: `MIDAS assistant gateway serves the skin-health chat API: knowledge
retrieval over the static index and uploaded documents, completion via an
OpenAI-compatible provider, document management, and ML analysis proxying.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the application logger from configuration.
func newLogger(cfg *config.Config) log.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return log.New(log.Config{Level: level, JSON: cfg.LogJSON})
}
