// Package cmd implements the CLI commands for chronoform using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/chronoform/internal/config"
	"github.com/gaurav-prasanna/chronoform/internal/logger"
)

// Persistent flag variables.
var (
	flagLogLevel string
	flagLogJSON  bool
	flagEnvFile  string
)

// cfg is loaded once before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "chronoform",
	Short: "chronoform — normalize chronology entry HTML",
	Long: `chronoform fetches chronology entries from the case-management API,
re-renders each entry's HTML into normalized headings, list items and
paragraphs, and writes the result back.

Usage:
  chronoform normalize [file]
  chronoform run --book-id <id>
  chronoform queue`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetupLogger(flagLogLevel, flagLogJSON, nil)

		var err error
		cfg, err = config.Load(flagEnvFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Environment file to load before reading config")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
