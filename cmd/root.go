// Package cmd implements the kidscout command-line interface.
// It provides the root command and the discover, setup, and version
// subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/kidscout/internal/config"
	"github.com/jonesrussell/kidscout/internal/logger"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug forces debug-level logging regardless of configuration.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "kidscout",
		Short: "Discover and score YouTube kids channels",
		Long: `kidscout searches YouTube for children's channels, scores each one
against a kids-content keyword taxonomy, and records new findings in a
Google Sheets spreadsheet.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command. The context is cancelled on SIGINT or
// SIGTERM so an in-flight run stops between operations and keeps what it
// has already persisted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(discoverCommand())
	rootCmd.AddCommand(setupCommand())
	rootCmd.AddCommand(versionCommand())
}

// loadConfig reads process configuration and builds the logger shared by
// all subcommands. Environment variables always win over file values.
func loadConfig() (*config.Config, logger.Logger, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	logCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if debug {
		logCfg.Level = "debug"
		logCfg.Development = true
	}

	log, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, log, nil
}
