package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/kidscout/internal/classifier"
	"github.com/jonesrussell/kidscout/internal/logger"
	"github.com/jonesrussell/kidscout/internal/processor"
	"github.com/jonesrussell/kidscout/internal/sheets"
	"github.com/jonesrussell/kidscout/internal/youtube"
)

// discoverCommand returns the discover subcommand, which executes one full
// discovery cycle and exits.
func discoverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Run one discovery cycle",
		Long: `Search YouTube for channels matching the configured terms, classify
each channel not yet recorded, and append likely kids channels to the
spreadsheet.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()

			store, err := sheets.NewStore(ctx, sheets.Config{
				SpreadsheetID:   cfg.Sheets.SpreadsheetID,
				CredentialsJSON: cfg.Sheets.CredentialsJSON,
				CredentialsFile: cfg.Sheets.CredentialsFile,
			}, log)
			if err != nil {
				return fmt.Errorf("create sheets store: %w", err)
			}

			client := youtube.NewClient(youtube.ClientConfig{
				APIKey:       cfg.YouTube.APIKey,
				BaseURL:      cfg.YouTube.BaseURL,
				Timeout:      cfg.YouTube.Timeout,
				PageInterval: cfg.YouTube.PageInterval,
			}, log)

			runner := processor.NewRunner(
				store,
				store,
				client,
				client,
				classifier.New(log),
				log,
				processor.Config{
					BatchSize:     cfg.Service.BatchSize,
					TermInterval:  cfg.YouTube.TermInterval,
					FetchInterval: cfg.YouTube.FetchInterval,
					BatchInterval: cfg.Service.BatchInterval,
				},
			)

			summary, err := runner.Run(ctx)
			if err != nil {
				return err
			}

			log.Info("run finished",
				logger.Int("total_analyzed", summary.TotalAnalyzed),
				logger.Int("new_added", summary.NewAdded),
				logger.Strings("search_terms", summary.SearchTerms),
			)
			return nil
		},
	}
}
