package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/kidscout/internal/sheets"
)

// setupCommand returns the setup subcommand, which creates and seeds the
// worksheet structure the pipeline expects. It is safe to run repeatedly.
func setupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create and seed the spreadsheet worksheets",
		Long: `Create the Config, Search Terms, Results, and Instructions worksheets
with their starter content. Existing worksheets are left untouched.`,
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

			if err := store.Bootstrap(ctx); err != nil {
				return fmt.Errorf("bootstrap spreadsheet: %w", err)
			}

			log.Info("spreadsheet ready")
			return nil
		},
	}
}
