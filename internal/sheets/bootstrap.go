package sheets

import (
	"context"
	"fmt"

	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/jonesrussell/kidscout/internal/domain"
	"github.com/jonesrussell/kidscout/internal/logger"
)

// Seed rows for the one-time spreadsheet bootstrap.
var (
	configSeed = [][]any{
		{"Setting", "Value", "", "Summary", "Value"},
		{"max_results_per_term", "50", "", "Last Run", ""},
		{"min_kids_score", "3", "", "Total Channels Analyzed", ""},
		{"", "", "", "NEW Kids Channels Added", ""},
		{"", "", "", "Search Terms Used", ""},
	}

	searchTermsSeed = [][]any{
		{"Search Term", "Description", "Active"},
		{"kids", "General kids content", "TRUE"},
		{"children", "General children content", "TRUE"},
		{"nursery rhymes", "Songs for young children", "TRUE"},
		{"toy review", "Toy unboxing and reviews", "TRUE"},
		{"educational kids", "Educational content for children", "TRUE"},
		{"cartoon for kids", "Animated content for children", "TRUE"},
		{"baby songs", "Songs for babies and toddlers", "TRUE"},
		{"cocomelon", "Popular kids channel brand", "FALSE"},
		{"blippi", "Popular kids educational character", "FALSE"},
		{"peppa pig", "Popular kids cartoon character", "FALSE"},
	}

	instructionsSeed = [][]any{
		{"YouTube Kids Channel Analysis Tool", ""},
		{"", ""},
		{"How to use:", ""},
		{"1. Configure Settings", "Edit the Config sheet to set analysis parameters"},
		{"2. Add Search Terms", "Add or modify search terms in the Search Terms sheet"},
		{"3. Run Discovery", "Run kidscout discover on a schedule or manually"},
		{"4. View Results", "Check the Results sheet for analysis output"},
		{"", ""},
		{"Settings Explanation:", ""},
		{"max_results_per_term", "Maximum channels to find per search term (API quota limit)"},
		{"min_kids_score", "Minimum score to include channel in results (3+ recommended)"},
		{"", ""},
		{"Score Meaning:", ""},
		{"0-2", "Unlikely to be kids content"},
		{"3-5", "Possibly kids content"},
		{"6+", "Very likely kids content"},
	}
)

// Bootstrap creates and seeds the worksheet structure the pipeline expects.
// It is idempotent: worksheets that already exist are left untouched.
func (s *Store) Bootstrap(ctx context.Context) error {
	seeds := []struct {
		title string
		cells [][]any
	}{
		{configSheet, configSeed},
		{searchTermsSheet, searchTermsSeed},
		{resultsSheet, [][]any{resultsHeader}},
		{instructionsSheet, instructionsSeed},
	}

	for _, seed := range seeds {
		exists, err := s.sheetExists(ctx, seed.title)
		if err != nil {
			return err
		}
		if exists {
			s.logger.Info("worksheet already exists, skipping", logger.String("worksheet", seed.title))
			continue
		}

		if err := s.addSheet(ctx, seed.title); err != nil {
			return err
		}

		rng := fmt.Sprintf("'%s'!A1", seed.title)
		_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, &sheetsapi.ValueRange{
			Values: seed.cells,
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%w: seed worksheet %s: %w", domain.ErrStoreUnavailable, seed.title, err)
		}

		s.logger.Info("worksheet created", logger.String("worksheet", seed.title))
	}

	return nil
}
