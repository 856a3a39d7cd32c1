// Package sheets implements the spreadsheet-backed config and results stores
// on the Google Sheets API. The Results worksheet is an append-only tabular
// log keyed by channel identifier; the Config worksheet carries run settings
// and the overwritten summary region.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/jonesrussell/kidscout/internal/domain"
	"github.com/jonesrussell/kidscout/internal/logger"
)

// Worksheet names and fixed ranges.
const (
	configSheet       = "Config"
	searchTermsSheet  = "Search Terms"
	resultsSheet      = "Results"
	instructionsSheet = "Instructions"

	settingsRange    = configSheet + "!A2:B"
	searchTermsRange = "'" + searchTermsSheet + "'!A2:C"
	existingIDsRange = resultsSheet + "!A2:A"
	resultsHeadRange = resultsSheet + "!A1"
	summaryRange     = configSheet + "!D1:E4"

	// timeLayout matches the analysis-date format in persisted rows.
	timeLayout = "2006-01-02 15:04:05"
)

// resultsHeader is the fixed header row of the Results worksheet. It is
// written exactly once, when the worksheet is created.
var resultsHeader = []any{
	"Channel ID", "Channel Title", "Channel URL", "Subscriber Count",
	"Video Count", "Kids Score", "Matched Keywords", "Likely Kids Content",
	"Analysis Date",
}

// Config holds store construction parameters. Credentials are passed through
// to the API client untouched; JSON wins over the file path when both are set.
type Config struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string

	// Endpoint overrides the API endpoint and disables authentication.
	// Used in tests.
	Endpoint string
}

// Store reads run configuration from and persists analyzed channels to one
// spreadsheet.
type Store struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	logger        logger.Logger
}

// NewStore creates a Store for the configured spreadsheet.
func NewStore(ctx context.Context, cfg Config, log logger.Logger) (*Store, error) {
	var opts []option.ClientOption
	switch {
	case cfg.Endpoint != "":
		opts = append(opts,
			option.WithEndpoint(cfg.Endpoint),
			option.WithoutAuthentication(),
		)
	case cfg.CredentialsJSON != "":
		opts = append(opts,
			option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		)
	case cfg.CredentialsFile != "":
		opts = append(opts,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		)
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Store{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        log,
	}, nil
}

// RunConfig reads the run settings and search terms. Any read failure is
// reported as a store failure; the orchestrator falls back to defaults.
func (s *Store) RunConfig(ctx context.Context) (*domain.RunConfig, error) {
	settings, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, settingsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read settings: %w", domain.ErrStoreUnavailable, err)
	}

	cfg := &domain.RunConfig{}
	for _, row := range settings.Values {
		if len(row) < 2 {
			continue
		}
		switch asString(row[0]) {
		case "max_results_per_term":
			cfg.MaxResultsPerTerm = asInt(row[1])
		case "min_kids_score":
			cfg.MinKidsScore = asInt(row[1])
		}
	}

	terms, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, searchTermsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read search terms: %w", domain.ErrStoreUnavailable, err)
	}

	for _, row := range terms.Values {
		if len(row) == 0 {
			continue
		}
		term := domain.SearchTerm{
			Query:  asString(row[0]),
			Active: true, // missing flag means active
		}
		if term.Query == "" {
			continue
		}
		if len(row) > 1 {
			term.Description = asString(row[1])
		}
		if len(row) > 2 {
			term.Active = asBool(row[2])
		}
		cfg.SearchTerms = append(cfg.SearchTerms, term)
	}

	cfg.Normalize()
	return cfg, nil
}

// ExistingChannelIDs snapshots the identifiers already persisted. The
// snapshot is taken once per run and never refreshed; a concurrent writer
// racing it is unsupported. A missing Results worksheet is the first-run
// case and yields an empty set, not an error.
func (s *Store) ExistingChannelIDs(ctx context.Context) (map[string]struct{}, error) {
	existing := make(map[string]struct{})

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, existingIDsRange).Context(ctx).Do()
	if err != nil {
		if isMissingRange(err) {
			s.logger.Info("results worksheet not found, assuming first run")
			return existing, nil
		}
		return existing, fmt.Errorf("%w: read existing channels: %w", domain.ErrStoreUnavailable, err)
	}

	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if id := asString(row[0]); id != "" {
			existing[id] = struct{}{}
		}
	}

	s.logger.Info("loaded existing channels", logger.Int("count", len(existing)))
	return existing, nil
}

// AppendChannels appends one batch of analyzed channels after the last
// existing row. The Results worksheet is created with its header on first
// use; prior rows are never touched.
func (s *Store) AppendChannels(ctx context.Context, channels []domain.AnalyzedChannel) error {
	if len(channels) == 0 {
		return nil
	}

	if err := s.ensureResultsSheet(ctx); err != nil {
		return err
	}

	rows := make([][]any, 0, len(channels))
	for i := range channels {
		rows = append(rows, resultRow(&channels[i]))
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, resultsHeadRange, &sheetsapi.ValueRange{
		Values: rows,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: append channels: %w", domain.ErrStoreUnavailable, err)
	}

	s.logger.Info("appended channels", logger.Int("count", len(rows)))
	return nil
}

// WriteSummary overwrites the fixed summary region of the Config worksheet.
func (s *Store) WriteSummary(ctx context.Context, summary *domain.RunSummary) error {
	values := [][]any{
		{"Last Run", summary.LastRun.Format(timeLayout)},
		{"Total Channels Analyzed", summary.TotalAnalyzed},
		{"NEW Kids Channels Added", summary.NewAdded},
		{"Search Terms Used", strings.Join(summary.SearchTerms, ", ")},
	}

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, summaryRange, &sheetsapi.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: write summary: %w", domain.ErrStoreUnavailable, err)
	}

	return nil
}

// ensureResultsSheet creates the Results worksheet with its header row when
// it does not exist yet.
func (s *Store) ensureResultsSheet(ctx context.Context) error {
	exists, err := s.sheetExists(ctx, resultsSheet)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.addSheet(ctx, resultsSheet); err != nil {
		return err
	}

	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, resultsHeadRange, &sheetsapi.ValueRange{
		Values: [][]any{resultsHeader},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: write results header: %w", domain.ErrStoreUnavailable, err)
	}

	s.logger.Info("created results worksheet")
	return nil
}

func (s *Store) sheetExists(ctx context.Context, title string) (bool, error) {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("%w: read spreadsheet metadata: %w", domain.ErrStoreUnavailable, err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) addSheet(ctx context.Context, title string) error {
	_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: add worksheet %s: %w", domain.ErrStoreUnavailable, title, err)
	}
	return nil
}

// resultRow renders one persisted row in the fixed header order.
func resultRow(ch *domain.AnalyzedChannel) []any {
	likely := "No"
	if ch.IsKidsContent {
		likely = "Yes"
	}
	return []any{
		ch.ID,
		ch.Title,
		ch.URL,
		ch.SubscriberCount,
		ch.VideoCount,
		ch.Score,
		strings.Join(ch.MatchedKeywords, ", "),
		likely,
		ch.AnalyzedAt.Format(timeLayout),
	}
}

// isMissingRange reports whether the error is the API's response to a range
// referencing a worksheet that does not exist.
func isMissingRange(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusBadRequest
	}
	return false
}

// Cell values arrive as strings or numbers depending on formatting; parse
// leniently the way the settings sheet is actually filled in.

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case fmt.Stringer:
		return strings.TrimSpace(s.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		i, err := strconv.Atoi(asString(v))
		if err != nil {
			return 0
		}
		return i
	}
}

func asBool(v any) bool {
	switch strings.ToLower(asString(v)) {
	case "true", "yes", "1", "y":
		return true
	default:
		return false
	}
}
