// Package processor drives the discovery-and-scoring cycle: multi-term
// channel search, dedup against the results store snapshot, and batched
// fetch/classify/persist with run-summary updates.
package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/kidscout/internal/domain"
	"github.com/jonesrussell/kidscout/internal/logger"
)

// SearchClient finds channel identifiers for a search term. Partial results
// with a nil error are expected on local failures; an error wrapping
// domain.ErrQuotaExceeded means no further searches should be issued.
type SearchClient interface {
	SearchChannels(ctx context.Context, query string, maxResults int) ([]string, error)
}

// ChannelFetcher retrieves the metadata needed to classify one channel.
type ChannelFetcher interface {
	ChannelDetails(ctx context.Context, channelID string) (*domain.ChannelCandidate, error)
}

// Classifier scores channel text against the kids-content taxonomy.
type Classifier interface {
	Classify(text string) domain.Classification
}

// ConfigStore supplies the per-run configuration.
type ConfigStore interface {
	RunConfig(ctx context.Context) (*domain.RunConfig, error)
}

// ResultsStore persists analyzed channels and the run summary.
type ResultsStore interface {
	ExistingChannelIDs(ctx context.Context) (map[string]struct{}, error)
	AppendChannels(ctx context.Context, channels []domain.AnalyzedChannel) error
	WriteSummary(ctx context.Context, summary *domain.RunSummary) error
}

// defaultBatchSize is the number of channels processed and persisted as one
// unit when no size is configured.
const defaultBatchSize = 100

// Config holds runner tunables.
type Config struct {
	// BatchSize trades throughput for crash-resilience: each batch is
	// persisted independently and immediately.
	BatchSize     int
	TermInterval  time.Duration
	FetchInterval time.Duration
	BatchInterval time.Duration
}

// Runner orchestrates one discovery run. Execution is fully sequential.
type Runner struct {
	configStore ConfigStore
	results     ResultsStore
	search      SearchClient
	fetcher     ChannelFetcher
	classifier  Classifier
	logger      logger.Logger

	batchSize int
	terms     *Pacer
	fetches   *Pacer
	batches   *Pacer
}

// NewRunner creates a runner.
func NewRunner(
	configStore ConfigStore,
	results ResultsStore,
	search SearchClient,
	fetcher ChannelFetcher,
	classifier Classifier,
	log logger.Logger,
	cfg Config,
) *Runner {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	return &Runner{
		configStore: configStore,
		results:     results,
		search:      search,
		fetcher:     fetcher,
		classifier:  classifier,
		logger:      log,
		batchSize:   cfg.BatchSize,
		terms:       NewPacer(cfg.TermInterval),
		fetches:     NewPacer(cfg.FetchInterval),
		batches:     NewPacer(cfg.BatchInterval),
	}
}

// Run executes one full cycle: load config, search all terms, dedup against
// the store snapshot, process batches, finalize the summary.
//
// Per-term and per-channel failures are logged and skipped; the run always
// proceeds to completion and persists whatever was safely gathered. Only a
// failure to write the final summary is returned.
func (r *Runner) Run(ctx context.Context) (*domain.RunSummary, error) {
	r.logger.Info("starting discovery run")

	cfg := r.loadConfig(ctx)
	activeTerms := cfg.ActiveTerms()

	discovered := r.searchAllTerms(ctx, cfg, activeTerms)

	existing := r.loadExistingSet(ctx)
	candidates := subtract(discovered, existing)

	r.logger.Info("dedup complete",
		logger.Int("discovered", len(discovered)),
		logger.Int("existing", len(existing)),
		logger.Int("new", len(candidates)),
	)

	summary := &domain.RunSummary{SearchTerms: termQueries(activeTerms)}

	for i, batch := range partition(candidates, r.batchSize) {
		if i > 0 {
			if err := r.batches.Wait(ctx); err != nil {
				break
			}
		}

		r.logger.Info("processing batch",
			logger.Int("batch", i+1),
			logger.Int("size", len(batch)),
		)

		analyzed, kept := r.processBatch(ctx, batch, cfg)
		summary.TotalAnalyzed += analyzed

		if len(kept) > 0 {
			if err := r.results.AppendChannels(ctx, kept); err != nil {
				r.logger.Error("batch persist failed",
					logger.Int("batch", i+1),
					logger.Int("channels", len(kept)),
					logger.Error(err),
				)
			} else {
				summary.NewAdded += len(kept)
			}
		}

		// An empty batch writes no rows but still refreshes statistics.
		summary.LastRun = time.Now()
		if err := r.results.WriteSummary(ctx, summary); err != nil {
			r.logger.Warn("summary update failed", logger.Error(err))
		}
	}

	summary.LastRun = time.Now()
	if err := r.results.WriteSummary(ctx, summary); err != nil {
		return summary, fmt.Errorf("finalize run summary: %w", err)
	}

	r.logger.Info("discovery run complete",
		logger.Int("analyzed", summary.TotalAnalyzed),
		logger.Int("new_added", summary.NewAdded),
	)

	return summary, nil
}

// loadConfig reads the run config, falling back to hardcoded defaults when
// the store is unreachable.
func (r *Runner) loadConfig(ctx context.Context) *domain.RunConfig {
	cfg, err := r.configStore.RunConfig(ctx)
	if err != nil {
		r.logger.Warn("config store unavailable, using defaults", logger.Error(err))
		return domain.DefaultRunConfig()
	}
	cfg.Normalize()

	r.logger.Info("run config loaded",
		logger.Int("terms", len(cfg.SearchTerms)),
		logger.Int("max_results_per_term", cfg.MaxResultsPerTerm),
		logger.Int("min_kids_score", cfg.MinKidsScore),
	)
	return cfg
}

// searchAllTerms accumulates the union of identifiers discovered across all
// active terms, in discovery order. Quota exhaustion ends the search phase
// early; the run proceeds with whatever was accumulated.
func (r *Runner) searchAllTerms(ctx context.Context, cfg *domain.RunConfig, terms []domain.SearchTerm) []string {
	seen := make(map[string]struct{})
	var ordered []string

	for i, term := range terms {
		if i > 0 {
			if err := r.terms.Wait(ctx); err != nil {
				break
			}
		}

		ids, err := r.search.SearchChannels(ctx, term.Query, cfg.MaxResultsPerTerm)
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ordered = append(ordered, id)
		}

		if err != nil {
			if errors.Is(err, domain.ErrQuotaExceeded) {
				r.logger.Warn("search quota exhausted, ending search phase",
					logger.String("term", term.Query),
					logger.Int("accumulated", len(ordered)),
				)
				break
			}
			r.logger.Warn("search term failed, continuing",
				logger.String("term", term.Query),
				logger.Error(err),
			)
			continue
		}

		r.logger.Info("term search complete",
			logger.String("term", term.Query),
			logger.Int("found", len(ids)),
		)
	}

	return ordered
}

// loadExistingSet snapshots the persisted identifiers once per run. A read
// failure degrades to an empty set, which makes a transient failure look
// like a first run; the append-side dedup accepts that ambiguity.
func (r *Runner) loadExistingSet(ctx context.Context) map[string]struct{} {
	existing, err := r.results.ExistingChannelIDs(ctx)
	if err != nil {
		r.logger.Warn("existing-channel read failed, treating store as empty", logger.Error(err))
		return make(map[string]struct{})
	}
	return existing
}

func termQueries(terms []domain.SearchTerm) []string {
	queries := make([]string, 0, len(terms))
	for _, t := range terms {
		queries = append(queries, t.Query)
	}
	return queries
}
