package processor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/kidscout/internal/domain"
	"github.com/jonesrussell/kidscout/internal/logger"
)

type fakeConfigStore struct {
	cfg *domain.RunConfig
	err error
}

func (f *fakeConfigStore) RunConfig(_ context.Context) (*domain.RunConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

type fakeResultsStore struct {
	existing    map[string]struct{}
	existingErr error
	appendErr   error
	summaryErr  error

	appends   [][]domain.AnalyzedChannel
	summaries []domain.RunSummary
}

func (f *fakeResultsStore) ExistingChannelIDs(_ context.Context) (map[string]struct{}, error) {
	if f.existingErr != nil {
		return nil, f.existingErr
	}
	if f.existing == nil {
		return map[string]struct{}{}, nil
	}
	return f.existing, nil
}

func (f *fakeResultsStore) AppendChannels(_ context.Context, channels []domain.AnalyzedChannel) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	batch := make([]domain.AnalyzedChannel, len(channels))
	copy(batch, channels)
	f.appends = append(f.appends, batch)
	return nil
}

func (f *fakeResultsStore) WriteSummary(_ context.Context, summary *domain.RunSummary) error {
	if f.summaryErr != nil {
		return f.summaryErr
	}
	f.summaries = append(f.summaries, *summary)
	return nil
}

func (f *fakeResultsStore) appendedIDs() []string {
	var ids []string
	for _, batch := range f.appends {
		for _, ch := range batch {
			ids = append(ids, ch.ID)
		}
	}
	return ids
}

type fakeSearch struct {
	pages map[string][]string
	errs  map[string]error
	calls []string
}

func (f *fakeSearch) SearchChannels(_ context.Context, query string, maxResults int) ([]string, error) {
	f.calls = append(f.calls, query)
	ids := f.pages[query]
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, f.errs[query]
}

type fakeFetcher struct {
	candidates map[string]*domain.ChannelCandidate
	failures   map[string]error
}

func (f *fakeFetcher) ChannelDetails(_ context.Context, channelID string) (*domain.ChannelCandidate, error) {
	if err, ok := f.failures[channelID]; ok {
		return nil, err
	}
	if c, ok := f.candidates[channelID]; ok {
		return c, nil
	}
	return nil, domain.ErrChannelNotFound
}

// scoreClassifier scores by candidate title so tests control outcomes.
type scoreClassifier struct {
	scores map[string]int
}

func (s *scoreClassifier) Classify(text string) domain.Classification {
	score := s.scores[text]
	return domain.Classification{
		Score:           score,
		MatchedKeywords: []string{"kids"},
		IsKidsContent:   score >= 3,
	}
}

func candidatesFor(ids ...string) map[string]*domain.ChannelCandidate {
	out := make(map[string]*domain.ChannelCandidate, len(ids))
	for _, id := range ids {
		out[id] = &domain.ChannelCandidate{
			ID:              id,
			Title:           id,
			SubscriberCount: 100,
			VideoCount:      10,
		}
	}
	return out
}

func ids(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%02d", prefix, i)
	}
	return out
}

func newRunner(cfgStore ConfigStore, results ResultsStore, search SearchClient, fetcher ChannelFetcher, classifier Classifier, cfg Config) *Runner {
	return NewRunner(cfgStore, results, search, fetcher, classifier, logger.NewNop(), cfg)
}

func TestRun_SevenOfTenQualify(t *testing.T) {
	channelIDs := ids("UC", 10)
	scores := make(map[string]int)
	for i, id := range channelIDs {
		if i < 7 {
			scores[id] = 5
		} else {
			scores[id] = 1
		}
	}

	results := &fakeResultsStore{}
	runner := newRunner(
		&fakeConfigStore{cfg: &domain.RunConfig{
			SearchTerms:       []domain.SearchTerm{{Query: "kids", Active: true}},
			MaxResultsPerTerm: 10,
			MinKidsScore:      3,
		}},
		results,
		&fakeSearch{pages: map[string][]string{"kids": channelIDs}},
		&fakeFetcher{candidates: candidatesFor(channelIDs...)},
		&scoreClassifier{scores: scores},
		Config{},
	)

	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, summary.TotalAnalyzed)
	assert.Equal(t, 7, summary.NewAdded)
	require.Len(t, results.appends, 1)
	assert.Len(t, results.appends[0], 7)
	assert.Equal(t, []string{"kids"}, summary.SearchTerms)

	for _, ch := range results.appends[0] {
		assert.GreaterOrEqual(t, ch.Score, 3)
		assert.Equal(t, domain.ChannelURL(ch.ID), ch.URL)
		assert.True(t, ch.IsKidsContent)
		assert.False(t, ch.AnalyzedAt.IsZero())
	}
}

func TestRun_SecondRunAddsNothing(t *testing.T) {
	channelIDs := ids("UC", 5)
	scores := make(map[string]int)
	for _, id := range channelIDs {
		scores[id] = 5
	}

	existing := make(map[string]struct{}, len(channelIDs))
	for _, id := range channelIDs {
		existing[id] = struct{}{}
	}

	results := &fakeResultsStore{existing: existing}
	runner := newRunner(
		&fakeConfigStore{cfg: &domain.RunConfig{
			SearchTerms:       []domain.SearchTerm{{Query: "kids", Active: true}},
			MaxResultsPerTerm: 10,
			MinKidsScore:      3,
		}},
		results,
		&fakeSearch{pages: map[string][]string{"kids": channelIDs}},
		&fakeFetcher{candidates: candidatesFor(channelIDs...)},
		&scoreClassifier{scores: scores},
		Config{},
	)

	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, results.appends, "all identifiers already persisted")
	assert.Zero(t, summary.TotalAnalyzed)
	assert.Zero(t, summary.NewAdded)
	require.NotEmpty(t, results.summaries, "summary is written even for a no-op run")
}

func TestRun_QuotaExhaustionEndsSearchPhase(t *testing.T) {
	search := &fakeSearch{
		pages: map[string][]string{
			"kids":     {"UC-a"},
			"children": {"UC-b"},
			"toys":     {"UC-c"},
		},
		errs: map[string]error{
			"children": fmt.Errorf("search: %w", domain.ErrQuotaExceeded),
		},
	}

	results := &fakeResultsStore{}
	runner := newRunner(
		&fakeConfigStore{cfg: &domain.RunConfig{
			SearchTerms: []domain.SearchTerm{
				{Query: "kids", Active: true},
				{Query: "children", Active: true},
				{Query: "toys", Active: true},
			},
			MaxResultsPerTerm: 10,
			MinKidsScore:      3,
		}},
		results,
		search,
		&fakeFetcher{candidates: candidatesFor("UC-a", "UC-b", "UC-c")},
		&scoreClassifier{scores: map[string]int{"UC-a": 5, "UC-b": 5, "UC-c": 5}},
		Config{},
	)

	summary, err := runner.Run(context.Background())

	require.NoError(t, err, "quota exhaustion does not fail the run")
	assert.Equal(t, []string{"kids", "children"}, search.calls, "no searches after the quota signal")
	assert.ElementsMatch(t, []string{"UC-a", "UC-b"}, results.appendedIDs(),
		"partial results from the quota-hit term are kept")
	assert.Equal(t, 2, summary.TotalAnalyzed)
}

func TestRun_ConfigStoreFailureFallsBackToDefaults(t *testing.T) {
	search := &fakeSearch{pages: map[string][]string{}}
	results := &fakeResultsStore{}
	runner := newRunner(
		&fakeConfigStore{err: domain.ErrStoreUnavailable},
		results,
		search,
		&fakeFetcher{},
		&scoreClassifier{},
		Config{},
	)

	_, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"kids", "children", "nursery rhymes"}, search.calls)
}

func TestRun_InactiveTermsSkipped(t *testing.T) {
	search := &fakeSearch{pages: map[string][]string{}}
	runner := newRunner(
		&fakeConfigStore{cfg: &domain.RunConfig{
			SearchTerms: []domain.SearchTerm{
				{Query: "kids", Active: true},
				{Query: "cocomelon", Active: false},
			},
			MaxResultsPerTerm: 10,
			MinKidsScore:      3,
		}},
		&fakeResultsStore{},
		search,
		&fakeFetcher{},
		&scoreClassifier{},
		Config{},
	)

	_, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"kids"}, search.calls)
}

func TestRun_ExistingReadFailureDegradesToEmptySet(t *testing.T) {
	channelIDs := ids("UC", 3)
	scores := map[string]int{channelIDs[0]: 5, channelIDs[1]: 5, channelIDs[2]: 5}

	results := &fakeResultsStore{existingErr: domain.ErrStoreUnavailable}
	runner := newRunner(
		&fakeConfigStore{cfg: &domain.RunConfig{
			SearchTerms:       []domain.SearchTerm{{Query: "kids", Active: true}},
			MaxResultsPerTerm: 10,
			MinKidsScore:      3,
		}},
		results,
		&fakeSearch{pages: map[string][]string{"kids": channelIDs}},
		&fakeFetcher{candidates: candidatesFor(channelIDs...)},
		&scoreClassifier{scores: scores},
		Config{},
	)

	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, summary.NewAdded, "a dedup-read failure behaves like a first run")
}

func TestRun_BatchPartitioning(t *testing.T) {
	channelIDs := ids("UC", 7)
	scores := make(map[string]int)
	for _, id := range channelIDs {
		scores[id] = 5
	}

	results := &fakeResultsStore{}
	runner := newRunner(
		&fakeConfigStore{cfg: &domain.RunConfig{
			SearchTerms:       []domain.SearchTerm{{Query: "kids", Active: true}},
			MaxResultsPerTerm: 10,
			MinKidsScore:      3,
		}},
		results,
		&fakeSearch{pages: map[string][]string{"kids": channelIDs}},
		&fakeFetcher{candidates: candidatesFor(channelIDs...)},
		&scoreClassifier{scores: scores},
		Config{BatchSize: 3},
	)

	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, results.appends, 3)
	assert.Len(t, results.appends[0], 3)
	assert.Len(t, results.appends[1], 3)
	assert.Len(t, results.appends[2], 1)
	assert.Equal(t, 7, summary.NewAdded)
	// One summary write per batch plus the final one.
	assert.Len(t, results.summaries, 4)
}

func TestRun_NotFoundChannelCountsAsAnalyzed(t *testing.T) {
	channelIDs := []string{"UC-ok-1", "UC-gone", "UC-ok-2"}

	results := &fakeResultsStore{}
	runner := newRunner(
		&fakeConfigStore{cfg: &domain.RunConfig{
			SearchTerms:       []domain.SearchTerm{{Query: "kids", Active: true}},
			MaxResultsPerTerm: 10,
			MinKidsScore:      3,
		}},
		results,
		&fakeSearch{pages: map[string][]string{"kids": channelIDs}},
		&fakeFetcher{candidates: candidatesFor("UC-ok-1", "UC-ok-2")},
		&scoreClassifier{scores: map[string]int{"UC-ok-1": 5, "UC-ok-2": 5}},
		Config{},
	)

	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalAnalyzed)
	assert.ElementsMatch(t, []string{"UC-ok-1", "UC-ok-2"}, results.appendedIDs())
}

func TestRun_BelowThresholdNeverPersisted(t *testing.T) {
	channelIDs := ids("UC", 4)
	scores := make(map[string]int)
	for _, id := range channelIDs {
		scores[id] = 2
	}

	results := &fakeResultsStore{}
	runner := newRunner(
		&fakeConfigStore{cfg: &domain.RunConfig{
			SearchTerms:       []domain.SearchTerm{{Query: "kids", Active: true}},
			MaxResultsPerTerm: 10,
			MinKidsScore:      3,
		}},
		results,
		&fakeSearch{pages: map[string][]string{"kids": channelIDs}},
		&fakeFetcher{candidates: candidatesFor(channelIDs...)},
		&scoreClassifier{scores: scores},
		Config{},
	)

	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, results.appends)
	assert.Equal(t, 4, summary.TotalAnalyzed)
	assert.Zero(t, summary.NewAdded)
	assert.Len(t, results.summaries, 2, "per-batch and final summary updates")
}

func TestRun_AppendFailureLoggedNotFatal(t *testing.T) {
	channelIDs := ids("UC", 2)
	results := &fakeResultsStore{appendErr: domain.ErrStoreUnavailable}
	runner := newRunner(
		&fakeConfigStore{cfg: &domain.RunConfig{
			SearchTerms:       []domain.SearchTerm{{Query: "kids", Active: true}},
			MaxResultsPerTerm: 10,
			MinKidsScore:      3,
		}},
		results,
		&fakeSearch{pages: map[string][]string{"kids": channelIDs}},
		&fakeFetcher{candidates: candidatesFor(channelIDs...)},
		&scoreClassifier{scores: map[string]int{channelIDs[0]: 5, channelIDs[1]: 5}},
		Config{},
	)

	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, summary.NewAdded, "failed appends are not counted as added")
	assert.Equal(t, 2, summary.TotalAnalyzed)
}

func TestRun_FinalSummaryFailureSurfaced(t *testing.T) {
	runner := newRunner(
		&fakeConfigStore{cfg: &domain.RunConfig{
			SearchTerms:       []domain.SearchTerm{{Query: "kids", Active: true}},
			MaxResultsPerTerm: 10,
			MinKidsScore:      3,
		}},
		&fakeResultsStore{summaryErr: domain.ErrStoreUnavailable},
		&fakeSearch{pages: map[string][]string{}},
		&fakeFetcher{},
		&scoreClassifier{},
		Config{},
	)

	_, err := runner.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestPartition(t *testing.T) {
	assert.Nil(t, partition(nil, 3))

	batches := partition([]string{"a", "b", "c", "d", "e"}, 2)
	require.Len(t, batches, 3)
	assert.Equal(t, []string{"a", "b"}, batches[0])
	assert.Equal(t, []string{"c", "d"}, batches[1])
	assert.Equal(t, []string{"e"}, batches[2])
}

func TestSubtract(t *testing.T) {
	existing := map[string]struct{}{"b": {}, "d": {}}

	fresh := subtract([]string{"a", "b", "c", "d"}, existing)

	assert.Equal(t, []string{"a", "c"}, fresh)
}
