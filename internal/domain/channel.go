// Package domain defines the core types shared across the kidscout pipeline.
package domain

import (
	"strings"
	"time"
)

// channelURLPrefix is the canonical YouTube channel URL prefix.
const channelURLPrefix = "https://www.youtube.com/channel/"

// ChannelURL returns the canonical URL for a channel identifier.
func ChannelURL(channelID string) string {
	return channelURLPrefix + channelID
}

// SearchTerm is one configured search query.
// Only active terms are used during discovery.
type SearchTerm struct {
	Query       string
	Description string
	Active      bool
}

// ChannelCandidate holds the raw channel metadata fetched for classification.
// It exists only within one batch's processing.
type ChannelCandidate struct {
	ID                  string
	Title               string
	Description         string
	BrandingDescription string
	SubscriberCount     int64
	VideoCount          int64
}

// Text returns the concatenated metadata text used for classification.
// Absent fields contribute nothing.
func (c *ChannelCandidate) Text() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{c.Title, c.Description, c.BrandingDescription} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Classification is the immutable result of scoring a text against the
// kids-content taxonomy.
type Classification struct {
	// Score is the sum of all keyword-category and age-range contributions.
	// Never negative.
	Score int
	// MatchedKeywords is deduplicated and may include synthesized entries
	// such as "ages 2-5" that are not literally in the taxonomy.
	MatchedKeywords []string
	// IsKidsContent reports whether the score reached the classifier's
	// internal likelihood threshold. This is independent of the run's
	// configurable persistence threshold.
	IsKidsContent bool
}

// AnalyzedChannel is the unit persisted to the results store.
type AnalyzedChannel struct {
	ID              string
	Title           string
	URL             string
	SubscriberCount int64
	VideoCount      int64
	Score           int
	MatchedKeywords []string
	IsKidsContent   bool
	AnalyzedAt      time.Time
}

// RunSummary is the per-run record written to the config store's summary
// region. It is overwritten, not appended, on every update.
type RunSummary struct {
	LastRun       time.Time
	TotalAnalyzed int
	NewAdded      int
	SearchTerms   []string
}
