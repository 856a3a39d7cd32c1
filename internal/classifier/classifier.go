// Package classifier scores channel metadata against the kids-content
// taxonomy. Keyword matching uses an Aho-Corasick automaton for a single
// pass through the text regardless of taxonomy size.
package classifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/jonesrussell/kidscout/internal/domain"
	"github.com/jonesrussell/kidscout/internal/logger"
)

// ageRangePattern matches textual age ranges such as "ages 2-5", "age 3 to 7",
// or a bare "2-5". Digits are boundary-anchored; the ages prefix is optional.
var ageRangePattern = regexp.MustCompile(`\b(?:ages?\s+)?(\d+)\s*(?:-|to)\s*(\d+)\b`)

// KidsClassifier scores free text against the static kids-content taxonomy.
// It is immutable after construction and safe for concurrent use.
type KidsClassifier struct {
	matcher  *ahocorasick.Matcher
	keywords []string // automaton pattern order, which is taxonomy order
	weights  []int    // parallel to keywords
	logger   logger.Logger
}

// New builds the classifier from the static taxonomy.
func New(log logger.Logger) *KidsClassifier {
	var keywords []string
	var weights []int
	for _, cat := range kidsTaxonomy {
		for _, kw := range cat.keywords {
			keywords = append(keywords, kw)
			weights = append(weights, cat.weight)
		}
	}

	c := &KidsClassifier{
		matcher:  ahocorasick.NewStringMatcher(keywords),
		keywords: keywords,
		weights:  weights,
		logger:   log,
	}

	log.Debug("kids taxonomy loaded",
		logger.Int("categories", len(kidsTaxonomy)),
		logger.Int("keywords", len(keywords)),
	)

	return c
}

// Classify scores the given text. Pure function over the input and the
// static taxonomy; empty text scores zero with no matches.
//
// Each distinct taxonomy keyword found as a substring contributes its
// category weight once. Each age-range occurrence with either bound at or
// below the child-age cutoff contributes the age weight, recording a
// synthesized "ages {min}-{max}" label.
func (c *KidsClassifier) Classify(text string) domain.Classification {
	result := domain.Classification{
		MatchedKeywords: []string{},
	}
	if text == "" {
		return result
	}

	lower := strings.ToLower(text)

	hit := make(map[int]bool)
	for _, idx := range c.matcher.Match([]byte(lower)) {
		if idx < 0 || idx >= len(c.keywords) || hit[idx] {
			continue
		}
		hit[idx] = true
		result.Score += c.weights[idx]
	}

	// Report keywords in taxonomy order so persisted rows are deterministic.
	for idx := range c.keywords {
		if hit[idx] {
			result.MatchedKeywords = append(result.MatchedKeywords, c.keywords[idx])
		}
	}

	result.Score += c.scoreAgeRanges(lower, &result.MatchedKeywords)
	result.IsKidsContent = result.Score >= likelyKidsThreshold

	return result
}

// scoreAgeRanges scans for qualifying age-range mentions. The score counts
// every occurrence; the synthesized labels are deduplicated.
func (c *KidsClassifier) scoreAgeRanges(lower string, matched *[]string) int {
	score := 0
	seen := make(map[string]bool)

	for _, m := range ageRangePattern.FindAllStringSubmatch(lower, -1) {
		minAge, errMin := strconv.Atoi(m[1])
		maxAge, errMax := strconv.Atoi(m[2])
		if errMin != nil || errMax != nil {
			continue
		}
		if minAge > maxChildAge && maxAge > maxChildAge {
			continue
		}

		score += ageRangeWeight

		label := fmt.Sprintf("ages %d-%d", minAge, maxAge)
		if !seen[label] {
			seen[label] = true
			*matched = append(*matched, label)
		}
	}

	return score
}
