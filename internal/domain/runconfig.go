package domain

// Run configuration bounds. The search API serves at most 50 results per
// page; the ceiling caps a term at ten pages.
const (
	MaxResultsFloor = 1
	MaxResultsCeil  = 500

	defaultMaxResultsPerTerm = 50
	defaultMinKidsScore      = 3

	// FallbackMaxResultsPerTerm is used when the config store is
	// unreachable and the run proceeds on hardcoded defaults.
	FallbackMaxResultsPerTerm = 100
)

// RunConfig is the per-run configuration loaded from the config store.
// It is immutable for the duration of a run.
type RunConfig struct {
	SearchTerms       []SearchTerm
	MaxResultsPerTerm int
	MinKidsScore      int
}

// Normalize clamps out-of-range values to usable defaults.
func (c *RunConfig) Normalize() {
	if c.MaxResultsPerTerm < MaxResultsFloor {
		c.MaxResultsPerTerm = defaultMaxResultsPerTerm
	}
	if c.MaxResultsPerTerm > MaxResultsCeil {
		c.MaxResultsPerTerm = MaxResultsCeil
	}
	if c.MinKidsScore < 0 {
		c.MinKidsScore = defaultMinKidsScore
	}
}

// ActiveTerms returns the configured terms with the active flag set,
// preserving order.
func (c *RunConfig) ActiveTerms() []SearchTerm {
	active := make([]SearchTerm, 0, len(c.SearchTerms))
	for _, t := range c.SearchTerms {
		if t.Active && t.Query != "" {
			active = append(active, t)
		}
	}
	return active
}

// DefaultRunConfig is the hardcoded fallback used when the config store
// cannot be read.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		SearchTerms: []SearchTerm{
			{Query: "kids", Active: true},
			{Query: "children", Active: true},
			{Query: "nursery rhymes", Active: true},
		},
		MaxResultsPerTerm: FallbackMaxResultsPerTerm,
		MinKidsScore:      defaultMinKidsScore,
	}
}
