package classifier

// Keyword category weights and the age-range contribution.
const (
	directKeywordWeight    = 3
	contentKeywordWeight   = 2
	characterKeywordWeight = 2
	ageRangeWeight         = 4
)

// likelyKidsThreshold is the classifier-internal cutoff for tagging text as
// likely kids content. It is intentionally independent of the run's
// configurable persistence threshold.
const likelyKidsThreshold = 3

// maxChildAge is the upper bound for an age-range mention to count as a
// kids-content signal.
const maxChildAge = 12

// taxonomyCategory is one weighted keyword group.
type taxonomyCategory struct {
	name     string
	weight   int
	keywords []string
}

// kidsTaxonomy is the static keyword table used for scoring. Matching is
// plain case-folded substring containment; keywords must be lowercase.
var kidsTaxonomy = []taxonomyCategory{
	{
		name:   "direct",
		weight: directKeywordWeight,
		keywords: []string{
			"kids", "children", "child", "baby", "babies", "toddler", "toddlers",
			"preschool", "kindergarten", "nursery", "playground", "daycare",
		},
	},
	{
		name:   "content",
		weight: contentKeywordWeight,
		keywords: []string{
			"nursery rhymes", "lullaby", "lullabies", "bedtime stories",
			"abc song", "counting song", "finger family", "wheels on the bus",
			"twinkle twinkle", "educational videos", "learning videos",
			"cartoon for kids", "animation for children", "kids songs",
			"children songs", "toy review", "toy unboxing", "play time",
		},
	},
	{
		name:   "characters",
		weight: characterKeywordWeight,
		keywords: []string{
			"peppa pig", "paw patrol", "bluey", "cocomelon", "blippi",
			"ryan", "diana", "vlad", "nastya", "mickey mouse clubhouse",
			"daniel tiger", "sesame street", "thomas the train",
		},
	},
}
