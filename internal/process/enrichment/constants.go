package enrichment

const (
	// Texts shorter than these rune counts are not scored.
	minSentimentTextLen = 10
	minLanguageTextLen  = 20

	sentimentThreshold = 0.1
	negationFactor     = -0.5
	negationWindow     = 2
	scorePrecision     = 10000

	maxEntitiesPerType = 10
	minPersonWords     = 2
	maxPersonWords     = 4
	maxOrgWords        = 4

	defaultBatchSize = 100

	// Log field keys
	logKeyArticleID = "article_id"
	logKeySelected  = "selected"
	logKeyEnriched  = "enriched"
	logKeyFailed    = "failed"
)
