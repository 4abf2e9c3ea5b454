package db

import "time"

// Database connection constants
const (
	// ConnectionRetrySleep is the sleep duration between connection retries
	ConnectionRetrySleep = 2 * time.Second
	// maxConnectionRetries is the number of retries for initial connection
	maxConnectionRetries = 10
)

// Database pool default constants
const (
	defaultMaxConns          int32         = 25
	defaultMinConns          int32         = 5
	defaultMaxConnIdleTime   time.Duration = 30 * time.Minute
	defaultMaxConnLifetime   time.Duration = time.Hour
	defaultHealthCheckPeriod time.Duration = time.Minute
)

const migrationLockID = 1000

// upsertChunkSize bounds the rows of one multi-row INSERT so the statement
// stays well under the 65535 bind parameter limit.
const upsertChunkSize = 500

// Table names
const (
	tableRawArticles      = "raw_articles"
	tableEnrichedArticles = "enriched_articles"
	tableDailySummary     = "gold_daily_summary"
	tableSourceStats      = "gold_source_stats"
	tableTrendingTopics   = "gold_trending_topics"
	tableTimeline         = "gold_sentiment_timeline"
	tableCategoryMatrix   = "gold_category_matrix"
)
