package db

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/lueurxax/news-medallion/internal/core/domain"
)

var dailySummaryUpsert = upsertSpec[domain.DailySummary]{
	table: tableDailySummary,
	key:   []string{"summary_date", "source_id", "category_primary"},
	columns: []string{
		"summary_date", "source_id", "category_primary",
		"article_count", "unique_sources",
		"avg_sentiment_polarity", "avg_sentiment_subjectivity",
		"positive_count", "negative_count", "neutral_count",
		"avg_word_count", "total_word_count", "calculated_at",
	},
	values: func(r domain.DailySummary) []any {
		return []any{
			toDate(r.Date), r.SourceID, r.CategoryPrimary,
			r.ArticleCount, r.UniqueSources,
			r.AvgSentimentPolarity, r.AvgSentimentSubjectivity,
			r.PositiveCount, r.NegativeCount, r.NeutralCount,
			r.AvgWordCount, r.TotalWordCount, toTimestamptz(r.CalculatedAt),
		}
	},
}

var sourceStatsUpsert = upsertSpec[domain.SourceStats]{
	table: tableSourceStats,
	key:   []string{"source_id", "period_start", "period_end"},
	columns: []string{
		"source_id", "period_start", "period_end", "source_name",
		"total_articles", "articles_per_day",
		"categories_covered", "category_count", "primary_category",
		"avg_sentiment_polarity", "sentiment_std_dev",
		"avg_title_length", "avg_content_length", "articles_with_content", "content_ratio",
		"calculated_at",
	},
	values: func(r domain.SourceStats) []any {
		return []any{
			r.SourceID, toDate(r.PeriodStart), toDate(r.PeriodEnd), toText(r.SourceName),
			r.TotalArticles, r.ArticlesPerDay,
			r.CategoriesCovered, r.CategoryCount, r.PrimaryCategory,
			r.AvgSentimentPolarity, r.SentimentStdDev,
			r.AvgTitleLength, r.AvgContentLength, r.ArticlesWithContent, r.ContentRatio,
			toTimestamptz(r.CalculatedAt),
		}
	},
}

var trendingTopicsUpsert = upsertSpec[domain.TrendingTopic]{
	table: tableTrendingTopics,
	key:   []string{"topic_date", "term", "term_type"},
	columns: []string{
		"topic_date", "term", "term_type",
		"frequency", "article_count",
		"sample_titles", "sources", "categories",
		"avg_sentiment", "rank", "calculated_at",
	},
	values: func(r domain.TrendingTopic) []any {
		return []any{
			toDate(r.Date), r.Term, r.TermType,
			r.Frequency, r.ArticleCount,
			textArray(r.SampleTitles), textArray(r.Sources), textArray(r.Categories),
			r.AvgSentiment, r.Rank, toTimestamptz(r.CalculatedAt),
		}
	},
}

var sentimentTimelineUpsert = upsertSpec[domain.SentimentTimelineEntry]{
	table: tableTimeline,
	key:   []string{"timeline_bucket", "granularity", "source_id", "category_primary"},
	columns: []string{
		"timeline_bucket", "granularity", "source_id", "category_primary",
		"avg_polarity", "avg_subjectivity", "min_polarity", "max_polarity", "std_polarity",
		"positive_pct", "negative_pct", "neutral_pct",
		"article_count", "calculated_at",
	},
	values: func(r domain.SentimentTimelineEntry) []any {
		return []any{
			r.Bucket, string(r.Granularity), r.SourceID, r.CategoryPrimary,
			r.AvgPolarity, r.AvgSubjectivity, r.MinPolarity, r.MaxPolarity, r.StdPolarity,
			r.PositivePct, r.NegativePct, r.NeutralPct,
			r.ArticleCount, toTimestamptz(r.CalculatedAt),
		}
	},
}

var categoryMatrixUpsert = upsertSpec[domain.CategoryMatrixEntry]{
	table: tableCategoryMatrix,
	key:   []string{"period_start", "period_end", "source_id", "category_primary"},
	columns: []string{
		"period_start", "period_end", "source_id", "category_primary", "source_name",
		"article_count", "pct_of_source", "pct_of_category", "avg_sentiment",
		"calculated_at",
	},
	values: func(r domain.CategoryMatrixEntry) []any {
		return []any{
			toDate(r.PeriodStart), toDate(r.PeriodEnd), r.SourceID, r.CategoryPrimary, toText(r.SourceName),
			r.ArticleCount, r.PctOfSource, r.PctOfCategory, r.AvgSentiment,
			toTimestamptz(r.CalculatedAt),
		}
	},
}

// UpsertDailySummaries writes daily summary rows by (date, source, category).
func (db *DB) UpsertDailySummaries(ctx context.Context, rows []domain.DailySummary) (int, error) {
	return upsertRows(ctx, db, dailySummaryUpsert, rows)
}

// UpsertSourceStats writes source statistics by (source, period).
func (db *DB) UpsertSourceStats(ctx context.Context, rows []domain.SourceStats) (int, error) {
	return upsertRows(ctx, db, sourceStatsUpsert, rows)
}

// ReplaceTrendingTopics makes rows the ranking of (day, termType). Terms of
// that day and type missing from rows are deleted in the same transaction,
// so a re-ranked day never keeps stale ranks.
func (db *DB) ReplaceTrendingTopics(ctx context.Context, day time.Time, termType string, rows []domain.TrendingTopic) (int, error) {
	query, args, err := staleTrendingDelete(day, termType, rows)
	if err != nil {
		return 0, err
	}

	written := 0

	err = db.inTx(ctx, tableTrendingTopics, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("prune %s: %w", tableTrendingTopics, err)
		}

		n, err := upsertChunks(ctx, tx, trendingTopicsUpsert, rows)
		written = n

		return err
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

func staleTrendingDelete(day time.Time, termType string, rows []domain.TrendingTopic) (string, []any, error) {
	del := psql.Delete(tableTrendingTopics).
		Where(sq.Eq{"topic_date": toDate(day), "term_type": termType})

	if len(rows) > 0 {
		keep := make([]string, 0, len(rows))
		for _, r := range rows {
			keep = append(keep, r.Term)
		}

		del = del.Where(sq.NotEq{"term": keep})
	}

	query, args, err := del.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build %s prune: %w", tableTrendingTopics, err)
	}

	return query, args, nil
}

// UpsertSentimentTimeline writes timeline rows by (bucket, granularity, source filter, category filter).
func (db *DB) UpsertSentimentTimeline(ctx context.Context, rows []domain.SentimentTimelineEntry) (int, error) {
	return upsertRows(ctx, db, sentimentTimelineUpsert, rows)
}

// UpsertCategoryMatrix writes matrix cells by (period, source, category).
func (db *DB) UpsertCategoryMatrix(ctx context.Context, rows []domain.CategoryMatrixEntry) (int, error) {
	return upsertRows(ctx, db, categoryMatrixUpsert, rows)
}
