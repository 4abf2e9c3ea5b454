package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lueurxax/news-medallion/internal/core/domain"
)

var enrichedArticleColumns = []string{
	"article_id",
	"title_clean", "description_clean", "content_clean",
	"pub_date", "pub_datetime", "pub_year", "pub_month", "pub_day", "pub_hour",
	"source_id", "source_name",
	"category_primary", "category_list", "category_count",
	"link", "link_valid", "link_domain",
	"language", "language_detected", "language_match",
	"sentiment_polarity", "sentiment_subjectivity", "sentiment_label",
	"entities_persons", "entities_orgs", "entities_locations", "entity_count",
	"title_length", "description_length", "content_length", "word_count",
	"country", "endpoint", "processed_at",
}

var enrichedArticleUpsert = upsertSpec[*domain.EnrichedArticle]{
	table:   tableEnrichedArticles,
	key:     []string{"article_id"},
	columns: enrichedArticleColumns,
	values:  enrichedArticleValues,
}

func enrichedArticleValues(a *domain.EnrichedArticle) []any {
	var (
		pubDate                pgtype.Date
		pubDatetime            pgtype.Timestamptz
		year, month, day, hour pgtype.Int4
	)

	if a.Published.Valid {
		pubDate = toDate(a.Published.Date)
		pubDatetime = toTimestamptz(a.Published.Datetime)
		year = toInt4(a.Published.Year)
		month = toInt4(a.Published.Month)
		day = toInt4(a.Published.Day)
		hour = toInt4(a.Published.Hour)
	}

	return []any{
		a.ArticleID,
		toText(a.TitleClean), toText(a.DescriptionClean), toText(a.ContentClean),
		pubDate, pubDatetime, year, month, day, hour,
		toText(a.SourceID), toText(a.SourceName),
		a.CategoryPrimary, textArray(a.CategoryList), a.CategoryCount,
		toText(a.Link), a.LinkValid, toText(a.LinkDomain),
		toText(a.Language), toText(a.LanguageDetected), a.LanguageMatch,
		a.SentimentPolarity, a.SentimentSubjectivity, a.SentimentLabel,
		textArray(a.EntitiesPersons), textArray(a.EntitiesOrgs), textArray(a.EntitiesLocations), a.EntityCount,
		a.TitleLength, a.DescriptionLength, a.ContentLength, a.WordCount,
		toText(a.Country), toText(a.Endpoint), toTimestamptz(a.ProcessedAt),
	}
}

// UpsertEnrichedArticle writes the Silver record of one article, replacing
// any previous record with the same id.
func (db *DB) UpsertEnrichedArticle(ctx context.Context, article *domain.EnrichedArticle) error {
	query, args, err := enrichedArticleUpsert.build([]*domain.EnrichedArticle{article})
	if err != nil {
		return err
	}

	if _, err := db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert enriched article %s: %w", article.ArticleID, err)
	}

	return nil
}

// ListEnrichedArticles returns every Silver record, ordered by publish date
// with undated records last, then by id.
func (db *DB) ListEnrichedArticles(ctx context.Context) ([]domain.EnrichedArticle, error) {
	query, args, err := psql.Select(enrichedArticleColumns...).
		From(tableEnrichedArticles).
		OrderBy("pub_date NULLS LAST", "article_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build enriched snapshot query: %w", err)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list enriched articles: %w", err)
	}

	articles, err := pgx.CollectRows(rows, scanEnrichedArticle)
	if err != nil {
		return nil, fmt.Errorf("scan enriched articles: %w", err)
	}

	return articles, nil
}

func scanEnrichedArticle(row pgx.CollectableRow) (domain.EnrichedArticle, error) {
	var (
		a                           domain.EnrichedArticle
		title, description, content pgtype.Text
		sourceID, sourceName        pgtype.Text
		link, linkDomain            pgtype.Text
		language, languageDetected  pgtype.Text
		country, endpoint           pgtype.Text
		pubDate                     pgtype.Date
		pubDatetime, processedAt    pgtype.Timestamptz
		year, month, day, hour      pgtype.Int4
	)

	err := row.Scan(
		&a.ArticleID,
		&title, &description, &content,
		&pubDate, &pubDatetime, &year, &month, &day, &hour,
		&sourceID, &sourceName,
		&a.CategoryPrimary, &a.CategoryList, &a.CategoryCount,
		&link, &a.LinkValid, &linkDomain,
		&language, &languageDetected, &a.LanguageMatch,
		&a.SentimentPolarity, &a.SentimentSubjectivity, &a.SentimentLabel,
		&a.EntitiesPersons, &a.EntitiesOrgs, &a.EntitiesLocations, &a.EntityCount,
		&a.TitleLength, &a.DescriptionLength, &a.ContentLength, &a.WordCount,
		&country, &endpoint, &processedAt,
	)
	if err != nil {
		return a, err
	}

	a.TitleClean = fromText(title)
	a.DescriptionClean = fromText(description)
	a.ContentClean = fromText(content)
	a.SourceID = fromText(sourceID)
	a.SourceName = fromText(sourceName)
	a.Link = fromText(link)
	a.LinkDomain = fromText(linkDomain)
	a.Language = fromText(language)
	a.LanguageDetected = fromText(languageDetected)
	a.Country = fromText(country)
	a.Endpoint = fromText(endpoint)
	a.ProcessedAt = fromTimestamptz(processedAt)

	if pubDate.Valid {
		a.Published = domain.PublishDate{
			Valid:    true,
			Date:     fromDate(pubDate),
			Datetime: fromTimestamptz(pubDatetime),
			Year:     fromInt4(year),
			Month:    fromInt4(month),
			Day:      fromInt4(day),
			Hour:     fromInt4(hour),
		}
	}

	return a, nil
}
