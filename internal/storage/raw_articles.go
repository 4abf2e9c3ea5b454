package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lueurxax/news-medallion/internal/core/domain"
)

var rawArticleColumns = []string{
	"article_id", "title", "description", "content", "source_id", "source_name", "source_url",
	"creator", "pub_date", "category", "country", "language", "link", "image_url", "endpoint", "loaded_at",
}

const pendingRawArticlesQuery = `
	SELECT r.article_id, r.title, r.description, r.content, r.source_id, r.source_name, r.source_url,
		r.creator, r.pub_date, r.category, r.country, r.language, r.link, r.image_url, r.endpoint, r.loaded_at
	FROM raw_articles r
	WHERE r.article_id > $1
		AND NOT EXISTS (SELECT 1 FROM enriched_articles e WHERE e.article_id = r.article_id)
	ORDER BY r.article_id
	LIMIT $2`

const countPendingRawArticlesQuery = `
	SELECT count(*)
	FROM raw_articles r
	WHERE NOT EXISTS (SELECT 1 FROM enriched_articles e WHERE e.article_id = r.article_id)`

// ListPendingRawArticles returns up to limit raw articles without a Silver
// record whose id sorts after afterID, ordered by id.
func (db *DB) ListPendingRawArticles(ctx context.Context, afterID string, limit int) ([]domain.RawArticle, error) {
	rows, err := db.Pool.Query(ctx, pendingRawArticlesQuery, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending raw articles: %w", err)
	}

	articles, err := pgx.CollectRows(rows, scanRawArticle)
	if err != nil {
		return nil, fmt.Errorf("scan pending raw articles: %w", err)
	}

	return articles, nil
}

// CountPendingRawArticles returns the number of raw articles without a
// Silver record.
func (db *DB) CountPendingRawArticles(ctx context.Context) (int64, error) {
	var n int64
	if err := db.Pool.QueryRow(ctx, countPendingRawArticlesQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending raw articles: %w", err)
	}

	return n, nil
}

// InsertRawArticles stores raw articles, ignoring ids that already exist, and
// returns the number of new rows.
func (db *DB) InsertRawArticles(ctx context.Context, articles []domain.RawArticle) (int, error) {
	return upsertRows(ctx, db, rawArticleInsert, articles)
}

// Raw rows are immutable once stored.
var rawArticleInsert = upsertSpec[domain.RawArticle]{
	table:        tableRawArticles,
	key:          []string{"article_id"},
	columns:      rawArticleColumns,
	keepExisting: true,
	values: func(a domain.RawArticle) []any {
		loadedAt := a.LoadedAt
		if loadedAt.IsZero() {
			loadedAt = time.Now().UTC()
		}

		return []any{
			a.ArticleID, toText(a.Title), toText(a.Description), toText(a.Content),
			toText(a.SourceID), toText(a.SourceName), toText(a.SourceURL), toText(a.Creator),
			toText(a.PubDate), toText(a.Category), toText(a.Country), toText(a.Language),
			toText(a.Link), toText(a.ImageURL), toText(a.Endpoint), toTimestamptz(loadedAt),
		}
	},
}

func scanRawArticle(row pgx.CollectableRow) (domain.RawArticle, error) {
	var (
		a        domain.RawArticle
		text     [14]pgtype.Text
		loadedAt pgtype.Timestamptz
	)

	err := row.Scan(&a.ArticleID, &text[0], &text[1], &text[2], &text[3], &text[4], &text[5],
		&text[6], &text[7], &text[8], &text[9], &text[10], &text[11], &text[12], &text[13], &loadedAt)
	if err != nil {
		return a, err
	}

	a.Title = fromText(text[0])
	a.Description = fromText(text[1])
	a.Content = fromText(text[2])
	a.SourceID = fromText(text[3])
	a.SourceName = fromText(text[4])
	a.SourceURL = fromText(text[5])
	a.Creator = fromText(text[6])
	a.PubDate = fromText(text[7])
	a.Category = fromText(text[8])
	a.Country = fromText(text[9])
	a.Language = fromText(text[10])
	a.Link = fromText(text[11])
	a.ImageURL = fromText(text[12])
	a.Endpoint = fromText(text[13])
	a.LoadedAt = fromTimestamptz(loadedAt)

	return a, nil
}
