package db

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
)

// upsertSpec describes an idempotent multi-row upsert into a table with a
// natural key. Every non-key column is overwritten on conflict unless
// keepExisting is set, in which case conflicting rows are left untouched.
type upsertSpec[T any] struct {
	table        string
	key          []string
	columns      []string
	keepExisting bool
	values       func(T) []any
}

func (s upsertSpec[T]) build(rows []T) (string, []any, error) {
	insert := psql.Insert(s.table).Columns(s.columns...)
	for _, row := range rows {
		insert = insert.Values(s.values(row)...)
	}

	query, args, err := insert.Suffix(s.conflictClause()).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build %s upsert: %w", s.table, err)
	}

	return query, args, nil
}

func (s upsertSpec[T]) conflictClause() string {
	updates := make([]string, 0, len(s.columns))

	for _, c := range s.columns {
		if slices.Contains(s.key, c) {
			continue
		}

		updates = append(updates, c+" = EXCLUDED."+c)
	}

	if s.keepExisting || len(updates) == 0 {
		return "ON CONFLICT (" + strings.Join(s.key, ", ") + ") DO NOTHING"
	}

	return "ON CONFLICT (" + strings.Join(s.key, ", ") + ") DO UPDATE SET " + strings.Join(updates, ", ")
}

// upsertRows writes rows in chunks inside one transaction and returns the
// number of rows inserted or updated.
func upsertRows[T any](ctx context.Context, db *DB, spec upsertSpec[T], rows []T) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	written := 0

	err := db.inTx(ctx, spec.table, func(tx pgx.Tx) error {
		n, err := upsertChunks(ctx, tx, spec, rows)
		written = n

		return err
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

func upsertChunks[T any](ctx context.Context, tx pgx.Tx, spec upsertSpec[T], rows []T) (int, error) {
	written := 0

	for chunk := range slices.Chunk(rows, upsertChunkSize) {
		query, args, err := spec.build(chunk)
		if err != nil {
			return 0, err
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("upsert %s: %w", spec.table, err)
		}

		written += int(tag.RowsAffected())
	}

	return written, nil
}

// inTx runs fn in a transaction that is committed only when fn succeeds.
func (db *DB) inTx(ctx context.Context, table string, fn func(pgx.Tx) error) error {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin %s write: %w", table, err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s write: %w", table, err)
	}

	return nil
}
