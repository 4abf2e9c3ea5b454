package db

import (
	"context"
	"fmt"

	apperrors "github.com/lueurxax/news-medallion/internal/core/errors"
)

// WithAdvisoryLock runs fn while holding the session-level advisory lock
// lockID on a connection reserved for the duration of fn. If the unlock call
// fails the connection is closed instead of returned to the pool.
// ErrLockNotAcquired is returned without calling fn when another session
// holds the lock.
func (db *DB) WithAdvisoryLock(ctx context.Context, lockID int64, fn func(ctx context.Context) error) error {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire lock connection: %w", err)
	}
	defer conn.Release()

	var acquired bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired); err != nil {
		return fmt.Errorf("try acquire advisory lock: %w", err)
	}

	if !acquired {
		return apperrors.ErrLockNotAcquired
	}

	defer func() {
		if _, err := conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", lockID); err != nil {
			db.Logger.Warn().Err(err).Int64("lock_id", lockID).Msg("release advisory lock")

			_ = conn.Conn().Close(context.WithoutCancel(ctx))
		}
	}()

	return fn(ctx)
}
