package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	apperrors "github.com/lueurxax/news-medallion/internal/core/errors"
	"github.com/lueurxax/news-medallion/internal/platform/worker"
)

// RunSchedule runs the pipeline on the configured cron schedule until ctx is
// canceled, serving health and metrics endpoints meanwhile. A tick that fires
// while the previous run is still going is skipped.
func (a *App) RunSchedule(ctx context.Context) error {
	cronLog := cronLogger{logger: a.logger}
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLog)), cron.WithLogger(cronLog))

	if _, err := scheduler.AddFunc(a.cfg.Pipeline.Schedule, func() {
		defer worker.RecoverPanic(a.logger, stagePipeline)

		if err := a.RunPipeline(ctx); err != nil && !isLockHeld(err) && !errors.Is(err, context.Canceled) {
			a.logger.Error().Err(err).Msg("scheduled pipeline run failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule pipeline %q: %w", a.cfg.Pipeline.Schedule, err)
	}

	go func() {
		defer worker.RecoverPanic(a.logger, "health server")

		if err := a.StartHealthServer(ctx); err != nil {
			a.logger.Error().Err(err).Msg("health check server error")
		}
	}()

	scheduler.Start()
	a.logger.Info().Str("schedule", a.cfg.Pipeline.Schedule).Msg("pipeline scheduler started")

	<-ctx.Done()

	<-scheduler.Stop().Done()
	a.logger.Info().Msg("pipeline scheduler stopped")

	return ctx.Err()
}

func isLockHeld(err error) bool {
	return apperrors.Is(err, apperrors.ErrLockNotAcquired)
}

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	logger *zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
