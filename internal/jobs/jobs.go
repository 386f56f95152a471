// Package jobs runs the periodic maintenance tasks of the API.
package jobs

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"

	"innosistemas/api/internal/config"
	"innosistemas/api/internal/metrics"
)

type SessionCleaner interface {
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

type FormationCloser interface {
	CloseFormation(ctx context.Context, now time.Time, window time.Duration) (int, error)
}

// CleanupSessions deletes refresh sessions that expired before now.
func CleanupSessions(ctx context.Context, store SessionCleaner, now time.Time) (int64, error) {
	deleted, err := store.DeleteExpiredSessions(ctx, now)
	record("session_cleanup", err)
	return deleted, err
}

// CloseFormation settles teams whose formation window has elapsed.
func CloseFormation(ctx context.Context, closer FormationCloser, now time.Time, window time.Duration) (int, error) {
	closed, err := closer.CloseFormation(ctx, now, window)
	record("formation_deadline", err)
	return closed, err
}

func record(job string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.JobRuns.WithLabelValues(job, result).Inc()
}

func StartSessionCleanupJob(ctx context.Context, cfg config.Config, store SessionCleaner) {
	interval := cfg.SessionCleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}
	start(ctx, "session cleanup", interval, 0, func(tickCtx context.Context, now time.Time) {
		deleted, err := CleanupSessions(tickCtx, store, now)
		if err != nil {
			ctxlog.From(ctx).Error("session cleanup job error", "error", err)
			return
		}
		if deleted > 0 {
			ctxlog.From(ctx).Info("session cleanup job removed sessions", "count", deleted)
		}
	})
}

func StartFormationDeadlineJob(ctx context.Context, cfg config.Config, closer FormationCloser) {
	if !cfg.FormationJobEnabled {
		return
	}
	interval := cfg.FormationJobInterval
	if interval <= 0 {
		interval = time.Minute
	}
	window := cfg.TeamFormationWindow
	start(ctx, "formation deadline", interval, cfg.FormationJobTimeout, func(tickCtx context.Context, now time.Time) {
		closed, err := CloseFormation(tickCtx, closer, now, window)
		if err != nil {
			ctxlog.From(ctx).Error("formation deadline job error", "error", err)
			return
		}
		if closed > 0 {
			ctxlog.From(ctx).Info("formation deadline job settled teams", "count", closed)
		}
	})
}

func start(ctx context.Context, name string, interval, timeout time.Duration, run func(context.Context, time.Time)) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctxlog.From(ctx).Debug("job started", "job", name, "interval", interval)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				run(tickCtx, time.Now().UTC())
				cancel()
			}
		}
	}()
}
