package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"labor-analytics/internal/analytics"
)

// StartScheduler runs a sync on the given cron spec, evaluated in the
// app's timezone. Stop the returned cron to end scheduling.
func (a *App) StartScheduler(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(a.loc))
	_, err := c.AddFunc(spec, func() {
		from, to := a.DefaultSyncWindow()
		if err := a.RunOnce(ctx, from, to); err != nil {
			a.log.Error("scheduled sync failed", slog.String("error", err.Error()))
			return
		}
		a.log.Info("scheduled sync completed",
			slog.String("from", from.Format(time.DateOnly)),
			slog.String("to", to.Format(time.DateOnly)),
		)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	a.log.Info("sync scheduler started", slog.String("schedule", spec), slog.String("tz", a.loc.String()))
	return c, nil
}

// DefaultSyncWindow is the window synced when no dates are given, taken
// in the app's timezone.
func (a *App) DefaultSyncWindow() (time.Time, time.Time) {
	return syncWindow(time.Now().In(a.loc))
}

// syncWindow covers the work week of the previous day through today, so
// late edits to earlier days of the week still reach the mirror.
func syncWindow(now time.Time) (time.Time, time.Time) {
	today := analytics.Day(now)
	return analytics.WeekStart(today.AddDate(0, 0, -1)), today
}
