package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	msql "labor-analytics/internal/adapter/mysql"
	rcache "labor-analytics/internal/adapter/redis"
	"labor-analytics/internal/adapter/rippling"
	"labor-analytics/internal/config"
	"labor-analytics/internal/domain"
	"labor-analytics/internal/migrate"
	"labor-analytics/internal/ports"
	"labor-analytics/internal/usecase"
)

// ErrSyncRunning is returned when a sync is requested while another is in flight.
var ErrSyncRunning = errors.New("sync already running")

// App wires adapters and use cases.
type App struct {
	log     *slog.Logger
	loc     *time.Location
	sync    *usecase.SyncUseCase
	report  *usecase.ReportUseCase
	cache   ports.EntryCache // nil when Redis is not configured
	closers []func() error

	syncMu sync.Mutex
}

func New(log *slog.Logger, cfg config.Config) (*App, error) {
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN: %w", domain.ErrNotConfigured)
	}
	loc, err := time.LoadLocation(cfg.Sync.Timezone)
	if err != nil {
		return nil, err
	}

	upstream := rippling.NewClient(cfg.Rippling.BaseURL, cfg.Rippling.APIToken, rippling.Options{
		PageSize:  cfg.Rippling.PageSize,
		RateLimit: cfg.Rippling.RateLimit,
		Burst:     cfg.Rippling.Burst,
	}, log)

	// Run migrations before opening the sink for use
	if err := migrate.Run(context.Background(), cfg.MySQL.DSN, log); err != nil {
		return nil, err
	}
	store, err := msql.NewClient(context.Background(), cfg.MySQL.DSN, log)
	if err != nil {
		return nil, err
	}
	closers := []func() error{store.Close}

	var (
		source ports.Source = store
		cache  ports.EntryCache
	)
	if cfg.Redis.Addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unavailable, entry cache disabled", slog.String("addr", cfg.Redis.Addr), slog.String("error", err.Error()))
			_ = rdb.Close()
		} else {
			cache = rcache.NewCache(rdb, cfg.Redis.TTL)
			source = rcache.NewCachedSource(store, cache, log)
			closers = append(closers, rdb.Close)
			log.Info("entry cache enabled", slog.String("addr", cfg.Redis.Addr), slog.Duration("ttl", cfg.Redis.TTL))
		}
	}

	a := newApp(log, loc, cache,
		&usecase.SyncUseCase{Log: log, Upstream: upstream, Sink: store},
		&usecase.ReportUseCase{
			Log:        log,
			Source:     source,
			Thresholds: cfg.Analytics.Thresholds,
			Rates:      cfg.Analytics.LaborRates,
		},
	)
	a.closers = closers
	return a, nil
}

func newApp(log *slog.Logger, loc *time.Location, cache ports.EntryCache, s *usecase.SyncUseCase, r *usecase.ReportUseCase) *App {
	if loc == nil {
		loc = time.UTC
	}
	return &App{log: log, loc: loc, cache: cache, sync: s, report: r}
}

// RunOnce syncs the inclusive date range [from, to]. Overlapping calls
// fail fast with ErrSyncRunning. Cached entry windows are retired after
// every run, including failed ones that may have written part of the data.
func (a *App) RunOnce(ctx context.Context, from, to time.Time) error {
	if !a.syncMu.TryLock() {
		return ErrSyncRunning
	}
	defer a.syncMu.Unlock()

	err := a.sync.Run(ctx, from, to)
	if a.cache != nil {
		if cerr := a.cache.Invalidate(context.WithoutCancel(ctx)); cerr != nil {
			a.log.Warn("entry cache invalidation failed", slog.String("error", cerr.Error()))
		}
	}
	return err
}

// Report builds the daily report for date.
func (a *App) Report(ctx context.Context, date time.Time) (domain.DailyReport, error) {
	return a.report.DailyReport(ctx, date)
}

// Today returns the current calendar date in the sync timezone.
func (a *App) Today() time.Time {
	y, m, d := time.Now().In(a.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
