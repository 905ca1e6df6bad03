package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"labor-analytics/internal/analytics"
	"labor-analytics/internal/domain"
	"labor-analytics/internal/ports"
)

const trendDays = 7

// ReportUseCase answers dashboard queries from the mirror. Every call takes
// its own snapshot of entries and directories; nothing is shared between
// calls.
type ReportUseCase struct {
	Log        *slog.Logger
	Source     ports.Source
	Thresholds analytics.Thresholds
	Rates      analytics.RateCard
}

type snapshot struct {
	queryID string
	entries []domain.TimeEntry
	skipped int
	dir     *analytics.Directory
}

func (uc *ReportUseCase) thresholds() analytics.Thresholds {
	if uc.Thresholds == (analytics.Thresholds{}) {
		return analytics.DefaultThresholds()
	}
	return uc.Thresholds
}

func (uc *ReportUseCase) rates() analytics.RateCard {
	return analytics.DefaultRateCard().Merge(uc.Rates)
}

// load reads the entry window [start, end] and both directories
// concurrently, then freezes them into one snapshot.
func (uc *ReportUseCase) load(ctx context.Context, start, end time.Time) (snapshot, error) {
	if uc.Source == nil {
		return snapshot{}, fmt.Errorf("report usecase: %w", domain.ErrNotConfigured)
	}
	snap := snapshot{queryID: uuid.New().String()}
	start, end = analytics.Day(start), analytics.Day(end)

	var (
		entries   []domain.TimeEntry
		employees []domain.Employee
		projects  []domain.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if entries, err = uc.Source.EntriesForRange(gctx, start, end); err != nil {
			return fmt.Errorf("%w: entries: %w", domain.ErrUpstreamUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if employees, err = uc.Source.Employees(gctx); err != nil {
			return fmt.Errorf("%w: employees: %w", domain.ErrUpstreamUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if projects, err = uc.Source.Projects(gctx); err != nil {
			return fmt.Errorf("%w: projects: %w", domain.ErrUpstreamUnavailable, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		uc.Log.Error("report snapshot failed", slog.String("query_id", snap.queryID), slog.String("error", err.Error()))
		return snapshot{}, err
	}

	snap.entries, snap.skipped = analytics.Normalize(entries)
	snap.dir = analytics.NewDirectory(employees, projects, uc.rates())
	uc.Log.Debug("report snapshot loaded",
		slog.String("query_id", snap.queryID),
		slog.Time("start", start),
		slog.Time("end", end),
		slog.Int("entries", len(snap.entries)),
		slog.Int("employees", len(employees)),
		slog.Int("projects", len(projects)),
	)
	if snap.skipped > 0 {
		uc.Log.Warn("skipped malformed entries", slog.String("query_id", snap.queryID), slog.Int("count", snap.skipped))
	}
	return snap, nil
}

// ProjectBreakdown returns hours per project for a single day.
func (uc *ReportUseCase) ProjectBreakdown(ctx context.Context, date time.Time) ([]domain.ProjectHours, error) {
	snap, err := uc.load(ctx, date, date)
	if err != nil {
		return nil, err
	}
	return analytics.ProjectBreakdown(snap.entries, snap.dir), nil
}

// DailyDetail returns the per-entry rows for a single day.
func (uc *ReportUseCase) DailyDetail(ctx context.Context, date time.Time) ([]domain.DetailRow, error) {
	snap, err := uc.load(ctx, date, date)
	if err != nil {
		return nil, err
	}
	return analytics.DailyDetail(snap.entries, snap.dir), nil
}

func (uc *ReportUseCase) ProjectCosts(ctx context.Context, date time.Time) ([]domain.ProjectCostRecord, error) {
	snap, err := uc.load(ctx, date, date)
	if err != nil {
		return nil, err
	}
	return analytics.ProjectCosts(snap.entries, snap.dir, uc.thresholds()), nil
}

// OvertimePredictions evaluates the Monday to Friday week containing
// weekStart.
func (uc *ReportUseCase) OvertimePredictions(ctx context.Context, weekStart time.Time) ([]domain.OvertimePrediction, error) {
	mon, fri := analytics.WorkWeek(weekStart)
	snap, err := uc.load(ctx, mon, fri)
	if err != nil {
		return nil, err
	}
	return analytics.PredictOvertime(snap.entries, mon, snap.dir, uc.thresholds()), nil
}

// SmartAlerts combines the day's project costs with the overtime outlook
// for the week containing date.
func (uc *ReportUseCase) SmartAlerts(ctx context.Context, date time.Time) ([]domain.Alert, error) {
	mon, fri := analytics.WorkWeek(date)
	snap, err := uc.load(ctx, earliest(mon, date), latest(fri, date))
	if err != nil {
		return nil, err
	}
	th := uc.thresholds()
	costs := analytics.ProjectCosts(analytics.OnDay(snap.entries, date), snap.dir, th)
	overtime := analytics.PredictOvertime(snap.entries, mon, snap.dir, th)
	return analytics.SmartAlerts(costs, overtime), nil
}

// WeeklyTrends returns daily totals for the seven days ending at date.
func (uc *ReportUseCase) WeeklyTrends(ctx context.Context, date time.Time) ([]domain.DayTrend, error) {
	first := analytics.Day(date).AddDate(0, 0, -(trendDays - 1))
	snap, err := uc.load(ctx, first, date)
	if err != nil {
		return nil, err
	}
	return analytics.DailyTrends(snap.entries, date, trendDays), nil
}

func (uc *ReportUseCase) EmployeeUtilization(ctx context.Context, date time.Time) ([]domain.EmployeeUtilization, error) {
	snap, err := uc.load(ctx, date, date)
	if err != nil {
		return nil, err
	}
	return analytics.Utilization(snap.entries, snap.dir, uc.thresholds()), nil
}

// DailyReport computes every view for date from a single snapshot, so the
// breakdown, costs, overtime and alerts agree with each other.
func (uc *ReportUseCase) DailyReport(ctx context.Context, date time.Time) (domain.DailyReport, error) {
	day := analytics.Day(date)
	mon, fri := analytics.WorkWeek(day)
	trendStart := day.AddDate(0, 0, -(trendDays - 1))

	snap, err := uc.load(ctx, earliest(mon, trendStart), latest(fri, day))
	if err != nil {
		return domain.DailyReport{}, err
	}
	th := uc.thresholds()
	today := analytics.OnDay(snap.entries, day)
	costs := analytics.ProjectCosts(today, snap.dir, th)
	overtime := analytics.PredictOvertime(snap.entries, mon, snap.dir, th)

	report := domain.DailyReport{
		QueryID:     snap.queryID,
		Date:        day,
		Breakdown:   analytics.ProjectBreakdown(today, snap.dir),
		Detail:      analytics.DailyDetail(today, snap.dir),
		Costs:       costs,
		Overtime:    overtime,
		Alerts:      analytics.SmartAlerts(costs, overtime),
		Utilization: analytics.Utilization(today, snap.dir, th),
		Trends:      analytics.DailyTrends(snap.entries, day, trendDays),
		Skipped:     snap.skipped,
	}
	uc.Log.Info("daily report built",
		slog.String("query_id", report.QueryID),
		slog.String("date", day.Format(time.DateOnly)),
		slog.Int("projects", len(report.Costs)),
		slog.Int("overtime", len(report.Overtime)),
		slog.Int("alerts", len(report.Alerts)),
	)
	return report, nil
}

func earliest(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
