package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"labor-analytics/internal/domain"
	"labor-analytics/internal/ports"
)

// SyncUseCase copies directories and time entries from the provider into
// the local mirror.
type SyncUseCase struct {
	Log      *slog.Logger
	Upstream ports.Upstream
	Sink     ports.Sink
}

// Run syncs both directories, then replaces the mirrored entries dated
// within [from, to] with what the provider returns.
func (uc *SyncUseCase) Run(ctx context.Context, from, to time.Time) error {
	if uc.Upstream == nil || uc.Sink == nil {
		return fmt.Errorf("sync usecase: %w", domain.ErrNotConfigured)
	}

	employees, err := uc.Upstream.ListEmployees(ctx)
	if err != nil {
		return fmt.Errorf("%w: list employees: %w", domain.ErrUpstreamUnavailable, err)
	}
	uc.Log.Info("fetched employees", slog.Int("count", len(employees)))
	if err := uc.Sink.SyncEmployees(ctx, employees); err != nil {
		return err
	}

	projects, err := uc.Upstream.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("%w: list projects: %w", domain.ErrUpstreamUnavailable, err)
	}
	uc.Log.Info("fetched projects", slog.Int("count", len(projects)))
	if err := uc.Sink.SyncProjects(ctx, projects); err != nil {
		return err
	}

	uc.Log.Info("fetching time entries", slog.Time("from", from), slog.Time("to", to))
	entries, err := uc.Upstream.ListTimeEntries(ctx, from, to)
	if err != nil {
		return fmt.Errorf("%w: list time entries: %w", domain.ErrUpstreamUnavailable, err)
	}
	uc.Log.Info("fetched time entries", slog.Int("count", len(entries)))

	// An empty result still clears the window.
	if err := uc.Sink.SyncEntries(ctx, from, to, entries); err != nil {
		return err
	}
	uc.Log.Info("sync completed", slog.Int("count", len(entries)))
	return nil
}
