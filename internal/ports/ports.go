package ports

import (
	"context"
	"time"

	"labor-analytics/internal/domain"
)

// Upstream defines methods to fetch data from the time-tracking provider.
type Upstream interface {
	ListTimeEntries(ctx context.Context, from, to time.Time) ([]domain.TimeEntry, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// Sink receives provider data and persists it to the local mirror.
type Sink interface {
	SyncEmployees(ctx context.Context, employees []domain.Employee) error
	SyncProjects(ctx context.Context, projects []domain.Project) error
	// SyncEntries makes the mirror's entries dated within [from, to] match
	// entries exactly, removing rows the provider no longer returns.
	SyncEntries(ctx context.Context, from, to time.Time, entries []domain.TimeEntry) error
}

// Source is the read side used by reports. Date ranges are inclusive
// calendar days.
type Source interface {
	EntriesForRange(ctx context.Context, start, end time.Time) ([]domain.TimeEntry, error)
	Employees(ctx context.Context) ([]domain.Employee, error)
	Projects(ctx context.Context) ([]domain.Project, error)
}

// EntryCache stores entry windows keyed by their date range and the cache
// generation. A miss returns ok=false with a nil error and the generation
// current at read time; SetEntries stores under that generation, so a window
// read before Invalidate is never served after it.
type EntryCache interface {
	GetEntries(ctx context.Context, start, end time.Time) (entries []domain.TimeEntry, gen int64, ok bool, err error)
	SetEntries(ctx context.Context, gen int64, start, end time.Time, entries []domain.TimeEntry) error
	// Invalidate retires every cached window. Call it after the mirror changes.
	Invalidate(ctx context.Context) error
}
