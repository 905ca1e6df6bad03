package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"labor-analytics/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	mu        sync.Mutex
	entries   []domain.TimeEntry
	employees []domain.Employee
	projects  []domain.Project
	err       error
	ranges    [][2]time.Time
}

func (f *fakeSource) EntriesForRange(ctx context.Context, start, end time.Time) ([]domain.TimeEntry, error) {
	f.mu.Lock()
	f.ranges = append(f.ranges, [2]time.Time{start, end})
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.TimeEntry
	for _, e := range f.entries {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeSource) Employees(ctx context.Context) ([]domain.Employee, error) {
	return f.employees, nil
}

func (f *fakeSource) Projects(ctx context.Context) ([]domain.Project, error) {
	return f.projects, nil
}

type fakeUpstream struct {
	entries   []domain.TimeEntry
	employees []domain.Employee
	projects  []domain.Project
	entryErr  error
}

func (f *fakeUpstream) ListTimeEntries(ctx context.Context, from, to time.Time) ([]domain.TimeEntry, error) {
	return f.entries, f.entryErr
}

func (f *fakeUpstream) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return f.employees, nil
}

func (f *fakeUpstream) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return f.projects, nil
}

type fakeSink struct {
	employees []domain.Employee
	projects  []domain.Project
	entries   []domain.TimeEntry
	window    [2]time.Time
	calls     []string
}

func (f *fakeSink) SyncEmployees(ctx context.Context, employees []domain.Employee) error {
	f.calls = append(f.calls, "employees")
	f.employees = employees
	return nil
}

func (f *fakeSink) SyncProjects(ctx context.Context, projects []domain.Project) error {
	f.calls = append(f.calls, "projects")
	f.projects = projects
	return nil
}

func (f *fakeSink) SyncEntries(ctx context.Context, from, to time.Time, entries []domain.TimeEntry) error {
	f.calls = append(f.calls, "entries")
	f.window = [2]time.Time{from, to}
	f.entries = entries
	return nil
}

var monday = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

func workEntry(id, emp, project string, day time.Time, hours float64) domain.TimeEntry {
	return domain.TimeEntry{
		ID:          id,
		EmployeeID:  emp,
		ProjectCode: project,
		Date:        day,
		Hours:       hours,
		Status:      domain.StatusApproved,
	}
}

func crew() []domain.Employee {
	return []domain.Employee{
		{ID: "emp_001", Name: "John Martinez", Number: "CE-101", Role: "Welder"},
		{ID: "emp_002", Name: "Sarah Johnson", Number: "CE-102", Role: "Fabricator"},
	}
}

func jobs() []domain.Project {
	return []domain.Project{
		{Code: "25-2126", Name: "Thacker Pass Ducting", BudgetHours: 100, HourlyRate: 85},
	}
}
