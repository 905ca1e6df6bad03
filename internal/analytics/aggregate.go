package analytics

import (
	"sort"
	"time"

	"labor-analytics/internal/domain"
)

// Aggregate is the hour total for one grouping key.
type Aggregate struct {
	Key       string
	Hours     float64
	Entries   int
	employees map[string]struct{}
}

func (a *Aggregate) add(e domain.TimeEntry) {
	a.Hours += e.Hours
	a.Entries++
	a.employees[e.EmployeeID] = struct{}{}
}

// EmployeeCount is the number of distinct employees behind the aggregate.
func (a *Aggregate) EmployeeCount() int { return len(a.employees) }

// EmployeeIDs returns the distinct contributing employees, sorted.
func (a *Aggregate) EmployeeIDs() []string {
	ids := make([]string, 0, len(a.employees))
	for id := range a.employees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Normalize drops entries that cannot be interpreted and fills in a
// placeholder project code. It returns the usable entries and how many
// were skipped. Callers scope entries to the wanted window beforehand.
func Normalize(entries []domain.TimeEntry) ([]domain.TimeEntry, int) {
	out := make([]domain.TimeEntry, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		if e.EmployeeID == "" || e.Hours < 0 || e.Date.IsZero() {
			skipped++
			continue
		}
		if e.Start != nil && e.End != nil && e.End.Before(*e.Start) {
			skipped++
			continue
		}
		if e.ProjectCode == "" {
			e.ProjectCode = NoProject
		}
		out = append(out, e)
	}
	return out, skipped
}

// ByProject groups normalized entries by project code.
func ByProject(entries []domain.TimeEntry) map[string]*Aggregate {
	return groupBy(entries, func(e domain.TimeEntry) string { return e.ProjectCode })
}

// ByEmployee groups normalized entries by employee across all projects.
func ByEmployee(entries []domain.TimeEntry) map[string]*Aggregate {
	return groupBy(entries, func(e domain.TimeEntry) string { return e.EmployeeID })
}

func groupBy(entries []domain.TimeEntry, key func(domain.TimeEntry) string) map[string]*Aggregate {
	out := make(map[string]*Aggregate)
	for _, e := range entries {
		k := key(e)
		a, ok := out[k]
		if !ok {
			a = &Aggregate{Key: k, employees: make(map[string]struct{})}
			out[k] = a
		}
		a.add(e)
	}
	return out
}

// ProjectBreakdown returns per-project totals, largest first.
func ProjectBreakdown(entries []domain.TimeEntry, dir *Directory) []domain.ProjectHours {
	groups := ByProject(entries)
	out := make([]domain.ProjectHours, 0, len(groups))
	for code, a := range groups {
		out = append(out, domain.ProjectHours{
			ProjectCode:   code,
			ProjectName:   dir.ProjectName(code),
			TotalHours:    a.Hours,
			EmployeeCount: a.EmployeeCount(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalHours != out[j].TotalHours {
			return out[i].TotalHours > out[j].TotalHours
		}
		return out[i].ProjectCode < out[j].ProjectCode
	})
	return out
}

// DailyDetail joins each entry with directory data, ordered by project
// then employee name.
func DailyDetail(entries []domain.TimeEntry, dir *Directory) []domain.DetailRow {
	out := make([]domain.DetailRow, 0, len(entries))
	for _, e := range entries {
		row := domain.DetailRow{
			EmployeeID:   e.EmployeeID,
			EmployeeName: dir.EmployeeName(e.EmployeeID),
			ProjectCode:  e.ProjectCode,
			ProjectName:  dir.ProjectName(e.ProjectCode),
			Hours:        e.Hours,
			ClockIn:      e.Start,
			ClockOut:     e.End,
			Status:       e.Status,
		}
		if emp, ok := dir.Employee(e.EmployeeID); ok {
			row.EmployeeNumber = emp.Number
			row.Role = emp.Role
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ProjectCode != b.ProjectCode {
			return a.ProjectCode < b.ProjectCode
		}
		if a.EmployeeName != b.EmployeeName {
			return a.EmployeeName < b.EmployeeName
		}
		return clockBefore(a.ClockIn, b.ClockIn)
	})
	return out
}

// clockBefore orders missing clock-ins last.
func clockBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

// Day truncates t to its calendar date, expressed at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OnDay keeps the entries dated on day.
func OnDay(entries []domain.TimeEntry, day time.Time) []domain.TimeEntry {
	day = Day(day)
	var out []domain.TimeEntry
	for _, e := range entries {
		if Day(e.Date).Equal(day) {
			out = append(out, e)
		}
	}
	return out
}
