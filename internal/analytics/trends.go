package analytics

import (
	"math"
	"sort"
	"time"

	"labor-analytics/internal/domain"
)

// DailyTrends returns one point per day for the days ending at last
// (inclusive). Days without entries are reported as zero.
func DailyTrends(entries []domain.TimeEntry, last time.Time, days int) []domain.DayTrend {
	if days <= 0 {
		return nil
	}
	first := Day(last).AddDate(0, 0, -(days - 1))
	out := make([]domain.DayTrend, days)
	people := make([]map[string]struct{}, days)
	for i := range out {
		out[i].Date = first.AddDate(0, 0, i)
		people[i] = make(map[string]struct{})
	}
	for _, e := range entries {
		i := int(Day(e.Date).Sub(first) / (24 * time.Hour))
		if i < 0 || i >= days {
			continue
		}
		out[i].TotalHours += e.Hours
		people[i][e.EmployeeID] = struct{}{}
	}
	for i := range out {
		out[i].TotalHours = round(out[i].TotalHours, 2)
		out[i].EmployeeCount = len(people[i])
	}
	return out
}

// Utilization reports each employee's hours against a standard shift,
// capped at 100 percent, busiest first.
func Utilization(entries []domain.TimeEntry, dir *Directory, th Thresholds) []domain.EmployeeUtilization {
	groups := ByEmployee(entries)
	out := make([]domain.EmployeeUtilization, 0, len(groups))
	for id, a := range groups {
		u := domain.EmployeeUtilization{
			EmployeeID:  id,
			Name:        dir.EmployeeName(id),
			Hours:       round(a.Hours, 2),
			Utilization: round(math.Min(100, percent(a.Hours, th.ShiftHours)), 1),
		}
		if emp, ok := dir.Employee(id); ok {
			u.Role = emp.Role
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hours != out[j].Hours {
			return out[i].Hours > out[j].Hours
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}
