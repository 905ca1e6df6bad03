package analytics

import (
	"sort"
	"time"

	"labor-analytics/internal/domain"
)

const (
	recommendHigh   = "Reassign to light duties"
	recommendMedium = "Monitor closely"

	workWeekDays = 5
)

// WeekStart returns the Monday of the week containing d.
func WeekStart(d time.Time) time.Time {
	d = Day(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WorkWeek returns the first and last day (Monday, Friday) of the week
// containing d.
func WorkWeek(d time.Time) (time.Time, time.Time) {
	mon := WeekStart(d)
	return mon, mon.AddDate(0, 0, workWeekDays-1)
}

// PredictOvertime sums each employee's Monday–Friday hours for the week
// containing weekStart and lists those at or above the watch threshold,
// highest first. Entries outside the work week are ignored.
func PredictOvertime(entries []domain.TimeEntry, weekStart time.Time, dir *Directory, th Thresholds) []domain.OvertimePrediction {
	mon, fri := WorkWeek(weekStart)

	var week []domain.TimeEntry
	for _, e := range entries {
		d := Day(e.Date)
		if d.Before(mon) || d.After(fri) {
			continue
		}
		week = append(week, e)
	}

	groups := ByEmployee(week)
	out := make([]domain.OvertimePrediction, 0, len(groups))
	for id, a := range groups {
		if a.Hours < th.OvertimeWatchHours {
			continue
		}
		p := domain.OvertimePrediction{
			EmployeeID:      id,
			EmployeeName:    dir.EmployeeName(id),
			WeeklyHours:     round(a.Hours, 1),
			HoursToOvertime: round(th.OvertimeLimitHours-a.Hours, 1),
			Risk:            domain.RiskMedium,
			Recommendation:  recommendMedium,
		}
		if a.Hours >= th.OvertimeHighHours {
			p.Risk = domain.RiskHigh
			p.Recommendation = recommendHigh
		}
		if emp, ok := dir.Employee(id); ok {
			p.EmployeeNumber = emp.Number
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WeeklyHours != out[j].WeeklyHours {
			return out[i].WeeklyHours > out[j].WeeklyHours
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}
