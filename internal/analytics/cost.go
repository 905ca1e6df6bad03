package analytics

import (
	"sort"

	"labor-analytics/internal/domain"
)

// ProjectCosts evaluates labor cost, billing and budget health for every
// project touched by the entries. Projects without entries are absent.
// Missing directory data is replaced by the package defaults.
func ProjectCosts(entries []domain.TimeEntry, dir *Directory, th Thresholds) []domain.ProjectCostRecord {
	type acc struct {
		hours     float64
		laborCost float64
		employees map[string]struct{}
	}
	byCode := make(map[string]*acc)
	for _, e := range entries {
		a, ok := byCode[e.ProjectCode]
		if !ok {
			a = &acc{employees: make(map[string]struct{})}
			byCode[e.ProjectCode] = a
		}
		a.hours += e.Hours
		a.laborCost += e.Hours * dir.LaborRate(e.EmployeeID)
		a.employees[e.EmployeeID] = struct{}{}
	}

	out := make([]domain.ProjectCostRecord, 0, len(byCode))
	for code, a := range byCode {
		var budget float64
		if p, ok := dir.Project(code); ok {
			budget = p.BudgetHours
		}
		rate := dir.BillingRate(code)
		billed := a.hours * rate
		profit := billed - a.laborCost
		used := round(percent(a.hours, budget), 1)

		ids := make([]string, 0, len(a.employees))
		for id := range a.employees {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		out = append(out, domain.ProjectCostRecord{
			ProjectCode:   code,
			Name:          dir.ProjectName(code),
			ActualHours:   round(a.hours, 2),
			BudgetHours:   budget,
			HourlyRate:    rate,
			LaborCost:     round(a.laborCost, 2),
			BilledAmount:  round(billed, 2),
			Profit:        round(profit, 2),
			ProfitMargin:  round(percent(profit, billed), 1),
			BudgetUsed:    used,
			Status:        BudgetStatus(used, th),
			EmployeeCount: len(ids),
			Employees:     ids,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectCode < out[j].ProjectCode })
	return out
}

// BudgetStatus classifies a budget-used percentage. Both thresholds are
// exclusive: a project exactly at the critical mark is still a warning.
func BudgetStatus(used float64, th Thresholds) string {
	switch {
	case used > th.BudgetCriticalPct:
		return domain.StatusCritical
	case used > th.BudgetWarningPct:
		return domain.StatusWarning
	default:
		return domain.StatusGood
	}
}
