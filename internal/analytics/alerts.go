package analytics

import (
	"fmt"

	"labor-analytics/internal/domain"
)

// SmartAlerts builds the supervisor feed. Feed order is rule order:
// critical budgets, warning budgets, overtime summary, average margin,
// best project.
func SmartAlerts(costs []domain.ProjectCostRecord, overtime []domain.OvertimePrediction) []domain.Alert {
	var alerts []domain.Alert

	for _, c := range costs {
		if c.Status == domain.StatusCritical {
			alerts = append(alerts, domain.Alert{
				Severity: domain.SeverityDanger,
				Icon:     "⚠️",
				Title:    "Budget Alert: " + c.ProjectCode,
				Message:  fmt.Sprintf("%.1f%% of budget used. Action required.", c.BudgetUsed),
				Action:   "Review project scope or request budget increase",
			})
		}
	}
	for _, c := range costs {
		if c.Status == domain.StatusWarning {
			alerts = append(alerts, domain.Alert{
				Severity: domain.SeverityWarning,
				Icon:     "⚡",
				Title:    "Budget Warning: " + c.ProjectCode,
				Message:  fmt.Sprintf("%.1f%% of budget used. Monitor closely.", c.BudgetUsed),
				Action:   "Optimize crew allocation",
			})
		}
	}

	if len(overtime) > 0 {
		top := overtime[0]
		alerts = append(alerts, domain.Alert{
			Severity: domain.SeverityWarning,
			Icon:     "⏰",
			Title:    fmt.Sprintf("Overtime Risk: %d Employees", len(overtime)),
			Message:  fmt.Sprintf("%s at %.1f hrs this week", top.EmployeeName, top.WeeklyHours),
			Action:   "Rebalance workload to prevent OT costs",
		})
	}

	alerts = append(alerts, domain.Alert{
		Severity: domain.SeveritySuccess,
		Icon:     "💡",
		Title:    "Insight: Profitability",
		Message:  fmt.Sprintf("Average profit margin today: %.1f%%", meanMargin(costs)),
		Action:   "Continue current crew allocation",
	})

	if best, ok := bestMargin(costs); ok {
		alerts = append(alerts, domain.Alert{
			Severity: domain.SeverityInfo,
			Icon:     "🎯",
			Title:    "Performance Insight",
			Message:  fmt.Sprintf("%s is most profitable at %.1f%% margin", best.ProjectCode, best.ProfitMargin),
			Action:   "Consider similar project opportunities",
		})
	}
	return alerts
}

func meanMargin(costs []domain.ProjectCostRecord) float64 {
	if len(costs) == 0 {
		return 0
	}
	var sum float64
	for _, c := range costs {
		sum += c.ProfitMargin
	}
	return sum / float64(len(costs))
}

// bestMargin returns the first record with the highest margin.
func bestMargin(costs []domain.ProjectCostRecord) (domain.ProjectCostRecord, bool) {
	if len(costs) == 0 {
		return domain.ProjectCostRecord{}, false
	}
	best := costs[0]
	for _, c := range costs[1:] {
		if c.ProfitMargin > best.ProfitMargin {
			best = c
		}
	}
	return best, true
}
