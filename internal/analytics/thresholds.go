package analytics

// Thresholds holds the policy numbers used to classify budgets and overtime.
type Thresholds struct {
	OvertimeWatchHours float64 // weekly hours at which an employee is listed
	OvertimeHighHours  float64 // weekly hours at which risk becomes high
	OvertimeLimitHours float64 // weekly overtime threshold
	BudgetWarningPct   float64 // budget used above this is a warning
	BudgetCriticalPct  float64 // budget used above this is critical
	ShiftHours         float64 // standard day used for utilization
}

// DefaultThresholds returns the Monday–Friday, 40-hour policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OvertimeWatchHours: 35,
		OvertimeHighHours:  38,
		OvertimeLimitHours: 40,
		BudgetWarningPct:   75,
		BudgetCriticalPct:  90,
		ShiftHours:         8,
	}
}
