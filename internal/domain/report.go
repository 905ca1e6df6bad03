package domain

import "time"

// Budget status values.
const (
	StatusGood     = "good"
	StatusWarning  = "warning"
	StatusCritical = "critical"
)

// Overtime risk values.
const (
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Alert severities.
const (
	SeverityDanger  = "danger"
	SeverityWarning = "warning"
	SeveritySuccess = "success"
	SeverityInfo    = "info"
)

// ProjectHours is one row of the project breakdown.
type ProjectHours struct {
	ProjectCode   string  `json:"project"`
	ProjectName   string  `json:"project_name"`
	TotalHours    float64 `json:"total_hours"`
	EmployeeCount int     `json:"employee_count"`
}

// DetailRow is one entry of the daily detail, joined with directory data.
type DetailRow struct {
	EmployeeID     string     `json:"employee_id"`
	EmployeeName   string     `json:"employee"`
	EmployeeNumber string     `json:"employee_number"`
	Role           string     `json:"role"`
	ProjectCode    string     `json:"project"`
	ProjectName    string     `json:"project_name"`
	Hours          float64    `json:"hours"`
	ClockIn        *time.Time `json:"clock_in,omitempty"`
	ClockOut       *time.Time `json:"clock_out,omitempty"`
	Status         string     `json:"status"`
}

// ProjectCostRecord is the financial and budget view of a project for a window.
type ProjectCostRecord struct {
	ProjectCode   string   `json:"project"`
	Name          string   `json:"name"`
	ActualHours   float64  `json:"actual_hours"`
	BudgetHours   float64  `json:"budget_hours"`
	HourlyRate    float64  `json:"hourly_rate"`
	LaborCost     float64  `json:"labor_cost"`
	BilledAmount  float64  `json:"billed_amount"`
	Profit        float64  `json:"profit"`
	ProfitMargin  float64  `json:"profit_margin"`
	BudgetUsed    float64  `json:"budget_used"`
	Status        string   `json:"status"`
	EmployeeCount int      `json:"employee_count"`
	Employees     []string `json:"employees"`
}

// OvertimePrediction flags an employee approaching the weekly overtime limit.
// It is a forecast, not a payroll figure.
type OvertimePrediction struct {
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee"`
	EmployeeNumber  string  `json:"employee_number"`
	WeeklyHours     float64 `json:"hours_this_week"`
	HoursToOvertime float64 `json:"hours_to_ot"`
	Risk            string  `json:"risk_level"`
	Recommendation  string  `json:"recommendation"`
}

// Alert is one item of the supervisor feed.
type Alert struct {
	Severity string `json:"type"`
	Icon     string `json:"icon"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

// DayTrend summarizes a single day of a trend window.
type DayTrend struct {
	Date          time.Time `json:"date"`
	TotalHours    float64   `json:"total_hours"`
	EmployeeCount int       `json:"employee_count"`
}

// EmployeeUtilization is an employee's hours for a day against a standard shift.
type EmployeeUtilization struct {
	EmployeeID  string  `json:"employee_id"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Hours       float64 `json:"hours"`
	Utilization float64 `json:"utilization"`
}

// DailyReport bundles every view computed for one date.
type DailyReport struct {
	QueryID     string                `json:"query_id"`
	Date        time.Time             `json:"date"`
	Breakdown   []ProjectHours        `json:"breakdown"`
	Detail      []DetailRow           `json:"detail"`
	Costs       []ProjectCostRecord   `json:"costs"`
	Overtime    []OvertimePrediction  `json:"overtime"`
	Alerts      []Alert               `json:"alerts"`
	Utilization []EmployeeUtilization `json:"utilization"`
	Trends      []DayTrend            `json:"trends"`
	Skipped     int                   `json:"skipped_entries"`
}
