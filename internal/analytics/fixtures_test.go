package analytics

import (
	"time"

	"labor-analytics/internal/domain"
)

var monday = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

func testDirectory() *Directory {
	employees := []domain.Employee{
		{ID: "emp_001", Name: "John Martinez", Number: "CE-101", Role: "Welder"},
		{ID: "emp_002", Name: "Sarah Johnson", Number: "CE-102", Role: "Fabricator"},
		{ID: "emp_003", Name: "Mike Thompson", Number: "CE-103", Role: "Fitter"},
		{ID: "emp_009", Name: "Robert Davis", Number: "CE-109", Role: "Foreman"},
	}
	projects := []domain.Project{
		{Code: "25-2126", Name: "Thacker Pass Ducting", Type: "Fabrication", BudgetHours: 100, HourlyRate: 85},
		{Code: "25-2350", Name: "Stack Ducting", Type: "Fabrication", BudgetHours: 40, HourlyRate: 95},
		{Code: "SHOP", Name: "Shop Maintenance", Type: "Internal", BudgetHours: 0, HourlyRate: 0},
	}
	return NewDirectory(employees, projects, DefaultRateCard())
}

func entry(emp, project string, day time.Time, hours float64) domain.TimeEntry {
	start := day.Add(7 * time.Hour)
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	return domain.TimeEntry{
		ID:          emp + "_" + project + "_" + day.Format("20060102"),
		EmployeeID:  emp,
		ProjectCode: project,
		Date:        day,
		Start:       &start,
		End:         &end,
		Hours:       hours,
		Status:      domain.StatusApproved,
	}
}
