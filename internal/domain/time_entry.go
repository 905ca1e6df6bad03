package domain

import "time"

// Approval states reported by the provider.
const (
	StatusApproved = "Approved"
	StatusPending  = "Pending"
)

// TimeEntry is one continuous work stint by an employee on a project.
type TimeEntry struct {
	ID          string
	EmployeeID  string
	ProjectCode string
	Date        time.Time // Calendar day, midnight UTC
	Start       *time.Time
	End         *time.Time
	Hours       float64
	Status      string
}
