package analytics

import (
	"strings"

	"labor-analytics/internal/domain"
)

// Defaults substituted when an entry references data the directory lacks.
const (
	UnknownName        = "Unknown"
	NoProject          = "No Project"
	DefaultLaborRate   = 30.0
	DefaultBillingRate = 85.0
)

// RateCard maps an employee role to an hourly labor cost.
type RateCard map[string]float64

// DefaultRateCard returns the built-in labor rates per trade.
func DefaultRateCard() RateCard {
	return RateCard{
		"Welder":       32,
		"Fabricator":   30,
		"Fitter":       31,
		"QC Inspector": 35,
		"Foreman":      42,
		"Painter":      26,
		"Detailer":     34,
		"Admin":        24,
	}
}

// Merge returns a new card with overrides applied on top of c.
func (c RateCard) Merge(overrides RateCard) RateCard {
	out := make(RateCard, len(c)+len(overrides))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Directory is a read-only snapshot of employees, projects and rates
// captured for a single query.
type Directory struct {
	employees map[string]domain.Employee
	projects  map[string]domain.Project
	rates     RateCard
}

// NewDirectory copies its inputs so later changes to the slices or the
// rate card do not leak into a running query.
func NewDirectory(employees []domain.Employee, projects []domain.Project, rates RateCard) *Directory {
	d := &Directory{
		employees: make(map[string]domain.Employee, len(employees)),
		projects:  make(map[string]domain.Project, len(projects)),
		rates:     RateCard{}.Merge(rates),
	}
	for _, e := range employees {
		if e.ID == "" {
			continue
		}
		d.employees[e.ID] = e
	}
	for _, p := range projects {
		if p.Code == "" {
			continue
		}
		d.projects[p.Code] = p
	}
	return d
}

func (d *Directory) Employee(id string) (domain.Employee, bool) {
	e, ok := d.employees[id]
	return e, ok
}

func (d *Directory) Project(code string) (domain.Project, bool) {
	p, ok := d.projects[code]
	return p, ok
}

// EmployeeName returns the display name, or UnknownName.
func (d *Directory) EmployeeName(id string) string {
	if e, ok := d.employees[id]; ok && strings.TrimSpace(e.Name) != "" {
		return e.Name
	}
	return UnknownName
}

// ProjectName returns the project's name, or UnknownName.
func (d *Directory) ProjectName(code string) string {
	if p, ok := d.projects[code]; ok && p.Name != "" {
		return p.Name
	}
	return UnknownName
}

// LaborRate resolves the hourly cost of an employee through their role.
// Unknown employees and unrated roles fall back to DefaultLaborRate.
func (d *Directory) LaborRate(employeeID string) float64 {
	e, ok := d.employees[employeeID]
	if !ok {
		return DefaultLaborRate
	}
	if r, ok := d.rates[e.Role]; ok {
		return r
	}
	return DefaultLaborRate
}

// BillingRate is the project's hourly rate, or DefaultBillingRate when the
// project is not in the directory.
func (d *Directory) BillingRate(code string) float64 {
	if p, ok := d.projects[code]; ok {
		return p.HourlyRate
	}
	return DefaultBillingRate
}
