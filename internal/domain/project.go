package domain

// Project is a billable job as listed in the provider's job directory.
type Project struct {
	Code           string // Job code, unique key (e.g. 25-2126)
	Name           string
	Type           string // Fabrication, Structural, Piping, Internal...
	BudgetHours    float64
	HourlyRate     float64 // Billing rate charged to the customer
	EstimatedTotal float64
}
