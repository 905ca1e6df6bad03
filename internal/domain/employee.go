package domain

// Employee represents a worker in the provider's directory.
type Employee struct {
	ID     string // Provider user ID
	Name   string // Display name
	Number string // Badge number, e.g. CE-101
	Role   string // Trade, used to look up a labor rate
}
