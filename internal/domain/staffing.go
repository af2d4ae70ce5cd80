package domain

import "time"

// Staffing assigns an employee or an external worker to a project.
// MonthlyRate is expressed in units of 10,000 won.
type Staffing struct {
	ID           string
	ProjectID    string
	EmployeeID   *string
	ExternalName *string
	Role         string
	Grade        string
	ManMonth     float64
	MonthlyRate  int64
	StartDate    *time.Time
	EndDate      *time.Time
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
