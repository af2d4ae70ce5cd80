package domain

import "time"

// EmploymentType distinguishes staff on payroll from contracted freelancers.
type EmploymentType string

const (
	EmploymentInternal   EmploymentType = "internal"
	EmploymentFreelancer EmploymentType = "freelancer"
)

// Employee is a person who can be staffed on projects, act as PM or sales rep.
type Employee struct {
	ID             string
	Name           string
	Email          string
	DepartmentID   *string
	Grade          string
	EmploymentType EmploymentType
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
