package domain

import "time"

// User is an application account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	DepartmentID *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
