package domain

import "time"

// Department represents an organizational unit that owns projects.
type Department struct {
	ID          string
	Name        string
	Code        *string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
