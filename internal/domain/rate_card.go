package domain

import "time"

// RateCard is the standard monthly rate for a grade in a given year.
// MonthlyRate is expressed in units of 10,000 won.
type RateCard struct {
	ID          string
	Grade       string
	Year        int
	MonthlyRate int64
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
