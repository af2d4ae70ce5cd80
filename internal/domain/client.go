package domain

import "time"

// Client is a customer organization that contracts projects.
type Client struct {
	ID             string
	Name           string
	BusinessNumber string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	Notes          string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
