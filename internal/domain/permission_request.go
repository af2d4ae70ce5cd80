package domain

import "time"

// PermissionRequestStatus enumerates review states.
type PermissionRequestStatus string

const (
	PermissionPending  PermissionRequestStatus = "pending"
	PermissionApproved PermissionRequestStatus = "approved"
	PermissionRejected PermissionRequestStatus = "rejected"
)

// PermissionRequest asks for a role upgrade.
type PermissionRequest struct {
	ID            string
	RequesterID   string
	CurrentRole   Role
	RequestedRole Role
	Reason        string
	Status        PermissionRequestStatus
	ReviewerID    *string
	ReviewComment string
	ReviewedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
