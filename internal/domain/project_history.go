package domain

import "time"

// ProjectChangeType captures what changed in a history entry.
type ProjectChangeType string

const (
	ChangeTypeStatus  ProjectChangeType = "STATUS_CHANGE"
	ChangeTypeCreated ProjectChangeType = "CREATED"
	ChangeTypeUpdated ProjectChangeType = "UPDATED"
)

// ProjectHistory is an immutable audit trail entry.
type ProjectHistory struct {
	ID         string
	ProjectID  string
	ChangedBy  *string
	ChangeType ProjectChangeType
	OldValue   map[string]any
	NewValue   map[string]any
	CreatedAt  time.Time
}
