package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProjectCreated       EventType = "project_created"
	EventProjectUpdated       EventType = "project_updated"
	EventProjectStatusChanged EventType = "project_status_changed"
	EventProjectDeleted       EventType = "project_deleted"
	EventStaffingChanged      EventType = "staffing_changed"
	EventExpenseChanged       EventType = "expense_changed"
	EventSettlementChanged    EventType = "settlement_changed"
	EventPermissionRequested  EventType = "permission_requested"
	EventPermissionReviewed   EventType = "permission_reviewed"
	EventBulkImportCompleted  EventType = "bulk_import_completed"
	EventMasterDataChanged    EventType = "master_data_changed"
)

// DataChangeEvents are the events that invalidate cached aggregates.
func DataChangeEvents() []EventType {
	return []EventType{
		EventProjectCreated,
		EventProjectUpdated,
		EventProjectStatusChanged,
		EventProjectDeleted,
		EventStaffingChanged,
		EventExpenseChanged,
		EventSettlementChanged,
		EventBulkImportCompleted,
		EventMasterDataChanged,
	}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ProjectID string      `json:"project_id,omitempty"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, projectID string, actorID *string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ProjectID: projectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ProjectCreatedPayload payload.
type ProjectCreatedPayload struct {
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	Type           domain.ProjectType `json:"type"`
	ClientID       string             `json:"client_id"`
	DepartmentIDs  []string           `json:"department_ids"`
	ContractAmount int64              `json:"contract_amount"`
	Source         string             `json:"source"`
}

// ProjectStatusChangedPayload payload.
type ProjectStatusChangedPayload struct {
	OldStatus domain.ProjectStatus `json:"old_status"`
	NewStatus domain.ProjectStatus `json:"new_status"`
	Comment   string               `json:"comment,omitempty"`
}

// ResourceChangedPayload describes a create/update/delete on a child record.
type ResourceChangedPayload struct {
	Resource   string `json:"resource"`
	ResourceID string `json:"resource_id"`
	Operation  string `json:"operation"`
}

// PermissionRequestedPayload payload.
type PermissionRequestedPayload struct {
	RequestID     string      `json:"request_id"`
	RequesterID   string      `json:"requester_id"`
	CurrentRole   domain.Role `json:"current_role"`
	RequestedRole domain.Role `json:"requested_role"`
}

// PermissionReviewedPayload payload.
type PermissionReviewedPayload struct {
	RequestID     string                         `json:"request_id"`
	RequesterID   string                         `json:"requester_id"`
	RequestedRole domain.Role                    `json:"requested_role"`
	Status        domain.PermissionRequestStatus `json:"status"`
}

// BulkImportCompletedPayload payload.
type BulkImportCompletedPayload struct {
	Submitted      int `json:"submitted"`
	Created        int `json:"created"`
	Failed         int `json:"failed"`
	Skipped        int `json:"skipped"`
	ClientsCreated int `json:"clients_created"`
}
