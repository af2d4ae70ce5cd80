package dto

import (
	"time"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// PermissionRequestCreate asks for a higher role.
type PermissionRequestCreate struct {
	RequestedRole string `json:"requested_role" validate:"required,role"`
	Reason        string `json:"reason" validate:"max=1000"`
}

// PermissionReviewRequest carries an optional reviewer comment.
type PermissionReviewRequest struct {
	Comment string `json:"comment" validate:"max=1000"`
}

// PermissionRequestResponse is a permission request row.
type PermissionRequestResponse struct {
	ID            string                         `json:"id"`
	RequesterID   string                         `json:"requester_id"`
	CurrentRole   domain.Role                    `json:"current_role"`
	RequestedRole domain.Role                    `json:"requested_role"`
	Reason        string                         `json:"reason"`
	Status        domain.PermissionRequestStatus `json:"status"`
	ReviewerID    *string                        `json:"reviewer_id"`
	ReviewComment string                         `json:"review_comment"`
	ReviewedAt    *time.Time                     `json:"reviewed_at"`
	CreatedAt     time.Time                      `json:"created_at"`
}

// NewPermissionRequestResponse maps a permission request.
func NewPermissionRequestResponse(p *domain.PermissionRequest) PermissionRequestResponse {
	return PermissionRequestResponse{
		ID:            p.ID,
		RequesterID:   p.RequesterID,
		CurrentRole:   p.CurrentRole,
		RequestedRole: p.RequestedRole,
		Reason:        p.Reason,
		Status:        p.Status,
		ReviewerID:    p.ReviewerID,
		ReviewComment: p.ReviewComment,
		ReviewedAt:    p.ReviewedAt,
		CreatedAt:     p.CreatedAt,
	}
}

// NewPermissionRequestResponses maps permission requests.
func NewPermissionRequestResponses(rows []domain.PermissionRequest) []PermissionRequestResponse {
	out := make([]PermissionRequestResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewPermissionRequestResponse(&rows[i]))
	}
	return out
}
