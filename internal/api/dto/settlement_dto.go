package dto

import (
	"time"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// CreateSettlementRequest records revenue for one project period.
type CreateSettlementRequest struct {
	ProjectID string `json:"project_id" validate:"required,uuid"`
	Period    string `json:"period" validate:"required,period"`
	Amount    int64  `json:"amount" validate:"gte=0"`
	Notes     string `json:"notes" validate:"max=1000"`
}

// UpdateSettlementRequest edits a pending settlement.
type UpdateSettlementRequest struct {
	Amount int64  `json:"amount" validate:"gte=0"`
	Notes  string `json:"notes" validate:"max=1000"`
}

// SettlementStatusRequest advances a settlement.
type SettlementStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SettlementResponse is a settlement row.
type SettlementResponse struct {
	ID         string                  `json:"id"`
	ProjectID  string                  `json:"project_id"`
	Period     string                  `json:"period"`
	Amount     int64                   `json:"amount"`
	Status     domain.SettlementStatus `json:"status"`
	InvoicedAt *time.Time              `json:"invoiced_at"`
	PaidAt     *time.Time              `json:"paid_at"`
	Notes      string                  `json:"notes"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// NewSettlementResponse maps a settlement.
func NewSettlementResponse(s *domain.Settlement) SettlementResponse {
	return SettlementResponse{
		ID:         s.ID,
		ProjectID:  s.ProjectID,
		Period:     s.Period,
		Amount:     s.Amount,
		Status:     s.Status,
		InvoicedAt: s.InvoicedAt,
		PaidAt:     s.PaidAt,
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// NewSettlementResponses maps settlements.
func NewSettlementResponses(rows []domain.Settlement) []SettlementResponse {
	out := make([]SettlementResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewSettlementResponse(&rows[i]))
	}
	return out
}
