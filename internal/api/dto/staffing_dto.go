package dto

import (
	"time"

	"github.com/spec-kit/sebit-insight/internal/costcalc"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// StaffingRequest creates or updates a staffing row.
type StaffingRequest struct {
	EmployeeID   *string `json:"employee_id" validate:"omitempty,uuid"`
	ExternalName *string `json:"external_name"`
	Role         string  `json:"role" validate:"max=100"`
	Grade        string  `json:"grade" validate:"max=50"`
	ManMonth     float64 `json:"man_month" validate:"gt=0"`
	MonthlyRate  *int64  `json:"monthly_rate" validate:"omitempty,gte=0"`
	StartDate    *string `json:"start_date" validate:"omitempty,date"`
	EndDate      *string `json:"end_date" validate:"omitempty,date"`
	Notes        string  `json:"notes"`
}

// ToInput converts the payload for the service layer.
func (r StaffingRequest) ToInput() service.StaffingInput {
	return service.StaffingInput{
		EmployeeID:   r.EmployeeID,
		ExternalName: r.ExternalName,
		Role:         r.Role,
		Grade:        r.Grade,
		ManMonth:     r.ManMonth,
		MonthlyRate:  r.MonthlyRate,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Notes:        r.Notes,
	}
}

// StaffingResponse is a staffing row with its labor cost.
type StaffingResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	EmployeeID   *string   `json:"employee_id"`
	ExternalName *string   `json:"external_name"`
	Role         string    `json:"role"`
	Grade        string    `json:"grade"`
	ManMonth     float64   `json:"man_month"`
	MonthlyRate  int64     `json:"monthly_rate"`
	LaborCost    float64   `json:"labor_cost"`
	StartDate    *string   `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewStaffingResponse maps a staffing row.
func NewStaffingResponse(s *domain.Staffing) StaffingResponse {
	return StaffingResponse{
		ID:           s.ID,
		ProjectID:    s.ProjectID,
		EmployeeID:   s.EmployeeID,
		ExternalName: s.ExternalName,
		Role:         s.Role,
		Grade:        s.Grade,
		ManMonth:     s.ManMonth,
		MonthlyRate:  s.MonthlyRate,
		LaborCost:    costcalc.StaffingCost(s.ManMonth, float64(s.MonthlyRate)),
		StartDate:    formatDatePtr(s.StartDate),
		EndDate:      formatDatePtr(s.EndDate),
		Notes:        s.Notes,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// NewStaffingResponses maps staffing rows.
func NewStaffingResponses(rows []domain.Staffing) []StaffingResponse {
	out := make([]StaffingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewStaffingResponse(&rows[i]))
	}
	return out
}

// ExpenseRequest creates or updates an expense.
type ExpenseRequest struct {
	Category    string `json:"category"`
	Amount      int64  `json:"amount" validate:"gte=0"`
	Description string `json:"description" validate:"max=500"`
	ExpenseDate string `json:"expense_date" validate:"required,date"`
}

// ToInput converts the payload for the service layer.
func (r ExpenseRequest) ToInput() service.ExpenseInput {
	return service.ExpenseInput{
		Category:    domain.ExpenseCategory(r.Category),
		Amount:      r.Amount,
		Description: r.Description,
		ExpenseDate: r.ExpenseDate,
	}
}

// ExpenseResponse is an expense row.
type ExpenseResponse struct {
	ID          string                 `json:"id"`
	ProjectID   string                 `json:"project_id"`
	Category    domain.ExpenseCategory `json:"category"`
	Amount      int64                  `json:"amount"`
	Description string                 `json:"description"`
	ExpenseDate string                 `json:"expense_date"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NewExpenseResponse maps an expense.
func NewExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		ExpenseDate: formatDate(e.ExpenseDate),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// NewExpenseResponses maps expenses.
func NewExpenseResponses(rows []domain.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewExpenseResponse(&rows[i]))
	}
	return out
}
