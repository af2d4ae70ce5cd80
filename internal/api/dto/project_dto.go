package dto

import (
	"time"

	"github.com/spec-kit/sebit-insight/internal/costcalc"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// PaymentScheduleRequest is one billing milestone.
type PaymentScheduleRequest struct {
	Label   string `json:"label"`
	DueDate string `json:"due_date" validate:"omitempty,date"`
	Amount  int64  `json:"amount"`
}

// ProjectRequest is the create/update payload from the project wizard.
type ProjectRequest struct {
	Name             string                   `json:"name" validate:"notblank,max=200"`
	Type             string                   `json:"type" validate:"required"`
	Status           string                   `json:"status"`
	ClientID         string                   `json:"client_id" validate:"required,uuid"`
	DepartmentIDs    []string                 `json:"department_ids" validate:"min=1,dive,uuid"`
	SalesRepID       *string                  `json:"sales_rep_id" validate:"omitempty,uuid"`
	PMEmployeeID     *string                  `json:"pm_employee_id" validate:"omitempty,uuid"`
	PMExternalName   *string                  `json:"pm_external_name"`
	ContractAmount   int64                    `json:"contract_amount" validate:"gte=0"`
	StartDate        string                   `json:"start_date" validate:"required,date"`
	EndDate          string                   `json:"end_date" validate:"required,date"`
	Description      string                   `json:"description"`
	PaymentSchedules []PaymentScheduleRequest `json:"payment_schedules" validate:"dive"`
}

// ToInput converts the payload for the service layer.
func (r ProjectRequest) ToInput() service.ProjectInput {
	schedules := make([]domain.PaymentSchedule, 0, len(r.PaymentSchedules))
	for _, ps := range r.PaymentSchedules {
		schedules = append(schedules, domain.PaymentSchedule{Label: ps.Label, DueDate: ps.DueDate, Amount: ps.Amount})
	}
	return service.ProjectInput{
		Name:             r.Name,
		Type:             domain.ProjectType(r.Type),
		Status:           domain.ProjectStatus(r.Status),
		ClientID:         r.ClientID,
		DepartmentIDs:    r.DepartmentIDs,
		SalesRepID:       r.SalesRepID,
		PMEmployeeID:     r.PMEmployeeID,
		PMExternalName:   r.PMExternalName,
		ContractAmount:   r.ContractAmount,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		Description:      r.Description,
		PaymentSchedules: schedules,
	}
}

// ProjectStatusRequest moves a project through its lifecycle.
type ProjectStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment" validate:"max=1000"`
}

// ProjectResponse is the list/summary view of a project.
type ProjectResponse struct {
	ID               string                   `json:"id"`
	Code             string                   `json:"code"`
	Name             string                   `json:"name"`
	Type             domain.ProjectType       `json:"type"`
	Status           domain.ProjectStatus     `json:"status"`
	ClientID         string                   `json:"client_id"`
	DepartmentIDs    []string                 `json:"department_ids"`
	SalesRepID       *string                  `json:"sales_rep_id"`
	PMEmployeeID     *string                  `json:"pm_employee_id"`
	PMExternalName   *string                  `json:"pm_external_name"`
	ContractAmount   int64                    `json:"contract_amount"`
	StartDate        string                   `json:"start_date"`
	EndDate          string                   `json:"end_date"`
	Description      string                   `json:"description"`
	PaymentSchedules []domain.PaymentSchedule `json:"payment_schedules"`
	CreatedBy        *string                  `json:"created_by"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// ProjectDetailResponse adds staffing, expenses and the cost summary.
type ProjectDetailResponse struct {
	ProjectResponse
	Staffing []StaffingResponse `json:"staffing"`
	Expenses []ExpenseResponse  `json:"expenses"`
	Cost     costcalc.Result    `json:"cost"`
}

// ProjectHistoryResponse is one change log entry.
type ProjectHistoryResponse struct {
	ID         string                   `json:"id"`
	ProjectID  string                   `json:"project_id"`
	ChangedBy  *string                  `json:"changed_by"`
	ChangeType domain.ProjectChangeType `json:"change_type"`
	OldValue   map[string]any           `json:"old_value"`
	NewValue   map[string]any           `json:"new_value"`
	CreatedAt  time.Time                `json:"created_at"`
}

// NewProjectResponse maps a domain project.
func NewProjectResponse(p *domain.Project) ProjectResponse {
	departments := p.DepartmentIDs
	if departments == nil {
		departments = []string{}
	}
	schedules := p.PaymentSchedules
	if schedules == nil {
		schedules = []domain.PaymentSchedule{}
	}
	return ProjectResponse{
		ID:               p.ID,
		Code:             p.Code,
		Name:             p.Name,
		Type:             p.Type,
		Status:           p.Status,
		ClientID:         p.ClientID,
		DepartmentIDs:    departments,
		SalesRepID:       p.SalesRepID,
		PMEmployeeID:     p.PMEmployeeID,
		PMExternalName:   p.PMExternalName,
		ContractAmount:   p.ContractAmount,
		StartDate:        formatDate(p.StartDate),
		EndDate:          formatDate(p.EndDate),
		Description:      p.Description,
		PaymentSchedules: schedules,
		CreatedBy:        p.CreatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// NewProjectResponses maps a slice of projects.
func NewProjectResponses(projects []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, NewProjectResponse(&projects[i]))
	}
	return out
}

// NewProjectDetailResponse maps a project with its children.
func NewProjectDetailResponse(d *service.ProjectDetail) ProjectDetailResponse {
	return ProjectDetailResponse{
		ProjectResponse: NewProjectResponse(d.Project),
		Staffing:        NewStaffingResponses(d.Staffing),
		Expenses:        NewExpenseResponses(d.Expenses),
		Cost:            d.Cost,
	}
}

// NewProjectHistoryResponses maps change log entries.
func NewProjectHistoryResponses(entries []domain.ProjectHistory) []ProjectHistoryResponse {
	out := make([]ProjectHistoryResponse, 0, len(entries))
	for _, h := range entries {
		out = append(out, ProjectHistoryResponse{
			ID:         h.ID,
			ProjectID:  h.ProjectID,
			ChangedBy:  h.ChangedBy,
			ChangeType: h.ChangeType,
			OldValue:   h.OldValue,
			NewValue:   h.NewValue,
			CreatedAt:  h.CreatedAt,
		})
	}
	return out
}

// CostCalculateRequest is the wizard's confirmation-step payload.
type CostCalculateRequest struct {
	ContractAmount float64                 `json:"contract_amount" validate:"gte=0"`
	Staffing       []costcalc.StaffingLine `json:"staffing"`
	Expenses       []costcalc.ExpenseLine  `json:"expenses"`
}

// ToInput converts the payload for the calculator.
func (r CostCalculateRequest) ToInput() costcalc.Input {
	return costcalc.Input{ContractAmount: r.ContractAmount, Staffing: r.Staffing, Expenses: r.Expenses}
}
