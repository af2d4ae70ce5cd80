package dto

import (
	"time"

	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// DepartmentRequest creates or updates a department.
type DepartmentRequest struct {
	Name        string  `json:"name" validate:"notblank,max=100"`
	Code        *string `json:"code" validate:"omitempty,max=20"`
	Description string  `json:"description" validate:"max=500"`
}

// ToInput converts the payload for the service layer.
func (r DepartmentRequest) ToInput() service.DepartmentInput {
	return service.DepartmentInput{Name: r.Name, Code: r.Code, Description: r.Description}
}

// DepartmentResponse is a department row.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        *string   `json:"code"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDepartmentResponse maps a department.
func NewDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// NewDepartmentResponses maps departments.
func NewDepartmentResponses(rows []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewDepartmentResponse(&rows[i]))
	}
	return out
}

// ClientRequest creates or updates a client.
type ClientRequest struct {
	Name           string `json:"name" validate:"notblank,max=200"`
	BusinessNumber string `json:"business_number" validate:"max=20"`
	ContactName    string `json:"contact_name" validate:"max=100"`
	ContactEmail   string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone   string `json:"contact_phone" validate:"max=30"`
	Notes          string `json:"notes"`
}

// ToInput converts the payload for the service layer.
func (r ClientRequest) ToInput() service.ClientInput {
	return service.ClientInput{
		Name:           r.Name,
		BusinessNumber: r.BusinessNumber,
		ContactName:    r.ContactName,
		ContactEmail:   r.ContactEmail,
		ContactPhone:   r.ContactPhone,
		Notes:          r.Notes,
	}
}

// ClientResponse is a client row.
type ClientResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	BusinessNumber string    `json:"business_number"`
	ContactName    string    `json:"contact_name"`
	ContactEmail   string    `json:"contact_email"`
	ContactPhone   string    `json:"contact_phone"`
	Notes          string    `json:"notes"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewClientResponse maps a client.
func NewClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		Name:           c.Name,
		BusinessNumber: c.BusinessNumber,
		ContactName:    c.ContactName,
		ContactEmail:   c.ContactEmail,
		ContactPhone:   c.ContactPhone,
		Notes:          c.Notes,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// NewClientResponses maps clients.
func NewClientResponses(rows []domain.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewClientResponse(&rows[i]))
	}
	return out
}

// EmployeeRequest creates or updates an employee.
type EmployeeRequest struct {
	Name           string  `json:"name" validate:"notblank,max=100"`
	Email          string  `json:"email" validate:"omitempty,email"`
	DepartmentID   *string `json:"department_id" validate:"omitempty,uuid"`
	Grade          string  `json:"grade" validate:"max=50"`
	EmploymentType string  `json:"employment_type" validate:"omitempty,oneof=internal freelancer"`
}

// ToInput converts the payload for the service layer.
func (r EmployeeRequest) ToInput() service.EmployeeInput {
	return service.EmployeeInput{
		Name:           r.Name,
		Email:          r.Email,
		DepartmentID:   r.DepartmentID,
		Grade:          r.Grade,
		EmploymentType: domain.EmploymentType(r.EmploymentType),
	}
}

// EmployeeResponse is an employee row.
type EmployeeResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	DepartmentID   *string               `json:"department_id"`
	Grade          string                `json:"grade"`
	EmploymentType domain.EmploymentType `json:"employment_type"`
	IsActive       bool                  `json:"is_active"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// NewEmployeeResponse maps an employee.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		Name:           e.Name,
		Email:          e.Email,
		DepartmentID:   e.DepartmentID,
		Grade:          e.Grade,
		EmploymentType: e.EmploymentType,
		IsActive:       e.IsActive,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// NewEmployeeResponses maps employees.
func NewEmployeeResponses(rows []domain.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewEmployeeResponse(&rows[i]))
	}
	return out
}

// RateCardRequest creates or updates a rate card.
type RateCardRequest struct {
	Grade       string `json:"grade" validate:"notblank,max=50"`
	Year        int    `json:"year" validate:"required"`
	MonthlyRate int64  `json:"monthly_rate" validate:"gte=0"`
	Description string `json:"description" validate:"max=500"`
}

// ToInput converts the payload for the service layer.
func (r RateCardRequest) ToInput() service.RateCardInput {
	return service.RateCardInput{Grade: r.Grade, Year: r.Year, MonthlyRate: r.MonthlyRate, Description: r.Description}
}

// RateCardResponse is a rate card row.
type RateCardResponse struct {
	ID          string    `json:"id"`
	Grade       string    `json:"grade"`
	Year        int       `json:"year"`
	MonthlyRate int64     `json:"monthly_rate"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRateCardResponse maps a rate card.
func NewRateCardResponse(r *domain.RateCard) RateCardResponse {
	return RateCardResponse{
		ID:          r.ID,
		Grade:       r.Grade,
		Year:        r.Year,
		MonthlyRate: r.MonthlyRate,
		Description: r.Description,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// NewRateCardResponses maps rate cards.
func NewRateCardResponses(rows []domain.RateCard) []RateCardResponse {
	out := make([]RateCardResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewRateCardResponse(&rows[i]))
	}
	return out
}
