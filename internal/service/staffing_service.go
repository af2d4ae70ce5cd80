package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/events"
	"github.com/spec-kit/sebit-insight/internal/repository"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

// StaffingService manages project staffing rows.
type StaffingService struct {
	projects   repository.ProjectRepository
	staffing   repository.StaffingRepository
	employees  repository.EmployeeRepository
	rateCards  repository.RateCardRepository
	dispatcher events.Dispatcher
}

// StaffingDependencies bundles repositories for staffing.
type StaffingDependencies struct {
	ProjectRepo  repository.ProjectRepository
	StaffingRepo repository.StaffingRepository
	EmployeeRepo repository.EmployeeRepository
	RateCardRepo repository.RateCardRepository
	Dispatcher   events.Dispatcher
}

// StaffingInput describes a staffing row. A nil MonthlyRate falls back to the rate card.
type StaffingInput struct {
	EmployeeID   *string
	ExternalName *string
	Role         string
	Grade        string
	ManMonth     float64
	MonthlyRate  *int64
	StartDate    *string
	EndDate      *string
	Notes        string
}

// NewStaffingService constructs the service.
func NewStaffingService(deps StaffingDependencies) *StaffingService {
	return &StaffingService{
		projects:   deps.ProjectRepo,
		staffing:   deps.StaffingRepo,
		employees:  deps.EmployeeRepo,
		rateCards:  deps.RateCardRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ListByProject returns staffing rows of a project.
func (s *StaffingService) ListByProject(ctx context.Context, projectID string) ([]domain.Staffing, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, apperrors.MapNotFound(err, "project", projectID)
	}
	rows, err := s.staffing.ListByProject(ctx, projectID)
	return rows, apperrors.MapError(err)
}

// Create adds a staffing row to a project.
func (s *StaffingService) Create(ctx context.Context, actor *domain.User, projectID string, input StaffingInput) (*domain.Staffing, error) {
	project, err := s.writableProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	row := &domain.Staffing{ProjectID: project.ID}
	if err := s.apply(ctx, project, row, input); err != nil {
		return nil, err
	}
	if err := s.staffing.Create(ctx, row); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, row, "create")
	return row, nil
}

// Update modifies a staffing row.
func (s *StaffingService) Update(ctx context.Context, actor *domain.User, id string, input StaffingInput) (*domain.Staffing, error) {
	row, err := s.staffing.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "staffing", id)
	}
	project, err := s.writableProject(ctx, row.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, project, row, input); err != nil {
		return nil, err
	}
	if err := s.staffing.Update(ctx, row); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, row, "update")
	return row, nil
}

// Delete removes a staffing row.
func (s *StaffingService) Delete(ctx context.Context, actor *domain.User, id string) error {
	row, err := s.staffing.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapNotFound(err, "staffing", id)
	}
	if _, err := s.writableProject(ctx, row.ProjectID); err != nil {
		return err
	}
	if err := s.staffing.Delete(ctx, id); err != nil {
		return apperrors.MapNotFound(err, "staffing", id)
	}
	s.changed(ctx, actor, row, "delete")
	return nil
}

func (s *StaffingService) writableProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "project", projectID)
	}
	if err := requireProjectWritable(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *StaffingService) apply(ctx context.Context, project *domain.Project, row *domain.Staffing, input StaffingInput) error {
	fe := fieldErrors{}
	employeeID := trimPtr(input.EmployeeID)
	external := trimPtr(input.ExternalName)
	if employeeID == nil && external == nil {
		fe.add("employee_id", "employee or external name is required")
	}
	if input.ManMonth <= 0 {
		fe.add("man_month", "man month must be positive")
	}
	if input.MonthlyRate != nil && *input.MonthlyRate < 0 {
		fe.add("monthly_rate", "monthly rate must not be negative")
	}
	start, ok := optionalDate(input.StartDate)
	if !ok {
		fe.add("start_date", "start date must be YYYY-MM-DD")
	}
	end, ok := optionalDate(input.EndDate)
	if !ok {
		fe.add("end_date", "end date must be YYYY-MM-DD")
	}
	if start != nil && end != nil && end.Before(*start) {
		fe.add("end_date", "end date must not be before start date")
	}
	if err := fe.err(); err != nil {
		return err
	}

	grade := strings.TrimSpace(input.Grade)
	if employeeID != nil {
		emp, err := s.employees.GetByID(ctx, *employeeID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return fieldErrors{"employee_id": "employee does not exist"}.err()
			}
			return apperrors.MapError(err)
		}
		external = nil
		if grade == "" {
			grade = emp.Grade
		}
	}

	var rate int64
	switch {
	case input.MonthlyRate != nil:
		rate = *input.MonthlyRate
	case grade != "":
		card, err := s.rateCards.FindActive(ctx, grade, project.StartDate.Year())
		if err != nil {
			if apperrors.IsNotFound(err) {
				return fieldErrors{"monthly_rate": "no active rate card for grade; monthly rate is required"}.err()
			}
			return apperrors.MapError(err)
		}
		rate = card.MonthlyRate
	default:
		return fieldErrors{"monthly_rate": "monthly rate is required without a grade"}.err()
	}

	row.EmployeeID = employeeID
	row.ExternalName = external
	row.Role = strings.TrimSpace(input.Role)
	row.Grade = grade
	row.ManMonth = input.ManMonth
	row.MonthlyRate = rate
	row.StartDate = start
	row.EndDate = end
	row.Notes = strings.TrimSpace(input.Notes)
	return nil
}

func (s *StaffingService) changed(ctx context.Context, actor *domain.User, row *domain.Staffing, op string) {
	publish(ctx, s.dispatcher, events.New(events.EventStaffingChanged, row.ProjectID, actorID(actor), events.ResourceChangedPayload{
		Resource:   "staffing",
		ResourceID: row.ID,
		Operation:  op,
	}))
}

func optionalDate(raw *string) (*time.Time, bool) {
	trimmed := trimPtr(raw)
	if trimmed == nil {
		return nil, true
	}
	t, ok := parseDate(*trimmed)
	if !ok {
		return nil, false
	}
	return &t, true
}
