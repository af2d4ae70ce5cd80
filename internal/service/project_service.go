package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sebit-insight/internal/costcalc"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/events"
	"github.com/spec-kit/sebit-insight/internal/repository"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

// Project creation sources recorded on project_created events.
const (
	SourceWizard     = "wizard"
	SourceBulkImport = "bulk_import"
)

// ProjectService coordinates project workflows.
type ProjectService struct {
	projects    repository.ProjectRepository
	history     repository.ProjectHistoryRepository
	staffing    repository.StaffingRepository
	expenses    repository.ExpenseRepository
	clients     repository.ClientRepository
	departments repository.DepartmentRepository
	employees   repository.EmployeeRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// ProjectDependencies bundles repositories for the project service.
type ProjectDependencies struct {
	ProjectRepo    repository.ProjectRepository
	HistoryRepo    repository.ProjectHistoryRepository
	StaffingRepo   repository.StaffingRepository
	ExpenseRepo    repository.ExpenseRepository
	ClientRepo     repository.ClientRepository
	DepartmentRepo repository.DepartmentRepository
	EmployeeRepo   repository.EmployeeRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// ProjectInput describes the editable project fields.
type ProjectInput struct {
	Name             string
	Type             domain.ProjectType
	Status           domain.ProjectStatus
	ClientID         string
	DepartmentIDs    []string
	SalesRepID       *string
	PMEmployeeID     *string
	PMExternalName   *string
	ContractAmount   int64
	StartDate        string
	EndDate          string
	Description      string
	PaymentSchedules []domain.PaymentSchedule
}

// ProjectListFilters describe project listing parameters.
type ProjectListFilters struct {
	Statuses     []domain.ProjectStatus
	Type         *domain.ProjectType
	DepartmentID *string
	ClientID     *string
	SearchTerm   *string
	Year         *int
	Page         Page
}

// ProjectList is one page of projects plus the unpaged total.
type ProjectList struct {
	Projects []domain.Project
	Total    int
}

// ProjectDetail bundles a project with its children and cost summary.
type ProjectDetail struct {
	Project  *domain.Project
	Staffing []domain.Staffing
	Expenses []domain.Expense
	Cost     costcalc.Result
}

// NewProjectService constructs the service.
func NewProjectService(deps ProjectDependencies) *ProjectService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{
		projects:    deps.ProjectRepo,
		history:     deps.HistoryRepo,
		staffing:    deps.StaffingRepo,
		expenses:    deps.ExpenseRepo,
		clients:     deps.ClientRepo,
		departments: deps.DepartmentRepo,
		employees:   deps.EmployeeRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns a page of projects matching filters.
func (s *ProjectService) List(ctx context.Context, filters ProjectListFilters) (*ProjectList, error) {
	for _, status := range filters.Statuses {
		if !status.Valid() {
			return nil, fieldErrors{"status": fmt.Sprintf("unknown status %q", status)}.err()
		}
	}
	if filters.Type != nil && !filters.Type.Valid() {
		return nil, fieldErrors{"type": "type must be SI or SM"}.err()
	}
	repoFilter := repository.ProjectFilter{
		Statuses:     filters.Statuses,
		Type:         filters.Type,
		DepartmentID: filters.DepartmentID,
		ClientID:     filters.ClientID,
		SearchTerm:   filters.SearchTerm,
		Year:         filters.Year,
		Limit:        filters.Page.Limit(),
		Offset:       filters.Page.Offset(),
	}
	projects, err := s.projects.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.projects.Count(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &ProjectList{Projects: projects, Total: total}, nil
}

// Get returns the bare project record.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "project", id)
	}
	return project, nil
}

// Detail returns a project with staffing, expenses and its cost summary.
func (s *ProjectService) Detail(ctx context.Context, id string) (*ProjectDetail, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	staffing, err := s.staffing.ListByProject(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	expenses, err := s.expenses.ListByProject(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &ProjectDetail{
		Project:  project,
		Staffing: staffing,
		Expenses: expenses,
		Cost:     costcalc.Calculate(costcalc.FromProject(project, staffing, expenses)),
	}, nil
}

// Cost returns the cost analysis for a project.
func (s *ProjectService) Cost(ctx context.Context, id string) (costcalc.Result, error) {
	detail, err := s.Detail(ctx, id)
	if err != nil {
		return costcalc.Result{}, err
	}
	return detail.Cost, nil
}

// Create validates and stores a new project.
func (s *ProjectService) Create(ctx context.Context, actor *domain.User, input ProjectInput, source string) (*domain.Project, error) {
	project := &domain.Project{CreatedBy: actorID(actor)}
	if input.Status == "" {
		input.Status = domain.ProjectStatusDraft
	}
	if err := s.apply(ctx, project, input, true); err != nil {
		return nil, err
	}
	project.Code = generateProjectCode(project.StartDate)
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	histErr := s.recordHistory(ctx, actor, project.ID, domain.ChangeTypeCreated, nil, map[string]any{
		"code":   project.Code,
		"status": project.Status,
		"source": source,
	})
	publish(ctx, s.dispatcher, events.New(events.EventProjectCreated, project.ID, actorID(actor), events.ProjectCreatedPayload{
		Code:           project.Code,
		Name:           project.Name,
		Type:           project.Type,
		ClientID:       project.ClientID,
		DepartmentIDs:  project.DepartmentIDs,
		ContractAmount: project.ContractAmount,
		Source:         source,
	}))
	if histErr != nil {
		return nil, histErr
	}
	return project, nil
}

// Update replaces the editable fields of a project. Status is changed through ChangeStatus.
func (s *ProjectService) Update(ctx context.Context, actor *domain.User, id string, input ProjectInput) (*domain.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireProjectWritable(project); err != nil {
		return nil, err
	}
	before := projectSnapshot(project)
	input.Status = project.Status
	if err := s.apply(ctx, project, input, false); err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	histErr := s.recordHistory(ctx, actor, project.ID, domain.ChangeTypeUpdated, before, projectSnapshot(project))
	publish(ctx, s.dispatcher, events.New(events.EventProjectUpdated, project.ID, actorID(actor), events.ResourceChangedPayload{
		Resource:   "project",
		ResourceID: project.ID,
		Operation:  "update",
	}))
	if histErr != nil {
		return nil, histErr
	}
	return project, nil
}

// ChangeStatus moves a project along its lifecycle.
func (s *ProjectService) ChangeStatus(ctx context.Context, actor *domain.User, id string, next domain.ProjectStatus, comment string) (*domain.Project, error) {
	if !next.Valid() {
		return nil, fieldErrors{"status": fmt.Sprintf("unknown status %q", next)}.err()
	}
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.Status.CanTransition(next) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": project.Status,
			"to":   next,
		})
	}
	old := project.Status
	project.Status = next
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	comment = strings.TrimSpace(comment)
	newValue := map[string]any{"status": next}
	if comment != "" {
		newValue["comment"] = comment
	}
	histErr := s.recordHistory(ctx, actor, project.ID, domain.ChangeTypeStatus, map[string]any{"status": old}, newValue)
	publish(ctx, s.dispatcher, events.New(events.EventProjectStatusChanged, project.ID, actorID(actor), events.ProjectStatusChangedPayload{
		OldStatus: old,
		NewStatus: next,
		Comment:   comment,
	}))
	if histErr != nil {
		return nil, histErr
	}
	return project, nil
}

// Delete removes a draft or cancelled project together with its children.
func (s *ProjectService) Delete(ctx context.Context, actor *domain.User, id string) error {
	project, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if project.Status != domain.ProjectStatusDraft && project.Status != domain.ProjectStatusCancelled {
		return apperrors.NewConflict("only draft or cancelled projects can be deleted", map[string]any{
			"status": project.Status,
		})
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return apperrors.MapNotFound(err, "project", id)
	}
	publish(ctx, s.dispatcher, events.New(events.EventProjectDeleted, id, actorID(actor), events.ResourceChangedPayload{
		Resource:   "project",
		ResourceID: id,
		Operation:  "delete",
	}))
	return nil
}

// History lists the change log of a project, newest first.
func (s *ProjectService) History(ctx context.Context, id string, page Page) ([]domain.ProjectHistory, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByProject(ctx, id, page.Limit(), page.Offset())
	return entries, apperrors.MapError(err)
}

func (s *ProjectService) apply(ctx context.Context, project *domain.Project, input ProjectInput, creating bool) error {
	fe := fieldErrors{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		fe.add("name", "name is required")
	}
	if !input.Type.Valid() {
		fe.add("type", "type must be SI or SM")
	}
	if creating && !input.Status.Valid() {
		fe.add("status", fmt.Sprintf("unknown status %q", input.Status))
	}
	clientID := strings.TrimSpace(input.ClientID)
	if clientID == "" {
		fe.add("client_id", "client is required")
	}
	deptIDs := dedupe(input.DepartmentIDs)
	if len(deptIDs) == 0 {
		fe.add("department_ids", "at least one department is required")
	}
	if input.ContractAmount < 0 {
		fe.add("contract_amount", "contract amount must not be negative")
	}
	start, okStart := parseDate(input.StartDate)
	if !okStart {
		fe.add("start_date", "start date must be YYYY-MM-DD")
	}
	end, okEnd := parseDate(input.EndDate)
	if !okEnd {
		fe.add("end_date", "end date must be YYYY-MM-DD")
	}
	if okStart && okEnd && end.Before(start) {
		fe.add("end_date", "end date must not be before start date")
	}
	schedules, scheduleErr := normalizeSchedules(input.PaymentSchedules, input.ContractAmount)
	if scheduleErr != "" {
		fe.add("payment_schedules", scheduleErr)
	}
	pmEmployee := trimPtr(input.PMEmployeeID)
	pmExternal := trimPtr(input.PMExternalName)
	if pmEmployee != nil {
		pmExternal = nil
	}
	if err := fe.err(); err != nil {
		return err
	}

	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		if apperrors.IsNotFound(err) {
			return fieldErrors{"client_id": "client does not exist"}.err()
		}
		return apperrors.MapError(err)
	}
	for _, deptID := range deptIDs {
		if _, err := s.departments.GetByID(ctx, deptID); err != nil {
			if apperrors.IsNotFound(err) {
				return fieldErrors{"department_ids": fmt.Sprintf("department %s does not exist", deptID)}.err()
			}
			return apperrors.MapError(err)
		}
	}
	salesRep := trimPtr(input.SalesRepID)
	if err := s.requireEmployee(ctx, salesRep, "sales_rep_id"); err != nil {
		return err
	}
	if err := s.requireEmployee(ctx, pmEmployee, "pm_employee_id"); err != nil {
		return err
	}

	project.Name = name
	project.Type = input.Type
	project.Status = input.Status
	project.ClientID = clientID
	project.DepartmentIDs = deptIDs
	project.SalesRepID = salesRep
	project.PMEmployeeID = pmEmployee
	project.PMExternalName = pmExternal
	project.ContractAmount = input.ContractAmount
	project.StartDate = start
	project.EndDate = end
	project.Description = strings.TrimSpace(input.Description)
	project.PaymentSchedules = schedules
	return nil
}

func (s *ProjectService) requireEmployee(ctx context.Context, id *string, field string) error {
	if id == nil {
		return nil
	}
	if _, err := s.employees.GetByID(ctx, *id); err != nil {
		if apperrors.IsNotFound(err) {
			return fieldErrors{field: "employee does not exist"}.err()
		}
		return apperrors.MapError(err)
	}
	return nil
}

// recordHistory runs after the project row is written. A failure is logged
// and returned; the change event is still published by the caller.
func (s *ProjectService) recordHistory(ctx context.Context, actor *domain.User, projectID string, change domain.ProjectChangeType, oldValue, newValue map[string]any) error {
	if s.history == nil {
		return nil
	}
	err := s.history.Create(ctx, &domain.ProjectHistory{
		ProjectID:  projectID,
		ChangedBy:  actorID(actor),
		ChangeType: change,
		OldValue:   oldValue,
		NewValue:   newValue,
	})
	if err != nil {
		s.logger.Error("project history write failed",
			zap.String("project_id", projectID),
			zap.String("change_type", string(change)),
			zap.Error(err))
		return apperrors.NewInternalError(fmt.Errorf("record project history: %w", err))
	}
	return nil
}

func normalizeSchedules(schedules []domain.PaymentSchedule, contract int64) ([]domain.PaymentSchedule, string) {
	if len(schedules) == 0 {
		return nil, ""
	}
	out := make([]domain.PaymentSchedule, 0, len(schedules))
	var total int64
	for i, schedule := range schedules {
		if schedule.Amount <= 0 {
			return nil, fmt.Sprintf("schedule %d amount must be positive", i+1)
		}
		if schedule.DueDate != "" {
			if _, ok := parseDate(schedule.DueDate); !ok {
				return nil, fmt.Sprintf("schedule %d due date must be YYYY-MM-DD", i+1)
			}
		}
		schedule.Label = strings.TrimSpace(schedule.Label)
		total += schedule.Amount
		out = append(out, schedule)
	}
	if total != contract {
		return nil, fmt.Sprintf("schedule amounts sum to %d, contract amount is %d", total, contract)
	}
	return out, ""
}

func projectSnapshot(p *domain.Project) map[string]any {
	return map[string]any{
		"name":            p.Name,
		"type":            p.Type,
		"client_id":       p.ClientID,
		"department_ids":  p.DepartmentIDs,
		"contract_amount": p.ContractAmount,
		"start_date":      p.StartDate.Format(dateLayout),
		"end_date":        p.EndDate.Format(dateLayout),
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func generateProjectCode(start time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("PRJ-%04d-%s", start.Year(), suffix)
}

// EstimateCost runs the cost calculator over ad-hoc wizard input.
func EstimateCost(in costcalc.Input) (costcalc.Result, error) {
	fe := fieldErrors{}
	if in.ContractAmount < 0 {
		fe.add("contract_amount", "contract amount must not be negative")
	}
	for i, line := range in.Staffing {
		if line.ManMonth < 0 || line.MonthlyRate < 0 {
			fe.add(fmt.Sprintf("staffing[%d]", i), "man month and monthly rate must not be negative")
		}
	}
	for i, line := range in.Expenses {
		if line.Amount < 0 {
			fe.add(fmt.Sprintf("expenses[%d]", i), "amount must not be negative")
		}
	}
	if err := fe.err(); err != nil {
		return costcalc.Result{}, err
	}
	return costcalc.Calculate(in), nil
}
