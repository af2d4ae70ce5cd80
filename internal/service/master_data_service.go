package service

import (
	"context"
	"strings"

	"github.com/spec-kit/sebit-insight/internal/bulkimport"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/events"
	"github.com/spec-kit/sebit-insight/internal/repository"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

// MasterDataService manages departments, clients, employees and rate cards.
type MasterDataService struct {
	departments repository.DepartmentRepository
	clients     repository.ClientRepository
	employees   repository.EmployeeRepository
	rateCards   repository.RateCardRepository
	dispatcher  events.Dispatcher
}

// MasterDataDependencies encapsulates repositories required for master data.
type MasterDataDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	ClientRepo     repository.ClientRepository
	EmployeeRepo   repository.EmployeeRepository
	RateCardRepo   repository.RateCardRepository
	Dispatcher     events.Dispatcher
}

// DepartmentInput describes department fields.
type DepartmentInput struct {
	Name        string
	Code        *string
	Description string
}

// ClientInput describes client fields.
type ClientInput struct {
	Name           string
	BusinessNumber string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	Notes          string
}

// EmployeeInput describes employee fields.
type EmployeeInput struct {
	Name           string
	Email          string
	DepartmentID   *string
	Grade          string
	EmploymentType domain.EmploymentType
}

// RateCardInput describes rate card fields.
type RateCardInput struct {
	Grade       string
	Year        int
	MonthlyRate int64
	Description string
}

// EmployeeListFilters define employee listing parameters.
type EmployeeListFilters struct {
	DepartmentID    *string
	EmploymentType  *domain.EmploymentType
	IncludeInactive bool
	SearchTerm      *string
	Page            Page
}

// ClientListFilters define client listing parameters.
type ClientListFilters struct {
	IncludeInactive bool
	SearchTerm      *string
	Page            Page
}

// NewMasterDataService constructs the service.
func NewMasterDataService(deps MasterDataDependencies) *MasterDataService {
	return &MasterDataService{
		departments: deps.DepartmentRepo,
		clients:     deps.ClientRepo,
		employees:   deps.EmployeeRepo,
		rateCards:   deps.RateCardRepo,
		dispatcher:  deps.Dispatcher,
	}
}

func (s *MasterDataService) changed(ctx context.Context, actor *domain.User, resource, id, op string) {
	publish(ctx, s.dispatcher, events.New(events.EventMasterDataChanged, "", actorID(actor), events.ResourceChangedPayload{
		Resource:   resource,
		ResourceID: id,
		Operation:  op,
	}))
}

// ListDepartments returns departments (optionally inactive).
func (s *MasterDataService) ListDepartments(ctx context.Context, includeInactive bool) ([]domain.Department, error) {
	depts, err := s.departments.List(ctx, includeInactive)
	return depts, apperrors.MapError(err)
}

// GetDepartment returns one department.
func (s *MasterDataService) GetDepartment(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "department", id)
	}
	return dept, nil
}

// CreateDepartment creates a new department.
func (s *MasterDataService) CreateDepartment(ctx context.Context, actor *domain.User, input DepartmentInput) (*domain.Department, error) {
	dept := &domain.Department{IsActive: true}
	if err := applyDepartmentInput(dept, input); err != nil {
		return nil, err
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "department", dept.ID, "create")
	return dept, nil
}

// UpdateDepartment modifies a department.
func (s *MasterDataService) UpdateDepartment(ctx context.Context, actor *domain.User, id string, input DepartmentInput) (*domain.Department, error) {
	dept, err := s.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyDepartmentInput(dept, input); err != nil {
		return nil, err
	}
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "department", dept.ID, "update")
	return dept, nil
}

// DeactivateDepartment hides a department from pickers.
func (s *MasterDataService) DeactivateDepartment(ctx context.Context, actor *domain.User, id string) (*domain.Department, error) {
	dept, err := s.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	dept.IsActive = false
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "department", dept.ID, "deactivate")
	return dept, nil
}

func applyDepartmentInput(dept *domain.Department, input DepartmentInput) error {
	fe := fieldErrors{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		fe.add("name", "name is required")
	}
	if err := fe.err(); err != nil {
		return err
	}
	dept.Name = name
	dept.Code = trimPtr(input.Code)
	dept.Description = strings.TrimSpace(input.Description)
	return nil
}

// ListClients returns clients matching filters.
func (s *MasterDataService) ListClients(ctx context.Context, filters ClientListFilters) ([]domain.Client, error) {
	clients, err := s.clients.List(ctx, repository.ClientFilter{
		IncludeInactive: filters.IncludeInactive,
		SearchTerm:      filters.SearchTerm,
		Limit:           filters.Page.Limit(),
		Offset:          filters.Page.Offset(),
	})
	return clients, apperrors.MapError(err)
}

// GetClient returns one client.
func (s *MasterDataService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "client", id)
	}
	return client, nil
}

// CreateClient registers a client.
func (s *MasterDataService) CreateClient(ctx context.Context, actor *domain.User, input ClientInput) (*domain.Client, error) {
	client := &domain.Client{IsActive: true}
	if err := applyClientInput(client, input); err != nil {
		return nil, err
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "client", client.ID, "create")
	return client, nil
}

// UpdateClient modifies a client.
func (s *MasterDataService) UpdateClient(ctx context.Context, actor *domain.User, id string, input ClientInput) (*domain.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyClientInput(client, input); err != nil {
		return nil, err
	}
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "client", client.ID, "update")
	return client, nil
}

// DeactivateClient hides a client from pickers.
func (s *MasterDataService) DeactivateClient(ctx context.Context, actor *domain.User, id string) (*domain.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	client.IsActive = false
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "client", client.ID, "deactivate")
	return client, nil
}

// ReactivateClient makes a deactivated client selectable again.
func (s *MasterDataService) ReactivateClient(ctx context.Context, actor *domain.User, id string) (*domain.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if client.IsActive {
		return client, nil
	}
	client.IsActive = true
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "client", client.ID, "reactivate")
	return client, nil
}

func applyClientInput(client *domain.Client, input ClientInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fieldErrors{"name": "name is required"}.err()
	}
	client.Name = name
	client.BusinessNumber = strings.TrimSpace(input.BusinessNumber)
	client.ContactName = strings.TrimSpace(input.ContactName)
	client.ContactEmail = strings.TrimSpace(input.ContactEmail)
	client.ContactPhone = strings.TrimSpace(input.ContactPhone)
	client.Notes = strings.TrimSpace(input.Notes)
	return nil
}

// ListEmployees returns employees matching filters.
func (s *MasterDataService) ListEmployees(ctx context.Context, filters EmployeeListFilters) ([]domain.Employee, error) {
	emps, err := s.employees.List(ctx, repository.EmployeeFilter{
		DepartmentID:    filters.DepartmentID,
		EmploymentType:  filters.EmploymentType,
		IncludeInactive: filters.IncludeInactive,
		SearchTerm:      filters.SearchTerm,
		Limit:           filters.Page.Limit(),
		Offset:          filters.Page.Offset(),
	})
	return emps, apperrors.MapError(err)
}

// GetEmployee returns one employee.
func (s *MasterDataService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "employee", id)
	}
	return emp, nil
}

// CreateEmployee registers an employee.
func (s *MasterDataService) CreateEmployee(ctx context.Context, actor *domain.User, input EmployeeInput) (*domain.Employee, error) {
	emp := &domain.Employee{IsActive: true}
	if err := s.applyEmployeeInput(ctx, emp, input); err != nil {
		return nil, err
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "employee", emp.ID, "create")
	return emp, nil
}

// UpdateEmployee modifies an employee.
func (s *MasterDataService) UpdateEmployee(ctx context.Context, actor *domain.User, id string, input EmployeeInput) (*domain.Employee, error) {
	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyEmployeeInput(ctx, emp, input); err != nil {
		return nil, err
	}
	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "employee", emp.ID, "update")
	return emp, nil
}

// DeactivateEmployee hides an employee from pickers.
func (s *MasterDataService) DeactivateEmployee(ctx context.Context, actor *domain.User, id string) (*domain.Employee, error) {
	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	emp.IsActive = false
	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "employee", emp.ID, "deactivate")
	return emp, nil
}

func (s *MasterDataService) applyEmployeeInput(ctx context.Context, emp *domain.Employee, input EmployeeInput) error {
	fe := fieldErrors{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		fe.add("name", "name is required")
	}
	grade := strings.TrimSpace(input.Grade)
	if grade == "" {
		fe.add("grade", "grade is required")
	}
	empType := input.EmploymentType
	if empType == "" {
		empType = domain.EmploymentInternal
	}
	if empType != domain.EmploymentInternal && empType != domain.EmploymentFreelancer {
		fe.add("employment_type", "must be internal or freelancer")
	}
	if err := fe.err(); err != nil {
		return err
	}
	deptID := trimPtr(input.DepartmentID)
	if deptID != nil {
		if _, err := s.departments.GetByID(ctx, *deptID); err != nil {
			return apperrors.MapNotFound(err, "department", *deptID)
		}
	}
	emp.Name = name
	emp.Email = strings.TrimSpace(input.Email)
	emp.DepartmentID = deptID
	emp.Grade = grade
	emp.EmploymentType = empType
	return nil
}

// ListRateCards returns rate cards matching filters.
func (s *MasterDataService) ListRateCards(ctx context.Context, year *int, grade *string, includeInactive bool) ([]domain.RateCard, error) {
	cards, err := s.rateCards.List(ctx, repository.RateCardFilter{Year: year, Grade: grade, IncludeInactive: includeInactive})
	return cards, apperrors.MapError(err)
}

// GetRateCard returns one rate card.
func (s *MasterDataService) GetRateCard(ctx context.Context, id string) (*domain.RateCard, error) {
	card, err := s.rateCards.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "rate card", id)
	}
	return card, nil
}

// CreateRateCard registers a grade/year rate.
func (s *MasterDataService) CreateRateCard(ctx context.Context, actor *domain.User, input RateCardInput) (*domain.RateCard, error) {
	card := &domain.RateCard{IsActive: true}
	if err := applyRateCardInput(card, input); err != nil {
		return nil, err
	}
	if err := s.rateCards.Create(ctx, card); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "rate_card", card.ID, "create")
	return card, nil
}

// UpdateRateCard modifies a rate card.
func (s *MasterDataService) UpdateRateCard(ctx context.Context, actor *domain.User, id string, input RateCardInput) (*domain.RateCard, error) {
	card, err := s.GetRateCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyRateCardInput(card, input); err != nil {
		return nil, err
	}
	if err := s.rateCards.Update(ctx, card); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "rate_card", card.ID, "update")
	return card, nil
}

// DeactivateRateCard retires a rate card.
func (s *MasterDataService) DeactivateRateCard(ctx context.Context, actor *domain.User, id string) (*domain.RateCard, error) {
	card, err := s.GetRateCard(ctx, id)
	if err != nil {
		return nil, err
	}
	card.IsActive = false
	if err := s.rateCards.Update(ctx, card); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, "rate_card", card.ID, "deactivate")
	return card, nil
}

func applyRateCardInput(card *domain.RateCard, input RateCardInput) error {
	fe := fieldErrors{}
	grade := strings.TrimSpace(input.Grade)
	if grade == "" {
		fe.add("grade", "grade is required")
	}
	if input.Year < 2000 || input.Year > 2100 {
		fe.add("year", "year must be between 2000 and 2100")
	}
	if input.MonthlyRate < 0 {
		fe.add("monthly_rate", "monthly rate must not be negative")
	}
	if err := fe.err(); err != nil {
		return err
	}
	card.Grade = grade
	card.Year = input.Year
	card.MonthlyRate = input.MonthlyRate
	card.Description = strings.TrimSpace(input.Description)
	return nil
}

// ImportReference loads the active master data bulk rows resolve against.
func (s *MasterDataService) ImportReference(ctx context.Context) (bulkimport.Reference, error) {
	var ref bulkimport.Reference
	depts, err := s.departments.List(ctx, false)
	if err != nil {
		return ref, apperrors.MapError(err)
	}
	emps, err := s.employees.List(ctx, repository.EmployeeFilter{Limit: 10000})
	if err != nil {
		return ref, apperrors.MapError(err)
	}
	clients, err := s.clients.List(ctx, repository.ClientFilter{Limit: 10000})
	if err != nil {
		return ref, apperrors.MapError(err)
	}
	ref.Departments = depts
	ref.Employees = emps
	ref.Clients = clients
	return ref, nil
}
