package service

import (
	"context"
	"strings"

	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/events"
	"github.com/spec-kit/sebit-insight/internal/repository"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

// ExpenseService manages project expenses.
type ExpenseService struct {
	projects   repository.ProjectRepository
	expenses   repository.ExpenseRepository
	dispatcher events.Dispatcher
}

// ExpenseDependencies bundles repositories for expenses.
type ExpenseDependencies struct {
	ProjectRepo repository.ProjectRepository
	ExpenseRepo repository.ExpenseRepository
	Dispatcher  events.Dispatcher
}

// ExpenseInput describes an expense row.
type ExpenseInput struct {
	Category    domain.ExpenseCategory
	Amount      int64
	Description string
	ExpenseDate string
}

// NewExpenseService constructs the service.
func NewExpenseService(deps ExpenseDependencies) *ExpenseService {
	return &ExpenseService{
		projects:   deps.ProjectRepo,
		expenses:   deps.ExpenseRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ListByProject returns expenses of a project.
func (s *ExpenseService) ListByProject(ctx context.Context, projectID string) ([]domain.Expense, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, apperrors.MapNotFound(err, "project", projectID)
	}
	rows, err := s.expenses.ListByProject(ctx, projectID)
	return rows, apperrors.MapError(err)
}

// Create records an expense on a project.
func (s *ExpenseService) Create(ctx context.Context, actor *domain.User, projectID string, input ExpenseInput) (*domain.Expense, error) {
	if err := s.requireWritable(ctx, projectID); err != nil {
		return nil, err
	}
	expense := &domain.Expense{ProjectID: projectID}
	if err := applyExpenseInput(expense, input); err != nil {
		return nil, err
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, expense, "create")
	return expense, nil
}

// Update modifies an expense.
func (s *ExpenseService) Update(ctx context.Context, actor *domain.User, id string, input ExpenseInput) (*domain.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "expense", id)
	}
	if err := s.requireWritable(ctx, expense.ProjectID); err != nil {
		return nil, err
	}
	if err := applyExpenseInput(expense, input); err != nil {
		return nil, err
	}
	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, expense, "update")
	return expense, nil
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, actor *domain.User, id string) error {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapNotFound(err, "expense", id)
	}
	if err := s.requireWritable(ctx, expense.ProjectID); err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, id); err != nil {
		return apperrors.MapNotFound(err, "expense", id)
	}
	s.changed(ctx, actor, expense, "delete")
	return nil
}

func (s *ExpenseService) requireWritable(ctx context.Context, projectID string) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return apperrors.MapNotFound(err, "project", projectID)
	}
	return requireProjectWritable(project)
}

func (s *ExpenseService) changed(ctx context.Context, actor *domain.User, expense *domain.Expense, op string) {
	publish(ctx, s.dispatcher, events.New(events.EventExpenseChanged, expense.ProjectID, actorID(actor), events.ResourceChangedPayload{
		Resource:   "expense",
		ResourceID: expense.ID,
		Operation:  op,
	}))
}

func applyExpenseInput(expense *domain.Expense, input ExpenseInput) error {
	fe := fieldErrors{}
	category := input.Category
	if category == "" {
		category = domain.ExpenseOther
	}
	if !category.Valid() {
		fe.add("category", "unknown expense category")
	}
	if input.Amount < 0 {
		fe.add("amount", "amount must not be negative")
	}
	date, ok := parseDate(input.ExpenseDate)
	if !ok {
		fe.add("expense_date", "expense date must be YYYY-MM-DD")
	}
	if err := fe.err(); err != nil {
		return err
	}
	expense.Category = category
	expense.Amount = input.Amount
	expense.Description = strings.TrimSpace(input.Description)
	expense.ExpenseDate = date
	return nil
}
