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

// SettlementService manages periodic project settlements.
type SettlementService struct {
	projects    repository.ProjectRepository
	settlements repository.SettlementRepository
	dispatcher  events.Dispatcher
	now         func() time.Time
}

// SettlementDependencies bundles repositories for settlements.
type SettlementDependencies struct {
	ProjectRepo    repository.ProjectRepository
	SettlementRepo repository.SettlementRepository
	Dispatcher     events.Dispatcher
}

// SettlementInput describes a new settlement.
type SettlementInput struct {
	ProjectID string
	Period    string
	Amount    int64
	Notes     string
}

// SettlementListFilters describe settlement listing parameters.
type SettlementListFilters struct {
	ProjectID *string
	Status    *domain.SettlementStatus
	Period    *string
	Year      *int
	Page      Page
}

// NewSettlementService constructs the service.
func NewSettlementService(deps SettlementDependencies) *SettlementService {
	return &SettlementService{
		projects:    deps.ProjectRepo,
		settlements: deps.SettlementRepo,
		dispatcher:  deps.Dispatcher,
		now:         time.Now,
	}
}

// List returns settlements matching filters.
func (s *SettlementService) List(ctx context.Context, filters SettlementListFilters) ([]domain.Settlement, error) {
	if filters.Status != nil && !filters.Status.Valid() {
		return nil, fieldErrors{"status": "unknown settlement status"}.err()
	}
	if filters.Period != nil && !periodPattern.MatchString(*filters.Period) {
		return nil, fieldErrors{"period": "period must be YYYY-MM"}.err()
	}
	rows, err := s.settlements.List(ctx, repository.SettlementFilter{
		ProjectID: filters.ProjectID,
		Status:    filters.Status,
		Period:    filters.Period,
		Year:      filters.Year,
		Limit:     filters.Page.Limit(),
		Offset:    filters.Page.Offset(),
	})
	return rows, apperrors.MapError(err)
}

// Get returns one settlement.
func (s *SettlementService) Get(ctx context.Context, id string) (*domain.Settlement, error) {
	settlement, err := s.settlements.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "settlement", id)
	}
	return settlement, nil
}

// Create opens a pending settlement for a project period.
func (s *SettlementService) Create(ctx context.Context, actor *domain.User, input SettlementInput) (*domain.Settlement, error) {
	fe := fieldErrors{}
	period := strings.TrimSpace(input.Period)
	if !periodPattern.MatchString(period) {
		fe.add("period", "period must be YYYY-MM")
	}
	if input.Amount < 0 {
		fe.add("amount", "amount must not be negative")
	}
	if strings.TrimSpace(input.ProjectID) == "" {
		fe.add("project_id", "project is required")
	}
	if err := fe.err(); err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "project", input.ProjectID)
	}
	if err := requireProjectWritable(project); err != nil {
		return nil, err
	}
	if project.Status == domain.ProjectStatusDraft {
		return nil, apperrors.NewConflict("draft projects cannot be settled", map[string]any{"project_id": project.ID})
	}
	settlement := &domain.Settlement{
		ProjectID: project.ID,
		Period:    period,
		Amount:    input.Amount,
		Status:    domain.SettlementPending,
		Notes:     strings.TrimSpace(input.Notes),
	}
	if err := s.settlements.Create(ctx, settlement); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, settlement, "create")
	return settlement, nil
}

// Update changes the amount and notes of a pending settlement.
func (s *SettlementService) Update(ctx context.Context, actor *domain.User, id string, amount int64, notes string) (*domain.Settlement, error) {
	if amount < 0 {
		return nil, fieldErrors{"amount": "amount must not be negative"}.err()
	}
	settlement, err := s.writable(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement.Status != domain.SettlementPending {
		return nil, apperrors.NewConflict("only pending settlements can be edited", map[string]any{"status": settlement.Status})
	}
	settlement.Amount = amount
	settlement.Notes = strings.TrimSpace(notes)
	if err := s.settlements.Update(ctx, settlement); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, settlement, "update")
	return settlement, nil
}

// ChangeStatus moves a settlement to invoiced or paid.
func (s *SettlementService) ChangeStatus(ctx context.Context, actor *domain.User, id string, next domain.SettlementStatus) (*domain.Settlement, error) {
	if !next.Valid() {
		return nil, fieldErrors{"status": "unknown settlement status"}.err()
	}
	settlement, err := s.writable(ctx, id)
	if err != nil {
		return nil, err
	}
	if !settlement.Status.CanTransition(next) {
		return nil, apperrors.NewConflict("invalid settlement status transition", map[string]any{
			"from": settlement.Status,
			"to":   next,
		})
	}
	now := s.now().UTC()
	switch next {
	case domain.SettlementInvoiced:
		settlement.InvoicedAt = &now
	case domain.SettlementPaid:
		if settlement.InvoicedAt == nil {
			settlement.InvoicedAt = &now
		}
		settlement.PaidAt = &now
	}
	settlement.Status = next
	if err := s.settlements.Update(ctx, settlement); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.changed(ctx, actor, settlement, "status:"+string(next))
	return settlement, nil
}

func (s *SettlementService) writable(ctx context.Context, id string) (*domain.Settlement, error) {
	settlement, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, settlement.ProjectID)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "project", settlement.ProjectID)
	}
	if err := requireProjectWritable(project); err != nil {
		return nil, err
	}
	return settlement, nil
}

func (s *SettlementService) changed(ctx context.Context, actor *domain.User, settlement *domain.Settlement, op string) {
	publish(ctx, s.dispatcher, events.New(events.EventSettlementChanged, settlement.ProjectID, actorID(actor), events.ResourceChangedPayload{
		Resource:   "settlement",
		ResourceID: settlement.ID,
		Operation:  op,
	}))
}
