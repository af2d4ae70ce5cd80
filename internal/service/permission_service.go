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

// PermissionService handles role elevation requests.
type PermissionService struct {
	requests   repository.PermissionRequestRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// PermissionDependencies bundles repositories for permission requests.
type PermissionDependencies struct {
	PermissionRequestRepo repository.PermissionRequestRepository
	UserRepo              repository.UserRepository
	Dispatcher            events.Dispatcher
}

// PermissionListFilters describe request listing parameters.
type PermissionListFilters struct {
	Status *domain.PermissionRequestStatus
	Page   Page
}

// NewPermissionService constructs the service.
func NewPermissionService(deps PermissionDependencies) *PermissionService {
	return &PermissionService{
		requests:   deps.PermissionRequestRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Request files an elevation request for the requester's own account.
func (s *PermissionService) Request(ctx context.Context, requester *domain.User, role domain.Role, reason string) (*domain.PermissionRequest, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !role.Valid() {
		return nil, fieldErrors{"requested_role": "unknown role"}.err()
	}
	if role.Rank() <= requester.Role.Rank() {
		return nil, fieldErrors{"requested_role": "requested role must be above the current role"}.err()
	}
	if _, err := s.requests.GetPendingByRequester(ctx, requester.ID); err == nil {
		return nil, apperrors.NewConflict("a pending request already exists", nil)
	} else if !apperrors.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}
	req := &domain.PermissionRequest{
		RequesterID:   requester.ID,
		CurrentRole:   requester.Role,
		RequestedRole: role,
		Reason:        strings.TrimSpace(reason),
		Status:        domain.PermissionPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}
	publish(ctx, s.dispatcher, events.New(events.EventPermissionRequested, "", actorID(requester), events.PermissionRequestedPayload{
		RequestID:     req.ID,
		RequesterID:   req.RequesterID,
		CurrentRole:   req.CurrentRole,
		RequestedRole: req.RequestedRole,
	}))
	return req, nil
}

// List returns requests; reviewers see all, others only their own.
func (s *PermissionService) List(ctx context.Context, actor *domain.User, filters PermissionListFilters) ([]domain.PermissionRequest, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	repoFilter := repository.PermissionRequestFilter{
		Status: filters.Status,
		Limit:  filters.Page.Limit(),
		Offset: filters.Page.Offset(),
	}
	if !actor.Role.AtLeast(domain.RoleAdmin) {
		repoFilter.RequesterID = &actor.ID
	}
	reqs, err := s.requests.List(ctx, repoFilter)
	return reqs, apperrors.MapError(err)
}

// Approve grants the requested role.
func (s *PermissionService) Approve(ctx context.Context, reviewer *domain.User, id, comment string) (*domain.PermissionRequest, error) {
	return s.review(ctx, reviewer, id, domain.PermissionApproved, comment)
}

// Reject declines the request.
func (s *PermissionService) Reject(ctx context.Context, reviewer *domain.User, id, comment string) (*domain.PermissionRequest, error) {
	return s.review(ctx, reviewer, id, domain.PermissionRejected, comment)
}

func (s *PermissionService) review(ctx context.Context, reviewer *domain.User, id string, outcome domain.PermissionRequestStatus, comment string) (*domain.PermissionRequest, error) {
	if reviewer == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "permission request", id)
	}
	if req.Status != domain.PermissionPending {
		return nil, apperrors.NewConflict("request already reviewed", map[string]any{"status": req.Status})
	}
	if req.RequesterID == reviewer.ID {
		return nil, apperrors.NewForbidden("cannot review your own request")
	}
	if !reviewer.Role.CanGrant(req.RequestedRole) {
		return nil, apperrors.NewForbidden("requested role exceeds your grant ceiling")
	}

	if outcome == domain.PermissionApproved {
		requester, err := s.users.GetByID(ctx, req.RequesterID)
		if err != nil {
			return nil, apperrors.MapNotFound(err, "user", req.RequesterID)
		}
		if requester.Role.Rank() < req.RequestedRole.Rank() {
			requester.Role = req.RequestedRole
			if err := s.users.Update(ctx, requester); err != nil {
				return nil, apperrors.MapError(err)
			}
		}
	}

	now := s.now().UTC()
	req.Status = outcome
	req.ReviewerID = actorID(reviewer)
	req.ReviewComment = strings.TrimSpace(comment)
	req.ReviewedAt = &now
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}
	publish(ctx, s.dispatcher, events.New(events.EventPermissionReviewed, "", actorID(reviewer), events.PermissionReviewedPayload{
		RequestID:     req.ID,
		RequesterID:   req.RequesterID,
		RequestedRole: req.RequestedRole,
		Status:        req.Status,
	}))
	return req, nil
}
