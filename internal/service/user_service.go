package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/sebit-insight/internal/auth"
	"github.com/spec-kit/sebit-insight/internal/config"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/repository"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

// UserService manages accounts and role assignments.
type UserService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	bcryptCost  int
}

// UserDependencies bundles repositories for user management.
type UserDependencies struct {
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
}

// UserListFilters define listing parameters.
type UserListFilters struct {
	Role       *domain.Role
	Active     *bool
	SearchTerm *string
	Page       Page
}

// CreateUserInput describes an administratively created account.
type CreateUserInput struct {
	Email        string
	Name         string
	Password     string
	Role         domain.Role
	DepartmentID *string
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	return &UserService{
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "user", id)
	}
	return user, nil
}

// List returns users matching filters.
func (s *UserService) List(ctx context.Context, filters UserListFilters) ([]domain.User, error) {
	users, err := s.users.List(ctx, repository.UserFilter{
		Role:       filters.Role,
		Active:     filters.Active,
		SearchTerm: filters.SearchTerm,
		Limit:      filters.Page.Limit(),
		Offset:     filters.Page.Offset(),
	})
	return users, apperrors.MapError(err)
}

// Create provisions an account with an explicit role. Used by the admin CLI
// where no actor exists, so no ceiling applies.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	fe := fieldErrors{}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		fe.add("email", "valid email is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		fe.add("name", "name is required")
	}
	if !input.Role.Valid() {
		fe.add("role", "unknown role")
	}
	if err := auth.CheckPasswordStrength(input.Password); err != nil {
		fe.add("password", err.Error())
	}
	if err := fe.err(); err != nil {
		return nil, err
	}
	if input.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
			return nil, apperrors.MapNotFound(err, "department", *input.DepartmentID)
		}
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         input.Role,
		DepartmentID: input.DepartmentID,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ChangeRole assigns role to the target user within the actor's ceiling.
func (s *UserService) ChangeRole(ctx context.Context, actor *domain.User, targetID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"fields": map[string]string{"role": "unknown role"}})
	}
	target, err := s.manageable(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanGrant(role) {
		return nil, apperrors.NewForbidden("role exceeds your grant ceiling")
	}
	target.Role = role
	if err := s.users.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}
	return target, nil
}

// SetActive activates or deactivates the target user.
func (s *UserService) SetActive(ctx context.Context, actor *domain.User, targetID string, active bool) (*domain.User, error) {
	target, err := s.manageable(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}
	target.IsActive = active
	if err := s.users.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}
	return target, nil
}

func (s *UserService) manageable(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if actor.ID == targetID {
		return nil, apperrors.NewForbidden("cannot change your own account this way")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, apperrors.MapNotFound(err, "user", targetID)
	}
	if target.Role.Rank() > actor.Role.Rank() {
		return nil, apperrors.NewForbidden("cannot modify a user ranked above you")
	}
	if target.Role.Rank() == actor.Role.Rank() && actor.Role != domain.RoleMaster {
		return nil, apperrors.NewForbidden("cannot modify a user of the same role")
	}
	return target, nil
}
