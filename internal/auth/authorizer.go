package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// Mode controls whether authorization decisions are enforced.
type Mode string

const (
	ModeEnforce  Mode = "enforce"
	ModeShadow   Mode = "shadow"
	ModeDisabled Mode = "disabled"
)

// Objects guarded by the authorizer.
const (
	ObjectProjects           = "projects"
	ObjectStaffing           = "staffing"
	ObjectExpenses           = "expenses"
	ObjectSettlements        = "settlements"
	ObjectClients            = "clients"
	ObjectDepartments        = "departments"
	ObjectEmployees          = "employees"
	ObjectRateCards          = "rate_cards"
	ObjectDashboard          = "dashboard"
	ObjectCost               = "cost"
	ObjectPermissionRequests = "permission_requests"
	ObjectUsers              = "users"
	ObjectMetrics            = "metrics"
)

// Actions checked against objects.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
	ActionImport = "import"
	ActionCreate = "create"
	ActionReview = "review"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

var defaultPolicies = [][]string{
	{"role:user", ObjectProjects, ActionRead},
	{"role:user", ObjectStaffing, ActionRead},
	{"role:user", ObjectExpenses, ActionRead},
	{"role:user", ObjectSettlements, ActionRead},
	{"role:user", ObjectClients, ActionRead},
	{"role:user", ObjectDepartments, ActionRead},
	{"role:user", ObjectEmployees, ActionRead},
	{"role:user", ObjectRateCards, ActionRead},
	{"role:user", ObjectDashboard, ActionRead},
	{"role:user", ObjectCost, ActionRead},
	{"role:user", ObjectPermissionRequests, ActionRead},
	{"role:user", ObjectPermissionRequests, ActionCreate},

	{"role:manager", ObjectProjects, ActionWrite},
	{"role:manager", ObjectProjects, ActionImport},
	{"role:manager", ObjectStaffing, ActionWrite},
	{"role:manager", ObjectExpenses, ActionWrite},
	{"role:manager", ObjectSettlements, ActionWrite},
	{"role:manager", ObjectClients, ActionWrite},

	{"role:admin", ObjectDepartments, ActionWrite},
	{"role:admin", ObjectEmployees, ActionWrite},
	{"role:admin", ObjectRateCards, ActionWrite},
	{"role:admin", ObjectProjects, ActionDelete},
	{"role:admin", ObjectClients, ActionDelete},
	{"role:admin", ObjectPermissionRequests, ActionReview},
	{"role:admin", ObjectUsers, ActionRead},
	{"role:admin", ObjectUsers, ActionWrite},
	{"role:admin", ObjectMetrics, ActionRead},
}

var roleInheritance = [][]string{
	{"role:manager", "role:user"},
	{"role:admin", "role:manager"},
	{"role:master", "role:admin"},
}

// ParseMode validates a configured mode string.
func ParseMode(raw string, allowDisabled bool) (Mode, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ModeEnforce, nil
	}
	switch Mode(raw) {
	case ModeEnforce, ModeShadow:
		return Mode(raw), nil
	case ModeDisabled:
		if !allowDisabled {
			return "", errors.New("authz: AUTHZ_MODE=disabled requires AUTHZ_UNSAFE_ALLOW_DISABLED=1")
		}
		return ModeDisabled, nil
	default:
		return "", fmt.Errorf("authz: invalid AUTHZ_MODE %q (expected enforce|shadow|disabled)", raw)
	}
}

// Authorizer answers role/object/action questions using a casbin RBAC model.
type Authorizer struct {
	enforcer *casbin.Enforcer
	mode     Mode
}

// NewAuthorizer builds the enforcer from the built-in model and policies.
func NewAuthorizer(mode Mode) (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("authz policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicies(roleInheritance); err != nil {
		return nil, fmt.Errorf("authz roles: %w", err)
	}
	return &Authorizer{enforcer: enforcer, mode: mode}, nil
}

// Mode returns the configured enforcement mode.
func (a *Authorizer) Mode() Mode {
	return a.mode
}

// SubjectForRole maps a role to its casbin subject.
func SubjectForRole(role domain.Role) string {
	return "role:" + strings.ToLower(string(role))
}

// Authorize reports whether role may perform action on object. enforced is
// false when the decision is advisory only.
func (a *Authorizer) Authorize(role domain.Role, object, action string) (allowed bool, enforced bool, err error) {
	switch a.mode {
	case ModeDisabled:
		return true, false, nil
	case ModeShadow:
		ok, err := a.enforcer.Enforce(SubjectForRole(role), object, action)
		if err != nil {
			return false, false, err
		}
		return ok, false, nil
	case ModeEnforce:
		ok, err := a.enforcer.Enforce(SubjectForRole(role), object, action)
		if err != nil {
			return false, true, err
		}
		return ok, true, nil
	default:
		return false, false, errors.New("authz: unknown mode")
	}
}

// Can is the enforce-mode answer regardless of the configured mode.
func (a *Authorizer) Can(role domain.Role, object, action string) bool {
	ok, err := a.enforcer.Enforce(SubjectForRole(role), object, action)
	return err == nil && ok
}
