package domain

// Role enumerates account roles, ordered master > admin > manager > user.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
	RoleMaster  Role = "master"
)

var roleRank = map[Role]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
	RoleMaster:  4,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank returns the position of r in the hierarchy; unknown roles rank 0.
func (r Role) Rank() int {
	return roleRank[r]
}

// AtLeast reports whether r is equal to or above other.
func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank() && r.Rank() > 0
}

// Roles lists every role from lowest to highest.
func Roles() []Role {
	return []Role{RoleUser, RoleManager, RoleAdmin, RoleMaster}
}

// GrantCeiling is the highest role r may grant to others. Admins grant up to
// manager; only master grants admin or master.
func (r Role) GrantCeiling() Role {
	switch r {
	case RoleMaster:
		return RoleMaster
	case RoleAdmin:
		return RoleManager
	}
	return ""
}

// CanGrant reports whether r may assign target to another user.
func (r Role) CanGrant(target Role) bool {
	ceiling := r.GrantCeiling()
	return ceiling != "" && target.Valid() && target.Rank() <= ceiling.Rank()
}
