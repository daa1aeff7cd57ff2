package auth

// Role is an ordered capability level. Checks go through AtLeast so the
// hierarchy lives in one place instead of ad-hoc string comparisons in
// every handler.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

var roleRank = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Known reports whether the role is part of the hierarchy
func (r Role) Known() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether the role grants the capabilities of min
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// Principal is the identity resolved from a verified access token.
// It is rebuilt on every request and never persisted.
type Principal struct {
	ID   string
	Role Role
}
