package auth

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

var Roles = []Role{RoleAdmin, RoleEmployee}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

func ParseRole(value string) (Role, bool) {
	role := Role(value)
	return role, role.Valid()
}

// UserContext is the authenticated caller resolved from a bearer token.
type UserContext struct {
	UserID    string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}
