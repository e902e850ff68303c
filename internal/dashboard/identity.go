package dashboard

import (
	"fmt"
	"strings"
)

// Role is an operator's permission level.
type Role string

// Roles.
const (
	RoleAdmin     Role = "admin"
	RoleRecruiter Role = "recruiter"
	RoleViewer    Role = "viewer"
)

// ParseRole resolves a configured role name.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleRecruiter, RoleViewer:
		return true
	}
	return false
}

// CanWrite reports whether the role may add, update, delete or upload rows.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleRecruiter
}

// Identity is the operator a session acts for.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}
