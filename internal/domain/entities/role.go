package entities

import (
	"fmt"
	"strings"
)

// Role identifies the privilege level of an authenticated user. The numeric
// order is the default permission ladder: each role may do at least what the
// roles below it may do, unless the policy carries an explicit override.
type Role int

const (
	RoleNurse Role = iota + 1
	RoleClinician
	RoleManager
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleNurse:
		return "nurse"
	case RoleClinician:
		return "clinician"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// AtLeast reports whether r sits at or above min on the ladder.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// ParseRole maps a role name from the credentials source to a Role.
// Matching is case-insensitive; "management" is accepted as an alias for
// manager because the historical credential data uses it.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nurse":
		return RoleNurse, nil
	case "clinician":
		return RoleClinician, nil
	case "manager", "management":
		return RoleManager, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("unsupported role %q", s)
	}
}

// Credential binds a username to its password and role. Credentials are loaded
// once at startup and never change during a session.
type Credential struct {
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
	Role     Role   `json:"role" db:"role"`
}
