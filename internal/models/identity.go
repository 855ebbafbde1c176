package models

import (
	"strings"
)

// Role is the dashboard a caller is acting through
type Role string

const (
	RoleLearner Role = "learner"
	RoleCompany Role = "company"
)

// ParseRole normalizes a role string, falling back to learner
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCompany:
		return RoleCompany
	default:
		return RoleLearner
	}
}

// Identity is the caller selected by the role switch.
// There is no authentication behind it; it only scopes the dashboards.
type Identity struct {
	Role Role   `json:"role"`
	ID   string `json:"id"`
}

// IsCompany returns true if the caller acts as a company
func (i *Identity) IsCompany() bool {
	return i != nil && i.Role == RoleCompany
}

// CanActAs reports whether the caller may act on behalf of the given
// learner or company id
func (i *Identity) CanActAs(role Role, id string) bool {
	if i == nil {
		return false
	}
	return i.Role == role && i.ID == id
}

// Key returns the identity as "role:id", used for rate limiting and quotas
func (i *Identity) Key() string {
	if i == nil {
		return "anonymous"
	}
	return string(i.Role) + ":" + i.ID
}
