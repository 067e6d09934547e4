package user

import "strings"

const (
	RoleAdmin    = "admin"
	RoleReadOnly = "readonly"
)

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID string
	Email  string
	TeamID string
	Role   string
}

func NormalizeRole(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func (p Principal) IsAdmin() bool {
	return NormalizeRole(p.Role) == RoleAdmin
}

func (p Principal) IsReadOnly() bool {
	return NormalizeRole(p.Role) == RoleReadOnly
}
