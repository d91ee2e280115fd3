package domain

import "strings"

type Role string

const (
	// RoleUser is the default role for new accounts.
	RoleUser Role = "user"
	// RoleModerator can manage content created by other users.
	RoleModerator Role = "moderator"
	// RoleAdmin has user management privileges.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RoleModerator) || r == string(RoleAdmin)
}

// ParseRole trims and lower-cases r, rejecting anything outside the known roles.
func ParseRole(r string) (Role, error) {
	r = strings.ToLower(strings.TrimSpace(r))
	if !IsValidRole(r) {
		return "", ErrInvalidRole(r)
	}
	return Role(r), nil
}
