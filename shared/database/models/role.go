package models

import "fmt"

// Role is the closed set of platform roles carried inside access tokens.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleNGO         Role = "user-ngo"
	RoleIndependent Role = "user-independent"
)

// ParseRole maps a wire value onto the role enum.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleAdmin, RoleNGO, RoleIndependent:
		return Role(value), nil
	}
	return "", fmt.Errorf("unknown role: %q", value)
}

// RoleSet is an allow-list of roles with set-containment membership.
type RoleSet map[Role]struct{}

// NewRoleSet builds an allow-list from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Contains reports whether the role is part of the allow-list.
func (s RoleSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}
