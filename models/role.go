package models

import "strings"

// Role is the closed set of worker roles recognized by the system.
// Policy checks dispatch on this enumeration rather than raw strings so the
// access rules stay auditable in one place (see internal/policy).
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLead      Role = "lead"
	RoleStaff     Role = "staff"
	RoleEmployee  Role = "employee"
	RoleVolunteer Role = "volunteer"
)

// ParseRole normalizes a stored role string to a Role. Unknown values map to
// the empty Role, which every policy check treats as the most restrictive case.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleLead:
		return RoleLead
	case RoleStaff:
		return RoleStaff
	case RoleEmployee:
		return RoleEmployee
	case RoleVolunteer:
		return RoleVolunteer
	}
	return ""
}

// Known reports whether r is one of the recognized roles.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleLead, RoleStaff, RoleEmployee, RoleVolunteer:
		return true
	}
	return false
}
