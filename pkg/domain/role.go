// Package domain holds identity types shared between the gateway's access
// policy, session layer, and transport code.
package domain

// Role is the authenticated principal's role as issued by the auth provider.
type Role string

const (
	RoleSuperAdmin Role = "super-admin"
	RoleCompany    Role = "company"
	RoleCandidate  Role = "candidate"
)

// Valid reports whether the role is one the gateway knows how to authorize.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleCompany, RoleCandidate:
		return true
	}
	return false
}

// Home returns the landing path for a role. Redirect rules send a principal
// here when they visit a section that belongs to another role.
func (r Role) Home() string {
	switch r {
	case RoleSuperAdmin:
		return "/admin"
	case RoleCompany:
		return "/dashboard"
	case RoleCandidate:
		return "/candidate"
	}
	return "/"
}
