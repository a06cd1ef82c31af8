// Copyright (c) 2026 Academix. All rights reserved.
// Author: duc.lehoang.dev@gmail.com

package sec

// # Admin Roles

// AdminRole represents the authorization level granted to a staff account.
type AdminRole string

const (
	// Unrestricted system access
	RoleAdmin AdminRole = "admin"

	// Can author and manage their own courses and articles
	RoleInstructor AdminRole = "instructor"

	// Can view learner tickets and assist with enrollment issues
	RoleSupport AdminRole = "support"

	// Can review catalog submissions and manage instructor accounts
	RoleManager AdminRole = "manager"
)

// IsValid reports whether r is a recognised [AdminRole] value.
func (r AdminRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleSupport, RoleManager:
		return true
	}
	return false
}

// # Session Allow-List

// sessionRoles is the closed set of roles permitted to hold a dashboard session.
// Support and manager accounts use a separate back-office surface and never
// pass session verification here.
var sessionRoles = map[AdminRole]struct{}{
	RoleAdmin:      {},
	RoleInstructor: {},
}

// CanHoldSession reports whether the role is allow-listed for the protected
// dashboard surface.
func (r AdminRole) CanHoldSession() bool {
	_, ok := sessionRoles[r]
	return ok
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r AdminRole) AtLeast(target AdminRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r AdminRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleManager:
		return 30
	case RoleInstructor:
		return 20
	case RoleSupport:
		return 10
	default:
		return 0
	}
}
