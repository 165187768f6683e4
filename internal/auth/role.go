package auth

// Role is the console role a session operates under. Exactly one role is
// assigned per session, at login.
type Role string

const (
	// RoleViewer grants read-only access to the listing pages.
	RoleViewer Role = "viewer"
	// RoleSupport grants read access plus document inspection.
	RoleSupport Role = "support"
	// RoleAdmin grants user and group administration within allowed departments.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin grants unrestricted access to every department.
	RoleSuperAdmin Role = "superadmin"
	// RoleSchoolManager is a reporting-only role reachable solely through the
	// card-id fallback login, never through identity-provider group mapping.
	RoleSchoolManager Role = "school_manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleViewer, RoleSupport, RoleAdmin, RoleSuperAdmin, RoleSchoolManager:
		return true
	}

	return false
}

// CanManageUsers reports whether the role may create or delete SafeQ users.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// RoleGroups is the configured mapping from identity-provider group names to
// the externally reachable roles. school_manager has no entry: it cannot be
// reached through group mapping.
type RoleGroups struct {
	SuperAdmin string
	Admin      string
	Support    string
	Viewer     string
}

// priority lists the mapping entries highest role first. ResolveRole takes
// the first configured group present in the user's set, so a user holding
// both the admin and support groups resolves to admin.
func (m RoleGroups) priority() []struct {
	group string
	role  Role
} {
	return []struct {
		group string
		role  Role
	}{
		{m.SuperAdmin, RoleSuperAdmin},
		{m.Admin, RoleAdmin},
		{m.Support, RoleSupport},
		{m.Viewer, RoleViewer},
	}
}

// ResolveRole maps a user's identity-provider group names to a role using
// the configured mapping, highest role first. The boolean is false when none
// of the configured groups are present; callers must treat that as an
// authorization failure, not an error condition.
func ResolveRole(userGroups []string, mapping RoleGroups) (Role, bool) {
	held := make(map[string]struct{}, len(userGroups))
	for _, g := range userGroups {
		held[g] = struct{}{}
	}

	for _, entry := range mapping.priority() {
		if entry.group == "" {
			continue
		}

		if _, ok := held[entry.group]; ok {
			return entry.role, true
		}
	}

	return "", false
}
