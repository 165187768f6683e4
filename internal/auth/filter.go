package auth

import (
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
)

// localUsersGroup is a backend-internal group that must never be listed for
// department-scoped sessions, even if it somehow appears in a scope's
// department list. It is a fixed deny entry, not a department.
const localUsersGroup = "Local Users"

// FilterUsers returns the users visible under the given scope. An
// unrestricted scope returns the input unchanged. Otherwise a user is kept
// exactly when its derived department (primary field, else the department
// attribute) is in the scope; users whose department cannot be derived are
// dropped unconditionally. The input is never mutated.
func FilterUsers(users []safeq.User, scope DepartmentScope) []safeq.User {
	if scope.IsUnrestricted() {
		return users
	}

	filtered := make([]safeq.User, 0, len(users))

	for _, u := range users {
		dept, ok := u.DerivedDepartment()
		if !ok {
			continue
		}

		if scope.Allows(dept) {
			filtered = append(filtered, u)
		}
	}

	return filtered
}

// FilterGroups returns the groups visible under the given scope. An
// unrestricted scope returns the input unchanged. Otherwise a group is kept
// exactly when its name is in the scope, with "Local Users" always excluded.
// The input is never mutated.
func FilterGroups(groups []safeq.Group, scope DepartmentScope) []safeq.Group {
	if scope.IsUnrestricted() {
		return groups
	}

	filtered := make([]safeq.Group, 0, len(groups))

	for _, g := range groups {
		if g.Name == localUsersGroup {
			continue
		}

		if scope.Allows(g.Name) {
			filtered = append(filtered, g)
		}
	}

	return filtered
}

// FilterDocuments returns the print documents visible under the given scope:
// documents whose department is in the scope. Documents without a department
// are dropped for restricted scopes, mirroring FilterUsers.
func FilterDocuments(docs []safeq.Document, scope DepartmentScope) []safeq.Document {
	if scope.IsUnrestricted() {
		return docs
	}

	filtered := make([]safeq.Document, 0, len(docs))

	for _, d := range docs {
		if d.Department == "" {
			continue
		}

		if scope.Allows(d.Department) {
			filtered = append(filtered, d)
		}
	}

	return filtered
}
