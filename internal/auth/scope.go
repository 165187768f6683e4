package auth

import (
	"encoding/json"
)

// scopeAll is the wire form of an unrestricted scope. It exists only in the
// JSON representation (session storage, presentation); code branches on the
// tagged union, never on this string.
const scopeAll = "ALL"

// DepartmentScope is the set of departments a session may see: either
// unrestricted (superadmin) or restricted to an explicit department list.
// The zero value is a restricted scope with no departments, which is never a
// valid session scope: the permission initializer rejects empty department
// sets at login.
type DepartmentScope struct {
	unrestricted bool
	departments  []string
}

// Unrestricted returns the scope that allows every department.
func Unrestricted() DepartmentScope {
	return DepartmentScope{unrestricted: true}
}

// RestrictedTo returns a scope limited to the given departments.
func RestrictedTo(departments []string) DepartmentScope {
	depts := make([]string, len(departments))
	copy(depts, departments)

	return DepartmentScope{departments: depts}
}

// IsUnrestricted reports whether the scope allows every department.
func (s DepartmentScope) IsUnrestricted() bool {
	return s.unrestricted
}

// Departments returns a copy of the allowed department list. It is empty for
// an unrestricted scope.
func (s DepartmentScope) Departments() []string {
	depts := make([]string, len(s.departments))
	copy(depts, s.departments)

	return depts
}

// Allows reports whether the given department is visible under this scope.
// Matching is exact string equality: department identity includes the numeric
// site code, so prefix or fuzzy matching could leak a similarly named
// department.
func (s DepartmentScope) Allows(department string) bool {
	if s.unrestricted {
		return true
	}

	for _, d := range s.departments {
		if d == department {
			return true
		}
	}

	return false
}

// MarshalJSON encodes the scope as ["ALL"] when unrestricted, otherwise as
// the department list.
func (s DepartmentScope) MarshalJSON() ([]byte, error) {
	if s.unrestricted {
		return json.Marshal([]string{scopeAll})
	}

	return json.Marshal(s.departments)
}

// UnmarshalJSON decodes the wire form written by MarshalJSON.
func (s *DepartmentScope) UnmarshalJSON(data []byte) error {
	var depts []string
	if err := json.Unmarshal(data, &depts); err != nil {
		return err
	}

	if len(depts) == 1 && depts[0] == scopeAll {
		*s = Unrestricted()
		return nil
	}

	*s = DepartmentScope{departments: depts}

	return nil
}
