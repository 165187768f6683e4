package auth

import (
	"regexp"
	"strings"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
)

// departmentPattern matches group names that designate a department: any
// label ending in a hyphen, optional spaces, and a numeric site code.
// Only the trailing hyphen-digits suffix is anchored; the label part may
// itself contain hyphens.
var departmentPattern = regexp.MustCompile(`-\s*\d+$`)

// IsDepartment reports whether the given group name designates a department.
// The name is trimmed before matching.
func IsDepartment(name string) bool {
	return departmentPattern.MatchString(strings.TrimSpace(name))
}

// ExtractDepartments returns the department names found in the given groups,
// deduplicated, in first-seen order. Group names are compared verbatim:
// departments are not separate entities, they are the qualifying group names
// themselves. Groups without a name are skipped.
func ExtractDepartments(groups []safeq.Group) []string {
	var (
		departments []string
		seen        = make(map[string]struct{}, len(groups))
	)

	for _, g := range groups {
		if g.Name == "" || !IsDepartment(g.Name) {
			continue
		}

		if _, dup := seen[g.Name]; dup {
			continue
		}

		seen[g.Name] = struct{}{}
		departments = append(departments, g.Name)
	}

	return departments
}
