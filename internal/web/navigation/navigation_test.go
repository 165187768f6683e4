package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Test Page", "section1", "page1")

	assert.Equal(t, "Test Page", ctx.PageTitle)
	assert.Equal(t, "section1", ctx.ActiveSection)
	assert.Equal(t, "page1", ctx.ActivePage)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := NewContext("Test Page", "section1", "page1").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("Users", "/users", false).
		AddBreadcrumb("New", "/users/new", true)

	assert.Len(t, ctx.Breadcrumbs, 3)
	assert.Equal(t, "Home", ctx.Breadcrumbs[0].Title)
	assert.Equal(t, "Users", ctx.Breadcrumbs[1].Title)
	assert.True(t, ctx.Breadcrumbs[2].Active)
}

func TestContext_IsActive(t *testing.T) {
	ctx := NewContext("Users", "users", "users")

	assert.True(t, ctx.IsActive("users", "users"))
	assert.False(t, ctx.IsActive("dashboard", "users"))
	assert.False(t, ctx.IsActive("users", "users-new"))

	assert.True(t, ctx.IsSectionActive("users"))
	assert.False(t, ctx.IsSectionActive("groups"))
}

func urls(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.URL)
	}

	return out
}

func TestItemsForRole(t *testing.T) {
	// school_manager is reporting-only
	assert.Equal(t,
		[]string{"/reports"},
		urls(ItemsForRole(auth.RoleSchoolManager)))

	full := []string{"/dashboard", "/users", "/groups", "/documents", "/reports"}

	assert.Equal(t, full, urls(ItemsForRole(auth.RoleViewer)))
	assert.Equal(t, full, urls(ItemsForRole(auth.RoleSupport)))
	assert.Equal(t, full, urls(ItemsForRole(auth.RoleAdmin)))

	assert.Equal(t,
		append(append([]string{}, full...), "/audit"),
		urls(ItemsForRole(auth.RoleSuperAdmin)))
}

func TestContext_WithItems(t *testing.T) {
	ctx := NewContext("Reports", "reports", "reports").WithItems(auth.RoleSchoolManager)

	assert.Len(t, ctx.Items, 1)
	assert.Equal(t, "Reports", ctx.Items[0].Title)
}
