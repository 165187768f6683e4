// Package navigation provides utilities for managing navigation state and breadcrumbs.
package navigation

import (
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Item is a navigation entry shown in the sidebar.
type Item struct {
	Title string
	URL   string
	Key   string
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
	Items         []Item
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// WithItems fills the sidebar entries for the given role.
func (c *Context) WithItems(role auth.Role) *Context {
	c.Items = ItemsForRole(role)
	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// ItemsForRole returns the navigation entries a role may see.
// school_manager is a reporting-only role and sees just the reports page.
func ItemsForRole(role auth.Role) []Item {
	if role == auth.RoleSchoolManager {
		return []Item{
			{Title: "Reports", URL: "/reports", Key: "reports"},
		}
	}

	items := []Item{
		{Title: "Dashboard", URL: "/dashboard", Key: "dashboard"},
		{Title: "Users", URL: "/users", Key: "users"},
		{Title: "Groups", URL: "/groups", Key: "groups"},
		{Title: "Documents", URL: "/documents", Key: "documents"},
		{Title: "Reports", URL: "/reports", Key: "reports"},
	}

	if role == auth.RoleSuperAdmin {
		items = append(items, Item{Title: "Audit", URL: "/audit", Key: "audit"})
	}

	return items
}
