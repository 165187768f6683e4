// Package main provides the entry point for the SafeQ administration console.
// It initializes and runs a web server using the Fiber framework through
// which staff manage print users, groups and documents scoped to the
// departments their directory groups grant. The application uses gorm for
// the console's own persistence (emergency accounts, audit events) and talks
// to the SafeQ server over its REST API.
package main
