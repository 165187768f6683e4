package config

import (
	"time"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	DB         DB
	Log        logger.Log
	Title      string
	Webserver  Webserver
	Auth       Auth
	SafeQ      SafeQ
	RoleGroups RoleGroups
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Auth groups the authentication settings for all three login paths.
type Auth struct {
	Entra      EntraAuth
	Emergency  EmergencyAuth
	CloudLocal CloudLocalAuth
}

// EntraAuth holds the Entra ID (OIDC) settings.
type EntraAuth struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	GroupsClaim  string
}

// EmergencyAuth holds the local emergency credential settings.
type EmergencyAuth struct {
	Enabled bool
}

// CloudLocalAuth holds the card-id fallback login settings.
type CloudLocalAuth struct {
	Enabled bool
	// RequiredGroup must be held by the account for the fallback login to
	// succeed. Defaults to "Reports-View".
	RequiredGroup string
}

// SafeQ holds the print-management server connection settings.
type SafeQ struct {
	ServerURL      string
	APIKey         string
	TimeoutSeconds int
	// LocalProvider is the provider id holding local SafeQ accounts; external
	// identities are correlated against it.
	LocalProvider string
	// MaxRecords caps listing calls. Zero means server default.
	MaxRecords int
}

// RoleGroups maps identity-provider group names to console roles.
type RoleGroups struct {
	SuperAdmin string
	Admin      string
	Support    string
	Viewer     string
}
