package auth

import (
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
)

// Source identifies how a session was authenticated.
type Source string

const (
	// SourceEntra indicates the session came from the Entra ID (OIDC) login flow.
	SourceEntra Source = "entra"
	// SourceEmergency indicates the session came from the local emergency credential.
	SourceEmergency Source = "emergency"
	// SourceCloudLocal indicates the session came from the card-id fallback login.
	SourceCloudLocal Source = "cloud-local"
)

// PermissionRecord is the consolidated result of permission initialization.
// It is created once per login attempt, stored with the session, and never
// mutated afterwards; a new login produces a new record. Either Success is
// true and ErrorMessage is empty, or Success is false and ErrorMessage says
// why.
type PermissionRecord struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage,omitempty"`

	Source           Source          `json:"source,omitempty"`
	ExternalUsername string          `json:"externalUsername,omitempty"`
	LocalUsername    string          `json:"localUsername,omitempty"`
	Role             Role            `json:"role,omitempty"`
	LocalGroups      []safeq.Group   `json:"localGroups,omitempty"`
	Scope            DepartmentScope `json:"allowedDepartments"`
}

// failedRecord builds a failure record carrying the given error as its
// user-facing message.
func failedRecord(source Source, externalUsername string, err error) PermissionRecord {
	return PermissionRecord{
		Source:           source,
		ExternalUsername: externalUsername,
		ErrorMessage:     err.Error(),
	}
}
