package auth

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
)

// FallbackConfig holds the settings of the card-id fallback login.
type FallbackConfig struct {
	// LocalProvider is the SafeQ provider id holding local accounts.
	LocalProvider string
	// RequiredGroup must be present among the account's groups for the
	// fallback to succeed. Default "Reports-View".
	RequiredGroup string
}

// DefaultRequiredGroup is the default authorization group of the card-id
// fallback login.
const DefaultRequiredGroup = "Reports-View"

// AuthenticateCloudLocal is the alternate login path for users who cannot
// authenticate through the identity provider: a SafeQ-stored card identifier
// acts as a shared-secret credential, and the resulting session is fixed to
// the school_manager role. Every stage is a hard gate with its own
// user-facing error. Department scoping reuses ExtractDepartments so the
// invariant "departments come only from qualifying group names" holds on
// both login paths.
func AuthenticateCloudLocal(
	ctx context.Context,
	dir Directory,
	username, cardID string,
	cfg FallbackConfig,
) (record PermissionRecord) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("cloud-local authentication panicked")
			record = failedRecord(SourceCloudLocal, username, ErrPermissionInit)
		}
	}()

	user, err := dir.LookupUser(ctx, username, cfg.LocalProvider)
	if err != nil {
		log.Warn().Err(err).Str("user", username).Msg("cloud-local lookup failed")
		return failedRecord(SourceCloudLocal, username, ErrCloudUserNotFound)
	}

	storedCard, ok := user.Attribute(safeq.AttrKindCard)
	if !ok || storedCard == "" {
		return failedRecord(SourceCloudLocal, username, ErrNoCardID)
	}

	if storedCard != cardID {
		log.Warn().Str("user", username).Msg("cloud-local card mismatch")
		return failedRecord(SourceCloudLocal, username, ErrInvalidCardID)
	}

	groups, err := dir.UserGroups(ctx, user.UserName)
	if err != nil || len(groups) == 0 {
		return failedRecord(SourceCloudLocal, username, ErrNoGroups)
	}

	required := cfg.RequiredGroup
	if required == "" {
		required = DefaultRequiredGroup
	}

	if !containsGroup(groups, required) {
		return failedRecord(SourceCloudLocal, username, ErrMissingRequiredGroup)
	}

	departments := ExtractDepartments(groups)
	if len(departments) == 0 {
		return failedRecord(SourceCloudLocal, username, ErrNoSchoolAssignment)
	}

	return PermissionRecord{
		Success:          true,
		Source:           SourceCloudLocal,
		ExternalUsername: username,
		LocalUsername:    user.UserName,
		Role:             RoleSchoolManager,
		LocalGroups:      groups,
		Scope:            RestrictedTo(departments),
	}
}

func containsGroup(groups []safeq.Group, name string) bool {
	for _, g := range groups {
		if g.Name == name {
			return true
		}
	}

	return false
}
