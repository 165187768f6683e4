package auth

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
)

// Directory is the subset of the SafeQ client the permission pipeline needs.
type Directory interface {
	LookupUser(ctx context.Context, username, provider string) (*safeq.User, error)
	UserGroups(ctx context.Context, username string) ([]safeq.Group, error)
}

// UserInfo carries the identity claims delivered by the identity provider.
type UserInfo struct {
	PreferredUsername string
	Mail              string
}

// Username returns the external username: the preferred username claim, or
// the mail claim as fallback. The boolean is false when both are empty.
func (i UserInfo) Username() (string, bool) {
	if i.PreferredUsername != "" {
		return i.PreferredUsername, true
	}

	if i.Mail != "" {
		return i.Mail, true
	}

	return "", false
}

// InitializerConfig holds the settings the permission pipeline consumes.
type InitializerConfig struct {
	// RoleGroups maps identity-provider group names to roles.
	RoleGroups RoleGroups
	// LocalProvider is the SafeQ provider id holding local accounts.
	LocalProvider string
}

// InitializePermissions runs the permission pipeline for an externally
// authenticated identity and returns the session's PermissionRecord. It
// never panics past its boundary: unexpected failures become a failure
// record with a generic message.
//
// The stages, each of which can terminate early with a failed record:
//  1. extract the external username from the identity claims
//  2. resolve the role from the external groups
//  3. correlate to a local SafeQ account (hard gate; transport errors and
//     "not found" are treated alike because correlation is mandatory)
//  4. load the local account's groups (tolerant; errors degrade to an empty
//     list, which stage 5 then judges)
//  5. derive the allowed departments; superadmin short-circuits to an
//     unrestricted scope, everyone else needs a non-empty department set
func InitializePermissions(
	ctx context.Context,
	dir Directory,
	info UserInfo,
	externalGroups []string,
	cfg InitializerConfig,
) (record PermissionRecord) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("permission initialization panicked")
			record = failedRecord(SourceEntra, record.ExternalUsername, ErrPermissionInit)
		}
	}()

	// stage 1: external username
	externalUsername, ok := info.Username()
	if !ok {
		return failedRecord(SourceEntra, "", ErrNoUsername)
	}

	// stage 2: role from external groups
	role, ok := ResolveRole(externalGroups, cfg.RoleGroups)
	if !ok {
		log.Warn().Str("user", externalUsername).Msg("no authorization group matched")
		return failedRecord(SourceEntra, externalUsername, ErrNoRoleGroup)
	}

	// stage 3: correlate to the local SafeQ account
	localUser, err := dir.LookupUser(ctx, externalUsername, cfg.LocalProvider)
	if err != nil {
		log.Warn().Err(err).Str("user", externalUsername).Msg("local account correlation failed")
		return failedRecord(SourceEntra, externalUsername, ErrNoLocalAccount)
	}

	// stage 4: local groups; absence of group data is "no extra departments",
	// not a hard failure
	localGroups, err := dir.UserGroups(ctx, localUser.UserName)
	if err != nil {
		log.Warn().Err(err).Str("user", localUser.UserName).Msg("failed to load local groups")
		localGroups = nil
	}

	// stage 5: department scope
	scope := Unrestricted()
	if role != RoleSuperAdmin {
		departments := ExtractDepartments(localGroups)
		if len(departments) == 0 {
			return failedRecord(SourceEntra, externalUsername, ErrNoDepartments)
		}

		scope = RestrictedTo(departments)
	}

	return PermissionRecord{
		Success:          true,
		Source:           SourceEntra,
		ExternalUsername: externalUsername,
		LocalUsername:    localUser.UserName,
		Role:             role,
		LocalGroups:      localGroups,
		Scope:            scope,
	}
}
