package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrNoUsername is returned when neither the preferred username nor the
	// mail claim of the identity-provider payload carries a usable value.
	ErrNoUsername = errors.New("cannot extract username")

	// ErrNoRoleGroup is returned when none of the configured authorization
	// groups are present in the user's identity-provider group set.
	ErrNoRoleGroup = errors.New("no matching authorization group")

	// ErrNoLocalAccount is returned when the externally authenticated user has
	// no correlated account on the SafeQ server. Department scoping depends on
	// the local account's groups, so correlation is a mandatory gate.
	ErrNoLocalAccount = errors.New("no matching local account")

	// ErrNoDepartments is returned when a correlated, role-bearing account
	// maps to zero departments. An empty department set is a configuration
	// error, not a valid "sees nothing" state.
	ErrNoDepartments = errors.New("no department assignment")

	// ErrPermissionInit is the generic failure for unexpected errors during
	// permission initialization.
	ErrPermissionInit = errors.New("permission initialization failed")

	// ErrCloudUserNotFound is returned by the card-id fallback when the
	// username matches no account on the SafeQ server.
	ErrCloudUserNotFound = errors.New("user not found in cloud")

	// ErrNoCardID is returned by the card-id fallback when the account has no
	// card identifier attribute configured.
	ErrNoCardID = errors.New("no card id configured")

	// ErrInvalidCardID is returned by the card-id fallback on card mismatch.
	ErrInvalidCardID = errors.New("invalid card id")

	// ErrNoGroups is returned by the card-id fallback when the account belongs
	// to no groups at all.
	ErrNoGroups = errors.New("not assigned to any group")

	// ErrMissingRequiredGroup is returned by the card-id fallback when the
	// configured reporting group is absent from the account's groups.
	ErrMissingRequiredGroup = errors.New("missing required group")

	// ErrNoSchoolAssignment is returned by the card-id fallback when the
	// account's groups contain no department.
	ErrNoSchoolAssignment = errors.New("no school assignment")

	// ErrInvalidPassword is returned when the provided password is incorrect
	// during emergency local authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a local user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAccountDisabled is returned when authenticating a disabled local account.
	ErrUserAccountDisabled = errors.New("user account is disabled")
)
