package safeq

import (
	"errors"
)

var (
	// ErrUserNotFound is returned when a user lookup matches no account.
	ErrUserNotFound = errors.New("user not found")

	// ErrClientNotInitialized is returned when the SafeQ client is used before Open.
	ErrClientNotInitialized = errors.New("SafeQ client not initialized")
)
