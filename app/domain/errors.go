package domain

import "errors"

// Session and tenant errors
var (
	// ErrTenantMissing is returned when a tenant-scoped operation runs with no
	// tenant domain bound to the session. Callers must fail closed rather than
	// fall back to the public origin.
	ErrTenantMissing = errors.New("no tenant domain bound to session")

	// ErrLoginFailed wraps any transport or validation failure during login.
	// The session is always logged out first, so no partial state survives.
	ErrLoginFailed = errors.New("login failed: invalid credentials or server error")

	// ErrNotAuthenticated is returned for operations that require a session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrCorruptSession marks a session holding a token without a tenant
	// domain. Recovery is a forced logout.
	ErrCorruptSession = errors.New("corrupt session: token present without tenant domain")
)

// Provisioning errors
var (
	ErrNoSSHKey = errors.New("no SSH key ID available")
	ErrNoServer = errors.New("no server ID available")
	ErrNoSetup  = errors.New("setup status unavailable")
)
