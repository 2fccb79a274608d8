package tenant

import "errors"

var (
	// ErrMissingSubdomain is returned when the request host carries no
	// tenant subdomain under the configured base domain.
	ErrMissingSubdomain = errors.New("no tenant subdomain in request host")

	// ErrTenantNotFound is returned when a subdomain has no active tenant.
	// Missing and inactive tenants are deliberately indistinguishable so
	// unauthenticated callers cannot probe tenant existence or state.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrConnectionFailed is returned when the tenant database pool cannot
	// be created or reached.
	ErrConnectionFailed = errors.New("failed to acquire tenant database connection")

	// ErrSessionFailed is returned when a tenant session cannot be opened
	// or committed. Errors raised by the caller's own work inside a session
	// pass through unchanged after rollback.
	ErrSessionFailed = errors.New("tenant session failed")

	// ErrNoTenantInContext is returned when a handler requires a resolved
	// tenant but the middleware did not put one in the request context.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
