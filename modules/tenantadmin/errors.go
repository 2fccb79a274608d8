package tenantadmin

import "errors"

var (
	// ErrNotFound is returned when no tenant matches the given identifier.
	// Unlike the public resolution path, the authenticated admin API may
	// distinguish missing tenants from inactive ones.
	ErrNotFound = errors.New("tenant not found")

	// ErrInvalidName is returned when the tenant display name is empty or too long.
	ErrInvalidName = errors.New("invalid tenant name")

	// ErrInvalidSubdomain is returned when the subdomain label fails validation.
	ErrInvalidSubdomain = errors.New("invalid subdomain")

	// ErrReservedSubdomain is returned when the subdomain collides with an
	// infrastructure hostname.
	ErrReservedSubdomain = errors.New("subdomain is reserved")

	// ErrSubdomainTaken is returned when the subdomain already belongs to a tenant.
	ErrSubdomainTaken = errors.New("subdomain already taken")

	// ErrInvalidStatus is returned for unknown lifecycle states on update.
	ErrInvalidStatus = errors.New("invalid tenant status")

	// ErrProvisioningFailed is returned when the tenant database cannot be
	// created or migrated. The central record is not written in that case.
	ErrProvisioningFailed = errors.New("tenant provisioning failed")
)
