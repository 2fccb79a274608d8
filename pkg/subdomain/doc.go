// Package subdomain parses tenant identifiers out of HTTP Host headers
// and validates tenant subdomain labels.
//
// The package is pure string manipulation with no I/O, which keeps the
// hot per-request extraction path allocation-free and trivially testable.
//
// # Usage
//
//	label, ok := subdomain.Extract(r.Host, "example.com")
//	if !ok {
//		// request hit the bare domain, no tenant
//	}
//
// Validation helpers (Normalize, Valid, Reserved) back the tenant
// provisioning flow: labels are stored lowercase, must match
// [a-z0-9]+(-[a-z0-9]+)* and must not collide with infrastructure
// hostnames such as "www" or "api".
package subdomain
