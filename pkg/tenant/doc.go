// Package tenant routes requests to isolated per-tenant databases.
//
// Each tenant (customer company) owns a dedicated PostgreSQL database.
// The central database holds the tenant directory: which subdomain maps
// to which connection target and whether the tenant is active. This
// package turns an inbound request's Host header into a request-scoped
// session against the right tenant database.
//
// # Architecture
//
// Four cooperating pieces, composed by dependency injection rather than
// package-level state:
//
//  1. Subdomain extraction (package subdomain) - pure host parsing.
//  2. Directory - one central-database read per unknown subdomain,
//     optionally fronted by a RouteCache (in-memory or Redis).
//  3. ConnCache - lazily built, process-lifetime cache of tenant
//     connection pools, one per connection target, double-checked under
//     a single lock so concurrent first requests build exactly one pool.
//  4. Resolver - orchestrates the above and opens commit-or-rollback
//     sessions via WithSession.
//
// # Usage
//
//	directory := tenant.NewDirectory(centralPool, log)
//	conns := tenant.NewConnCache(tenant.PoolConnector(5, 10))
//	defer conns.Close()
//
//	resolver := tenant.NewResolver("example.com", directory, conns,
//		tenant.WithRouteCache(tenant.NewMemoryRouteCache(), 5*time.Minute),
//	)
//
//	err := resolver.WithSession(ctx, r.Host, func(ctx context.Context, tx pgx.Tx) error {
//		// tx is bound to the tenant's own database
//		return nil
//	})
//
// # Error handling
//
// Resolution failures are disjoint sentinel errors (ErrMissingSubdomain,
// ErrTenantNotFound, ErrConnectionFailed, ErrSessionFailed) checked with
// errors.Is, so the HTTP layer maps each case to a deterministic status
// code. Inactive tenants are reported as not found on purpose: callers
// must not be able to distinguish a suspended tenant from a missing one.
//
// # Known limits
//
// Tenant pools live for the process lifetime. Evict removes a pool when
// a tenant is suspended, but there is no TTL or idle-based eviction;
// a directory with very many active tenants will hold one pool each.
package tenant
