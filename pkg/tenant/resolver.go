package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/saasbase/saasbase/pkg/logger"
	"github.com/saasbase/saasbase/pkg/subdomain"
)

// DirectoryLookup loads a tenant routing record by subdomain.
// A nil Route with a nil error means no active tenant matches.
type DirectoryLookup interface {
	Lookup(ctx context.Context, subdomain string) (*Route, error)
}

// SessionFunc is the caller's work inside a tenant session. Returning nil
// commits the session; returning an error (or panicking) rolls it back.
type SessionFunc func(ctx context.Context, tx pgx.Tx) error

// Resolver turns a raw request host into a ready-to-use tenant database
// session: extract the subdomain, look the tenant up in the central
// directory, fetch or build the tenant's connection pool, then open a
// transaction-scoped session on it.
type Resolver struct {
	baseDomain string
	directory  DirectoryLookup
	conns      *ConnCache
	routes     RouteCache
	routeTTL   time.Duration
	log        *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithRouteCache caches directory lookups for ttl, sparing the central
// database a query per request. Pass a Redis-backed cache to share routes
// across processes, or the in-memory cache for a single instance.
func WithRouteCache(cache RouteCache, ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if cache != nil && ttl > 0 {
			r.routes = cache
			r.routeTTL = ttl
		}
	}
}

// WithResolverLogger sets the resolver's logger.
func WithResolverLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

func NewResolver(baseDomain string, directory DirectoryLookup, conns *ConnCache, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		baseDomain: baseDomain,
		directory:  directory,
		conns:      conns,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveRoute resolves the tenant route for a request host without
// touching the tenant database. Returns ErrMissingSubdomain when the host
// carries no tenant label and ErrTenantNotFound when no active tenant
// matches it.
func (r *Resolver) ResolveRoute(ctx context.Context, host string) (*Route, error) {
	label, ok := subdomain.Extract(host, r.baseDomain)
	if !ok {
		return nil, fmt.Errorf("%w: host %q", ErrMissingSubdomain, host)
	}

	// A label that can't be a stored subdomain can't match anything;
	// treat it the same as a missing one rather than leaking validity.
	label = subdomain.Normalize(label)
	if !subdomain.Valid(label) {
		return nil, fmt.Errorf("%w: host %q", ErrMissingSubdomain, host)
	}

	if r.routes != nil {
		if route, ok := r.routes.Get(ctx, label); ok {
			return route, nil
		}
	}

	route, err := r.directory.Lookup(ctx, label)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, fmt.Errorf("%w: %q", ErrTenantNotFound, label)
	}

	if r.routes != nil {
		r.routes.Set(ctx, label, route, r.routeTTL)
	}

	return route, nil
}

// Resolve resolves the route and returns the tenant's connection handle,
// building the pool on first access to that tenant.
func (r *Resolver) Resolve(ctx context.Context, host string) (*Handle, *Route, error) {
	route, err := r.ResolveRoute(ctx, host)
	if err != nil {
		return nil, nil, err
	}

	handle, err := r.conns.GetOrCreate(ctx, route.ConnTarget)
	if err != nil {
		r.log.ErrorContext(ctx, "tenant connection acquisition failed",
			logger.Subdomain(route.Subdomain),
			logger.Error(err),
		)
		return nil, nil, err
	}

	return handle, route, nil
}

// WithSession resolves the tenant for host and runs fn inside a
// request-scoped session. The session is committed when fn returns nil,
// rolled back when fn returns an error or panics, and in every case the
// underlying connection goes back to the tenant's pool before WithSession
// returns. Errors from fn pass through unchanged after rollback.
func (r *Resolver) WithSession(ctx context.Context, host string, fn SessionFunc) error {
	handle, route, err := r.Resolve(ctx, host)
	if err != nil {
		return err
	}
	return r.runSession(ctx, handle, route, fn)
}

func (r *Resolver) runSession(ctx context.Context, handle *Handle, route *Route, fn SessionFunc) error {
	tx, err := handle.Begin(ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "failed to open tenant session",
			logger.Subdomain(route.Subdomain),
			logger.Error(err),
		)
		return errors.Join(ErrSessionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.log.ErrorContext(ctx, "tenant session rollback failed",
				logger.Subdomain(route.Subdomain),
				logger.Error(rbErr),
			)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrSessionFailed, err)
	}

	return nil
}
