package tenant

import (
	"errors"
	"net/http"
	"strings"
)

// ErrorHandler maps tenant resolution failures to HTTP responses.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// middlewareConfig holds middleware configuration.
type middlewareConfig struct {
	errorHandler ErrorHandler
	skipPaths    []string
}

// MiddlewareOption configures the middleware.
type MiddlewareOption func(*middlewareConfig)

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution,
// typically health and admin endpoints served on the bare domain.
func WithSkipPaths(paths []string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.skipPaths = paths
	}
}

// Middleware resolves the tenant route for each request from its Host
// header and stores it in the request context. Resolution failures are
// mapped to HTTP status codes by the error handler; each error kind in
// the taxonomy gets a distinct, deterministic status.
func Middleware(resolver *Resolver, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		errorHandler: DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			route, err := resolver.ResolveRoute(r.Context(), r.Host)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			ctx := WithRoute(r.Context(), route)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant ensures a resolved tenant route is present in the context.
// Mount it on routes that must never run without tenant scope.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = DefaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, ok := RouteFromContext(r.Context())
			if !ok || route == nil {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultErrorHandler maps the resolution error taxonomy to plain-text
// HTTP responses: missing subdomain is a client error, unknown tenant is
// not found, everything else is a server error.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrMissingSubdomain):
		http.Error(w, "No tenant subdomain in request host", http.StatusBadRequest)
	case errors.Is(err, ErrTenantNotFound):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	case errors.Is(err, ErrNoTenantInContext):
		http.Error(w, "Tenant required", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
