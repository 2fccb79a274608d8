package tenant

import (
	"context"
	"log/slog"
)

// contextKey prevents collisions with other packages using context values.
type contextKey struct{}

// WithRoute adds a resolved tenant route to the context.
func WithRoute(ctx context.Context, route *Route) context.Context {
	return context.WithValue(ctx, contextKey{}, route)
}

// RouteFromContext retrieves the resolved tenant route from the context.
func RouteFromContext(ctx context.Context) (*Route, bool) {
	route, ok := ctx.Value(contextKey{}).(*Route)
	return route, ok
}

// MustRouteFromContext panics if no route is present. Use only in handlers
// mounted behind RequireTenant.
func MustRouteFromContext(ctx context.Context) *Route {
	route, ok := RouteFromContext(ctx)
	if !ok || route == nil {
		panic("tenant: no tenant route in context")
	}
	return route
}

// LoggerExtractor returns a function that enriches log records with the
// resolved tenant subdomain.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if route, ok := RouteFromContext(ctx); ok && route != nil {
			return slog.String("tenant", route.Subdomain), true
		}
		return slog.Attr{}, false
	}
}
