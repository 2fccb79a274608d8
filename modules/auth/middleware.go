package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/saasbase/saasbase/core"
	"github.com/saasbase/saasbase/pkg/jwt"
)

type userIDKey struct{}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFromContext extracts the authenticated user id set by Middleware.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return id, ok
}

// Middleware verifies the bearer access token and stores the user id in
// the request context. Requests without a valid access token get 401.
func Middleware(svc *Service) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := jwt.BearerTokenExtractor(r)
			if err != nil {
				core.RespondError(w, core.ErrUnauthorized)
				return
			}

			userID, err := svc.VerifyAccessToken(token)
			if err != nil {
				core.RespondError(w, core.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
