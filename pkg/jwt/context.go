package jwt

import "context"

type contextKey int

const (
	tokenKey contextKey = iota
	claimsKey
)

// SetToken stores the raw token string in the context.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetToken retrieves the raw token string from the context.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

// SetClaims stores parsed claims in the context.
func SetClaims(ctx context.Context, claims map[string]any) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims retrieves parsed claims from the context.
func GetClaims(ctx context.Context) (map[string]any, bool) {
	claims, ok := ctx.Value(claimsKey).(map[string]any)
	return claims, ok
}
