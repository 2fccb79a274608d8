// Package jwt wraps HS256 token signing and verification behind a small
// service type, plus HTTP middleware for bearer-token authentication.
//
// Create one service per signing key:
//
//	access, err := jwt.NewFromString(cfg.AccessSecret)
//	if err != nil {
//		return err
//	}
//
//	token, err := access.Generate(claims)
//
// Verification unmarshals into any jwt.Claims implementation and maps
// library errors to the package sentinels:
//
//	var claims MyClaims
//	if err := access.Parse(token, &claims); err != nil {
//		// errors.Is(err, jwt.ErrExpiredToken) etc.
//	}
//
// The middleware extracts a bearer token, verifies it and stores the raw
// token and its claims in the request context:
//
//	r.Use(jwt.Middleware(access))
package jwt
