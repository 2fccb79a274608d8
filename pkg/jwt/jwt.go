package jwt

import (
	"errors"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Service signs and verifies HS256 tokens with a single symmetric key.
// Run separate services for access and refresh tokens so a leaked access
// key cannot mint refresh tokens.
type Service struct {
	signingKey []byte
}

// New creates a JWT service with the provided signing key.
// The key should be at least 32 bytes for adequate security with HMAC-SHA256.
func New(signingKey []byte) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &Service{signingKey: signingKey}, nil
}

// NewFromString creates a JWT service from a string signing key.
func NewFromString(signingKey string) (*Service, error) {
	if signingKey == "" {
		return nil, ErrMissingSigningKey
	}
	return &Service{signingKey: []byte(signingKey)}, nil
}

// Generate signs the given claims and returns the compact token string.
func (s *Service) Generate(claims gojwt.Claims) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Parse verifies the token signature, rejects non-HS256 algorithms and
// unmarshals the claims into the provided structure. Temporal claims are
// validated against the current time.
func (s *Service) Parse(tokenString string, claims gojwt.Claims) error {
	_, err := gojwt.ParseWithClaims(tokenString, claims,
		func(*gojwt.Token) (any, error) { return s.signingKey, nil },
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
	)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gojwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid), errors.Is(err, gojwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
