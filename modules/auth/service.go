package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/saasbase/saasbase/pkg/jwt"
	"github.com/saasbase/saasbase/pkg/logger"
)

// MinPasswordLength is the registration password policy.
const MinPasswordLength = 8

// Default token lifetimes. Refresh tokens are long-lived because they
// can only be exchanged, never used to call the API directly.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Token type claims distinguish access from refresh tokens so one can
// never be replayed as the other.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Storage is the central-database persistence surface for user accounts.
type Storage interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	gojwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	TokenType string `json:"type"`
}

// TokenPair is the login and refresh response payload.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginInput is the payload for password authentication.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service implements registration and token-based authentication against
// the central user store.
type Service struct {
	storage    Storage
	access     *jwt.Service
	refresh    *jwt.Service
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        *slog.Logger
}

// ServiceOption configures optional service parameters.
type ServiceOption func(*Service)

// WithTokenTTL overrides the default access and refresh token lifetimes.
func WithTokenTTL(access, refresh time.Duration) ServiceOption {
	return func(s *Service) {
		if access > 0 {
			s.accessTTL = access
		}
		if refresh > 0 {
			s.refreshTTL = refresh
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService builds the auth service. Access and refresh tokens are
// signed with distinct services so the two keys can rotate independently.
func NewService(storage Storage, access, refresh *jwt.Service, opts ...ServiceOption) *Service {
	s := &Service{
		storage:    storage,
		access:     access,
		refresh:    refresh,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new active user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user registered", logger.UserID(u.ID))

	return u, nil
}

// Login verifies the password and issues an access/refresh token pair.
// Wrong email and wrong password produce the same error; inactive users
// are rejected after the password check so account state is only
// revealed to callers who know the credentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*TokenPair, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.storage.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		s.log.WarnContext(ctx, "login attempt for unknown email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		s.log.WarnContext(ctx, "failed login attempt", logger.UserID(u.ID))
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		s.log.WarnContext(ctx, "login attempt for inactive user", logger.UserID(u.ID))
		return nil, ErrUserInactive
	}

	return s.issueTokens(u)
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// user record is reloaded so a deactivation takes effect at the next
// refresh even though outstanding access tokens stay valid until expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var claims Claims
	if err := s.refresh.Parse(refreshToken, &claims); err != nil {
		return nil, errors.Join(ErrInvalidRefreshToken, err)
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.storage.GetUserByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	return s.issueTokens(u)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	u, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		s.log.WarnContext(ctx, "password change with wrong current password", logger.UserID(userID))
		return ErrInvalidCredentials
	}
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.storage.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "password changed", logger.UserID(userID))
	return nil
}

// GetUser returns the account for the given id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.storage.GetUserByID(ctx, id)
}

// VerifyAccessToken parses an access token and returns the user id it
// was issued for. Refresh tokens are rejected here.
func (s *Service) VerifyAccessToken(token string) (uuid.UUID, error) {
	var claims Claims
	if err := s.access.Parse(token, &claims); err != nil {
		return uuid.Nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return uuid.Nil, jwt.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, jwt.ErrInvalidToken
	}
	return id, nil
}

func (s *Service) issueTokens(u *User) (*TokenPair, error) {
	now := time.Now()

	accessToken, err := s.access.Generate(Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.accessTTL)),
		},
		Email:     u.Email,
		TokenType: tokenTypeAccess,
	})
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := s.refresh.Generate(Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
		TokenType: tokenTypeRefresh,
	})
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}
