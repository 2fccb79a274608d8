package auth

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the identifier.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned on registration with an already used email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidEmail is returned when the email address cannot be parsed.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned when the password fails the length policy.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidCredentials is returned on login with a wrong email or
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserInactive is returned when a deactivated user tries to
	// authenticate or refresh.
	ErrUserInactive = errors.New("user account is inactive")

	// ErrInvalidRefreshToken is returned when the refresh token is
	// expired, tampered with, or carries the wrong token type.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
