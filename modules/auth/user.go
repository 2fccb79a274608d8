package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an account in the central database. Users exist outside any
// tenant database so they can authenticate before tenant resolution.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
