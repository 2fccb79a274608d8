package paymentmethod

import (
	"errors"
	"time"
)

// PaymentMethod is a payment option configured per tenant. Rows live in
// each tenant's own database, never in the central one.
type PaymentMethod struct {
	ID                int32     `json:"id_payment_method"`
	Name              string    `json:"name"`
	Description       *string   `json:"description,omitempty"`
	IsActive          bool      `json:"is_active"`
	RequiresReference bool      `json:"requires_reference"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// MaxNameLength matches the name column width.
const MaxNameLength = 100

var (
	// ErrNotFound is returned when no payment method matches the id.
	ErrNotFound = errors.New("payment method not found")

	// ErrInvalidName is returned when the name is empty or too long.
	ErrInvalidName = errors.New("invalid payment method name")
)
