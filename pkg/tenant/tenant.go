package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tenant. Tenants are created active
// and may be paused or suspended later. Suspension is soft: the tenant's
// database is never dropped.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusSuspended Status = "suspended"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusSuspended:
		return true
	}
	return false
}

// Tenant is the full directory record stored in the central database.
// ConnTarget is sensitive: it carries credentials for the tenant database
// and must never be rendered in API responses.
type Tenant struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Subdomain   string     `json:"subdomain"`
	DBName      string     `json:"db_name"`
	ConnTarget  string     `json:"-"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	AdminUserID *uuid.UUID `json:"admin_user_id,omitempty"`
}

// Route is the minimal routing record the resolver needs: where the
// tenant's database lives and what to call the tenant in logs and UI.
// Routes only ever describe active tenants.
type Route struct {
	Subdomain  string `json:"subdomain"`
	Name       string `json:"name"`
	ConnTarget string `json:"conn_target"`
}
