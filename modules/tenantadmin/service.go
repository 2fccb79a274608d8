package tenantadmin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saasbase/saasbase/pkg/logger"
	"github.com/saasbase/saasbase/pkg/subdomain"
	"github.com/saasbase/saasbase/pkg/tenant"
)

// MaxNameLength bounds the tenant display name, matching the column width.
const MaxNameLength = 255

// Storage is the central-database persistence surface for tenant records.
type Storage interface {
	CreateTenant(ctx context.Context, t *tenant.Tenant) error
	GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	GetTenantBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error)
	ListTenants(ctx context.Context, limit, offset int) ([]tenant.Tenant, int, error)
	UpdateTenant(ctx context.Context, t *tenant.Tenant) error
}

// Provisioner creates and prepares a tenant's physical database.
type Provisioner interface {
	// CreateDatabase creates the named database on the tenant cluster.
	CreateDatabase(ctx context.Context, dbName string) error
	// MigrateDatabase brings a freshly created database to the current
	// tenant schema.
	MigrateDatabase(ctx context.Context, connTarget string) error
}

// PoolEvictor revokes a tenant's cached connection pool. Satisfied by
// *tenant.ConnCache.
type PoolEvictor interface {
	Evict(target string) bool
}

// CreateTenantInput is the payload for provisioning a new tenant.
type CreateTenantInput struct {
	Name        string     `json:"name"`
	Subdomain   string     `json:"subdomain"`
	AdminUserID *uuid.UUID `json:"admin_user_id,omitempty"`
}

// UpdateTenantInput carries optional fields for a partial update.
type UpdateTenantInput struct {
	Name   *string        `json:"name,omitempty"`
	Status *tenant.Status `json:"status,omitempty"`
}

// Service manages the tenant directory: provisioning, listing, lifecycle
// transitions and the cache invalidation those transitions require.
type Service struct {
	storage     Storage
	provisioner Provisioner
	targetFor   func(dbName string) string
	routes      tenant.RouteCache
	pools       PoolEvictor
	log         *slog.Logger
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*Service)

// WithRouteCache lets lifecycle transitions invalidate cached routes.
func WithRouteCache(routes tenant.RouteCache) ServiceOption {
	return func(s *Service) { s.routes = routes }
}

// WithPoolEvictor lets suspension revoke the tenant's connection pool.
func WithPoolEvictor(pools PoolEvictor) ServiceOption {
	return func(s *Service) { s.pools = pools }
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService builds the tenant management service. targetFor maps a
// database name to the full connection target stored in the directory.
func NewService(storage Storage, provisioner Provisioner, targetFor func(dbName string) string, opts ...ServiceOption) *Service {
	s := &Service{
		storage:     storage,
		provisioner: provisioner,
		targetFor:   targetFor,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create provisions a new tenant: validates the subdomain, creates the
// dedicated database, migrates it to the current schema and registers
// the directory record as active.
func (s *Service) Create(ctx context.Context, in CreateTenantInput) (*tenant.Tenant, error) {
	if in.Name == "" || len(in.Name) > MaxNameLength {
		return nil, ErrInvalidName
	}

	label := subdomain.Normalize(in.Subdomain)
	if !subdomain.Valid(label) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSubdomain, in.Subdomain)
	}
	if subdomain.Reserved(label) {
		return nil, fmt.Errorf("%w: %q", ErrReservedSubdomain, label)
	}

	if existing, err := s.storage.GetTenantBySubdomain(ctx, label); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrSubdomainTaken, label)
	}

	dbName := "tenant_" + label
	if err := s.provisioner.CreateDatabase(ctx, dbName); err != nil {
		s.log.ErrorContext(ctx, "failed to create tenant database",
			logger.Subdomain(label),
			logger.Error(err),
		)
		return nil, errors.Join(ErrProvisioningFailed, err)
	}

	connTarget := s.targetFor(dbName)
	if err := s.provisioner.MigrateDatabase(ctx, connTarget); err != nil {
		s.log.ErrorContext(ctx, "failed to migrate tenant database",
			logger.Subdomain(label),
			logger.Error(err),
		)
		return nil, errors.Join(ErrProvisioningFailed, err)
	}

	t := &tenant.Tenant{
		ID:          uuid.New(),
		Name:        in.Name,
		Subdomain:   label,
		DBName:      dbName,
		ConnTarget:  connTarget,
		Status:      tenant.StatusActive,
		CreatedAt:   time.Now().UTC(),
		AdminUserID: in.AdminUserID,
	}

	if err := s.storage.CreateTenant(ctx, t); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "tenant created",
		logger.TenantID(t.ID),
		logger.Subdomain(t.Subdomain),
	)

	return t, nil
}

// Get returns a tenant by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.storage.GetTenant(ctx, id)
}

// GetBySubdomain returns a tenant by its subdomain label.
func (s *Service) GetBySubdomain(ctx context.Context, label string) (*tenant.Tenant, error) {
	return s.storage.GetTenantBySubdomain(ctx, subdomain.Normalize(label))
}

// List returns a page of tenants plus the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]tenant.Tenant, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.storage.ListTenants(ctx, limit, offset)
}

// Update applies a partial update. Any change invalidates the cached
// route; moving out of the active state additionally revokes the
// tenant's connection pool.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateTenantInput) (*tenant.Tenant, error) {
	t, err := s.storage.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" || len(*in.Name) > MaxNameLength {
			return nil, ErrInvalidName
		}
		t.Name = *in.Name
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *in.Status)
		}
		t.Status = *in.Status
	}

	if err := s.storage.UpdateTenant(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, t)

	s.log.InfoContext(ctx, "tenant updated",
		logger.TenantID(t.ID),
		logger.Status(string(t.Status)),
	)

	return t, nil
}

// Suspend soft-deletes a tenant: the directory record moves to suspended
// and the cached pool is revoked, but the tenant database and its data
// stay untouched.
func (s *Service) Suspend(ctx context.Context, id uuid.UUID) error {
	t, err := s.storage.GetTenant(ctx, id)
	if err != nil {
		return err
	}

	t.Status = tenant.StatusSuspended
	if err := s.storage.UpdateTenant(ctx, t); err != nil {
		return err
	}

	s.invalidate(ctx, t)

	s.log.WarnContext(ctx, "tenant suspended",
		logger.TenantID(t.ID),
		logger.Subdomain(t.Subdomain),
	)

	return nil
}

func (s *Service) invalidate(ctx context.Context, t *tenant.Tenant) {
	if s.routes != nil {
		s.routes.Delete(ctx, t.Subdomain)
	}
	if s.pools != nil && t.Status != tenant.StatusActive {
		s.pools.Evict(t.ConnTarget)
	}
}
