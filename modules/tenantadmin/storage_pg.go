package tenantadmin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saasbase/saasbase/pkg/pg"
	"github.com/saasbase/saasbase/pkg/tenant"
)

// DB is the slice of the central pool the storage layer needs.
// *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgStorage persists tenant records in the central database.
type pgStorage struct {
	db DB
}

// NewStorage creates the pgx-backed tenant storage.
func NewStorage(db DB) Storage {
	return &pgStorage{db: db}
}

const tenantColumns = `id, name, subdomain, db_name, db_url, created_at, status, admin_user_id`

func (s *pgStorage) CreateTenant(ctx context.Context, t *tenant.Tenant) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO tenants (`+tenantColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Name, t.Subdomain, t.DBName, t.ConnTarget, t.CreatedAt, t.Status, t.AdminUserID,
	)
	if pg.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %q", ErrSubdomainTaken, t.Subdomain)
	}
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (s *pgStorage) GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
}

func (s *pgStorage) GetTenantBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE subdomain = $1`, subdomain))
}

func (s *pgStorage) ListTenants(ctx context.Context, limit, offset int) ([]tenant.Tenant, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM tenants`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tenants: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		var t tenant.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Subdomain, &t.DBName, &t.ConnTarget,
			&t.CreatedAt, &t.Status, &t.AdminUserID); err != nil {
			return nil, 0, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}

	return tenants, total, nil
}

func (s *pgStorage) UpdateTenant(ctx context.Context, t *tenant.Tenant) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenants SET name = $2, status = $3, admin_user_id = $4 WHERE id = $1`,
		t.ID, t.Name, t.Status, t.AdminUserID,
	)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStorage) scanOne(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Subdomain, &t.DBName, &t.ConnTarget,
		&t.CreatedAt, &t.Status, &t.AdminUserID)
	if pg.IsNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	return &t, nil
}
