package tenantadmin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/saasbase/saasbase/pkg/pg"
)

// pgProvisioner creates tenant databases on the shared cluster and
// migrates them to the current tenant schema.
type pgProvisioner struct {
	db             DB
	migrationsPath string
	log            *slog.Logger
}

// NewProvisioner builds the pgx-backed provisioner. The supplied pool
// must connect with a role allowed to create databases.
func NewProvisioner(db DB, migrationsPath string, log *slog.Logger) Provisioner {
	if log == nil {
		log = slog.Default()
	}
	return &pgProvisioner{db: db, migrationsPath: migrationsPath, log: log}
}

func (p *pgProvisioner) CreateDatabase(ctx context.Context, dbName string) error {
	// CREATE DATABASE cannot be parameterized; the identifier is derived
	// from an already validated subdomain and sanitized on top.
	stmt := "CREATE DATABASE " + pgx.Identifier{dbName}.Sanitize()
	if _, err := p.db.Exec(ctx, stmt); err != nil {
		if pg.IsDuplicateDatabaseError(err) {
			return fmt.Errorf("database %q already exists: %w", dbName, err)
		}
		return fmt.Errorf("create database %q: %w", dbName, err)
	}

	p.log.InfoContext(ctx, "tenant database created", slog.String("database", dbName))
	return nil
}

func (p *pgProvisioner) MigrateDatabase(ctx context.Context, connTarget string) error {
	// A short-lived two-connection pool is enough to run migrations; the
	// request path builds its own properly sized pool on first access.
	pool, err := pg.ConnectTarget(ctx, connTarget, 1, 2)
	if err != nil {
		return fmt.Errorf("connect for migration: %w", err)
	}
	defer pool.Close()

	if err := pg.MigrateTarget(ctx, pool, p.migrationsPath, p.log); err != nil {
		return err
	}

	return nil
}
