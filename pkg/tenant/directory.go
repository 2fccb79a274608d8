package tenant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/saasbase/saasbase/pkg/logger"
	"github.com/saasbase/saasbase/pkg/pg"
)

// RowQuerier is the slice of the central database pool the directory
// needs. *pgxpool.Pool satisfies it; QueryRow acquires a connection for
// the duration of the query only, so the central database is never held
// across the lifetime of a tenant request.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Directory looks up tenant routing records in the central database.
type Directory struct {
	db  RowQuerier
	log *slog.Logger
}

func NewDirectory(db RowQuerier, log *slog.Logger) *Directory {
	if log == nil {
		log = slog.Default()
	}
	return &Directory{db: db, log: log}
}

// Lookup returns the routing record for subdomain, or nil when no active
// tenant matches. The match is case-sensitive against the stored,
// already-lowercased label. A tenant that exists but is paused or
// suspended yields nil exactly like a missing one; only the warning log
// distinguishes the two.
func (d *Directory) Lookup(ctx context.Context, subdomain string) (*Route, error) {
	var (
		route  Route
		status Status
	)

	err := d.db.QueryRow(ctx,
		`SELECT db_url, status, name FROM tenants WHERE subdomain = $1`,
		subdomain,
	).Scan(&route.ConnTarget, &status, &route.Name)
	if pg.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tenant directory lookup %q: %w", subdomain, err)
	}

	if status != StatusActive {
		d.log.WarnContext(ctx, "request for inactive tenant",
			logger.Subdomain(subdomain),
			logger.Status(string(status)),
		)
		return nil, nil
	}

	route.Subdomain = subdomain
	return &route, nil
}
