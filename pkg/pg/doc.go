// Package pg provides PostgreSQL connectivity for the central directory
// database and for per-tenant databases, built on the pgx/v5 driver.
//
// Three cooperating pieces:
//
//   - Config / Connect: opens the central *pgxpool.Pool from environment
//     configuration, retrying with growing backoff until the database
//     becomes available.
//
//   - ConnectTarget: opens a pool against an opaque tenant connection
//     target with explicit pool bounds. Tenant pools are created lazily on
//     the request path, so this variant fails fast instead of retrying.
//
//   - Migrate / MigrateTarget: apply goose migrations to the central
//     database at startup and to freshly provisioned tenant databases.
//
// Error helpers (IsNotFoundError, IsDuplicateKeyError, ...) classify
// pgconn errors so business logic never matches on SQLSTATE strings.
package pg
