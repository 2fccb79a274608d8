package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect establishes the central-database connection pool with retry logic.
// Uses a linearly growing backoff to ride out transient network issues
// without overwhelming the database on service restarts.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MaxIdleConns
	connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = cfg.MaxConnLifetime

	for i := 0; i < cfg.RetryAttempts; i++ {
		conn, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		// Verify with an actual ping to catch authentication and permission issues.
		if err := conn.Ping(ctx); err != nil {
			conn.Close()
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		return conn, nil
	}

	return nil, ErrFailedToOpenDBConnection
}

// ConnectTarget opens a pool against an opaque tenant connection target.
// Unlike Connect it does not retry: tenant pools are created lazily on the
// request path, where the caller surfaces the failure instead of blocking
// the request behind a backoff loop.
func ConnectTarget(ctx context.Context, target string, minConns, maxConns int32) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(target)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MinConns = minConns
	connConfig.MaxConns = maxConns

	conn, err := pgxpool.NewWithConfig(ctx, connConfig)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}

	return conn, nil
}
