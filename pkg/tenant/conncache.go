package tenant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/saasbase/saasbase/pkg/pg"
)

// Default pool sizing for tenant databases: a small warm baseline plus
// bounded overflow for bursts.
const (
	DefaultPoolSize     int32 = 5
	DefaultPoolOverflow int32 = 10
)

// Pool is the subset of *pgxpool.Pool a tenant connection handle owns.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// ConnectFunc builds a connection pool for an opaque connection target.
// Injected so tests can count constructions and substitute fakes.
type ConnectFunc func(ctx context.Context, target string) (Pool, error)

// PoolConnector returns the production ConnectFunc, opening pgx pools
// with the given baseline and overflow bounds.
func PoolConnector(size, overflow int32) ConnectFunc {
	if size <= 0 {
		size = DefaultPoolSize
	}
	if overflow < 0 {
		overflow = DefaultPoolOverflow
	}
	return func(ctx context.Context, target string) (Pool, error) {
		pool, err := pg.ConnectTarget(ctx, target, size, size+overflow)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}
}

// Handle owns a tenant's connection pool and opens sessions against it.
type Handle struct {
	target string
	pool   Pool
}

// Begin opens a request-scoped session (transaction) from the handle's pool.
func (h *Handle) Begin(ctx context.Context) (pgx.Tx, error) {
	return h.pool.Begin(ctx)
}

// Ping verifies the underlying pool is reachable.
func (h *Handle) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

func (h *Handle) close() {
	h.pool.Close()
}

// ConnCache is a process-lifetime cache of tenant connection handles,
// keyed by connection target. Handles are built lazily on first access
// and reused for every subsequent request to the same tenant.
//
// A single mutex guards the check-create sequence. Creation is rare (one
// per distinct tenant) while lookups are frequent, so reads take the
// shared lock and never block each other; the exclusive lock is only
// held while constructing a missing pool.
//
// The cache is an explicitly owned component: construct it in main,
// pass it to the resolver, and Close it at shutdown.
type ConnCache struct {
	mu      sync.RWMutex
	handles map[string]*Handle
	connect ConnectFunc
	log     *slog.Logger
}

// ConnCacheOption configures a ConnCache.
type ConnCacheOption func(*ConnCache)

// WithConnCacheLogger sets the logger used for pool lifecycle events.
func WithConnCacheLogger(log *slog.Logger) ConnCacheOption {
	return func(c *ConnCache) {
		if log != nil {
			c.log = log
		}
	}
}

func NewConnCache(connect ConnectFunc, opts ...ConnCacheOption) *ConnCache {
	c := &ConnCache{
		handles: make(map[string]*Handle),
		connect: connect,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCreate returns the handle for target, constructing its pool on
// first access. For any given target at most one pool is ever built,
// even under concurrent first-time requests: the existence check is
// repeated under the exclusive lock before construction.
func (c *ConnCache) GetOrCreate(ctx context.Context, target string) (*Handle, error) {
	c.mu.RLock()
	h, ok := c.handles[target]
	c.mu.RUnlock()
	if ok {
		return h, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have built the handle while we waited for the lock.
	if h, ok := c.handles[target]; ok {
		return h, nil
	}

	pool, err := c.connect(ctx, target)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	h = &Handle{target: target, pool: pool}
	c.handles[target] = h

	c.log.InfoContext(ctx, "tenant connection pool created",
		slog.String("database", redactTarget(target)),
		slog.Int("cached_pools", len(c.handles)),
	)

	return h, nil
}

// Evict closes and removes the handle for target, if present. Called on
// tenant suspension or deletion so a revoked tenant's pool does not
// outlive its directory record.
func (c *ConnCache) Evict(target string) bool {
	c.mu.Lock()
	h, ok := c.handles[target]
	if ok {
		delete(c.handles, target)
	}
	c.mu.Unlock()

	if ok {
		h.close()
	}
	return ok
}

// Len returns the number of cached handles.
func (c *ConnCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}

// Close closes every cached pool. Call once at process shutdown.
func (c *ConnCache) Close() {
	c.mu.Lock()
	handles := c.handles
	c.handles = make(map[string]*Handle)
	c.mu.Unlock()

	for _, h := range handles {
		h.close()
	}
}

// redactTarget reduces a connection target to its trailing database name
// so credentials embedded in the URL never reach the logs.
func redactTarget(target string) string {
	if idx := strings.LastIndex(target, "/"); idx != -1 && idx+1 < len(target) {
		return target[idx+1:]
	}
	return "unknown"
}
