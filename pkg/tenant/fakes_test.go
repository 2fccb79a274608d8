package tenant_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saasbase/saasbase/pkg/tenant"
)

// fakePool satisfies tenant.Pool and records lifecycle calls.
type fakePool struct {
	target string

	mu       sync.Mutex
	closed   bool
	beginErr error
	sessions []*fakeTx
}

func (p *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.beginErr != nil {
		return nil, p.beginErr
	}
	tx := &fakeTx{}
	p.sessions = append(p.sessions, tx)
	return tx, nil
}

func (p *fakePool) Ping(ctx context.Context) error { return nil }

func (p *fakePool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *fakePool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// fakeTx satisfies pgx.Tx for session lifecycle assertions. Query methods
// are never exercised by the resolver itself and panic if reached.
type fakeTx struct {
	mu         sync.Mutex
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.committed || t.rolledBack {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (t *fakeTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (t *fakeTx) Conn() *pgx.Conn { panic("not implemented") }

// countingConnector returns a ConnectFunc that counts constructions and
// hands out fakePool instances.
type countingConnector struct {
	constructed atomic.Int64
	err         error

	mu    sync.Mutex
	pools map[string]*fakePool
}

func newCountingConnector() *countingConnector {
	return &countingConnector{pools: make(map[string]*fakePool)}
}

func (c *countingConnector) connect(ctx context.Context, target string) (tenant.Pool, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.constructed.Add(1)
	pool := &fakePool{target: target}
	c.mu.Lock()
	c.pools[target] = pool
	c.mu.Unlock()
	return pool, nil
}

func (c *countingConnector) pool(target string) *fakePool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pools[target]
}

// fakeDirectory serves routes from a map, mimicking the central database.
type fakeDirectory struct {
	mu      sync.Mutex
	routes  map[string]*tenant.Route
	err     error
	lookups int
}

func newFakeDirectory(routes map[string]*tenant.Route) *fakeDirectory {
	if routes == nil {
		routes = make(map[string]*tenant.Route)
	}
	return &fakeDirectory{routes: routes}
}

func (d *fakeDirectory) Lookup(ctx context.Context, subdomain string) (*tenant.Route, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups++
	if d.err != nil {
		return nil, d.err
	}
	return d.routes[subdomain], nil
}

func (d *fakeDirectory) lookupCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lookups
}
