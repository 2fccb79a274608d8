package paymentmethod_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasbase/saasbase/core"
	"github.com/saasbase/saasbase/modules/paymentmethod"
	"github.com/saasbase/saasbase/pkg/tenant"
)

// fakeRunner stands in for the tenant resolver: it runs the session
// callback directly and reports which host each request resolved.
type fakeRunner struct {
	mu         sync.Mutex
	hosts      []string
	resolveErr error
}

func (f *fakeRunner) WithSession(ctx context.Context, host string, fn tenant.SessionFunc) error {
	if f.resolveErr != nil {
		return f.resolveErr
	}
	f.mu.Lock()
	f.hosts = append(f.hosts, host)
	f.mu.Unlock()
	return fn(ctx, nil)
}

type fakeStore struct {
	mu      sync.Mutex
	nextID  int32
	methods map[int32]paymentmethod.PaymentMethod
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, methods: make(map[int32]paymentmethod.PaymentMethod)}
}

func (s *fakeStore) ListActive(_ context.Context, _ pgx.Tx) ([]paymentmethod.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []paymentmethod.PaymentMethod
	for _, pm := range s.methods {
		if pm.IsActive {
			out = append(out, pm)
		}
	}
	return out, nil
}

func (s *fakeStore) Get(_ context.Context, _ pgx.Tx, id int32) (*paymentmethod.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pm, ok := s.methods[id]
	if !ok {
		return nil, paymentmethod.ErrNotFound
	}
	return &pm, nil
}

func (s *fakeStore) Create(_ context.Context, _ pgx.Tx, pm *paymentmethod.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pm.ID = s.nextID
	s.nextID++
	pm.CreatedAt = time.Now().UTC()
	pm.UpdatedAt = pm.CreatedAt
	s.methods[pm.ID] = *pm
	return nil
}

func (s *fakeStore) Update(_ context.Context, _ pgx.Tx, pm *paymentmethod.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.methods[pm.ID]; !ok {
		return paymentmethod.ErrNotFound
	}
	pm.UpdatedAt = time.Now().UTC()
	s.methods[pm.ID] = *pm
	return nil
}

func (s *fakeStore) Deactivate(_ context.Context, _ pgx.Tx, id int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pm, ok := s.methods[id]
	if !ok {
		return paymentmethod.ErrNotFound
	}
	pm.IsActive = false
	s.methods[id] = pm
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *fakeRunner, *fakeStore) {
	t.Helper()

	runner := &fakeRunner{}
	store := newFakeStore()
	return paymentmethod.Router(runner, store), runner, store
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Host = "acme.example.com"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_CreateAndList(t *testing.T) {
	t.Parallel()

	router, runner, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/",
		`{"name":"Credit Card","requires_reference":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp core.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Credit Card", data["name"])
	assert.Equal(t, true, data["is_active"])
	assert.Equal(t, true, data["requires_reference"])

	rec = doJSON(t, router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Credit Card")

	assert.Equal(t, []string{"acme.example.com", "acme.example.com"}, runner.hosts,
		"every operation opens a session for the request host")
}

func TestRouter_Create_InvalidName(t *testing.T) {
	t.Parallel()

	router, runner, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/", `{"name":"   "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, runner.hosts, "validation failures never open a session")
}

func TestRouter_GetUpdateDeactivate(t *testing.T) {
	t.Parallel()

	router, _, store := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/", `{"name":"Cash"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/1",
		`{"name":"Cash on Delivery","requires_reference":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cash on Delivery")

	rec = doJSON(t, router, http.MethodDelete, "/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	pm, err := store.Get(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.False(t, pm.IsActive, "delete is soft")

	rec = doJSON(t, router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Cash on Delivery",
		"deactivated methods drop out of the active list")
}

func TestRouter_NotFoundAndBadID(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/banana", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_TenantResolutionErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown tenant", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{resolveErr: tenant.ErrTenantNotFound}
		router := paymentmethod.Router(runner, newFakeStore())

		rec := doJSON(t, router, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing subdomain", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{resolveErr: tenant.ErrMissingSubdomain}
		router := paymentmethod.Router(runner, newFakeStore())

		rec := doJSON(t, router, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
