package tenantadmin_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasbase/saasbase/core"
	"github.com/saasbase/saasbase/modules/tenantadmin"
	"github.com/saasbase/saasbase/pkg/tenant"
)

func newTestRouter(t *testing.T) (http.Handler, *fakeStorage) {
	t.Helper()

	storage := newFakeStorage()
	svc := tenantadmin.NewService(storage, &fakeProvisioner{}, testTargetFor)
	return tenantadmin.Router(svc), storage
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) core.JSONResponse {
	t.Helper()

	var resp core.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRouter_Create(t *testing.T) {
	t.Parallel()

	t.Run("created", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(`{"name":"Acme Corp","subdomain":"acme"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decodeEnvelope(t, rec)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "acme", data["subdomain"])
		assert.Equal(t, "active", data["status"])
		assert.NotContains(t, rec.Body.String(), "db_url", "connection target must not leak")
	})

	t.Run("reserved subdomain is unprocessable", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(`{"name":"Evil","subdomain":"admin"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "unprocessable_entity", decodeEnvelope(t, rec).Error.Code)
	})

	t.Run("duplicate subdomain conflicts", func(t *testing.T) {
		t.Parallel()

		router, storage := newTestRouter(t)
		storage.put(&tenant.Tenant{ID: uuid.New(), Name: "Acme", Subdomain: "acme", Status: tenant.StatusActive})

		req := httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(`{"name":"Acme Again","subdomain":"acme"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "conflict", decodeEnvelope(t, rec).Error.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_Get(t *testing.T) {
	t.Parallel()

	t.Run("by id", func(t *testing.T) {
		t.Parallel()

		router, storage := newTestRouter(t)
		id := uuid.New()
		storage.put(&tenant.Tenant{ID: id, Name: "Acme", Subdomain: "acme", Status: tenant.StatusActive})

		req := httptest.NewRequest(http.MethodGet, "/"+id.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		data, ok := decodeEnvelope(t, rec).Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, id.String(), data["id"])
	})

	t.Run("by subdomain", func(t *testing.T) {
		t.Parallel()

		router, storage := newTestRouter(t)
		storage.put(&tenant.Tenant{ID: uuid.New(), Name: "Acme", Subdomain: "acme", Status: tenant.StatusActive})

		req := httptest.NewRequest(http.MethodGet, "/subdomain/acme", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		data, ok := decodeEnvelope(t, rec).Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "acme", data["subdomain"])
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decodeEnvelope(t, rec).Error.Code)
	})

	t.Run("non-uuid id is a bad request", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_List(t *testing.T) {
	t.Parallel()

	router, storage := newTestRouter(t)
	storage.put(&tenant.Tenant{ID: uuid.New(), Name: "Acme", Subdomain: "acme", Status: tenant.StatusActive})
	storage.put(&tenant.Tenant{ID: uuid.New(), Name: "Globex", Subdomain: "globex", Status: tenant.StatusPaused})

	req := httptest.NewRequest(http.MethodGet, "/?limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, float64(2), resp.Meta["total"])

	items, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestRouter_Update(t *testing.T) {
	t.Parallel()

	router, storage := newTestRouter(t)
	id := uuid.New()
	storage.put(&tenant.Tenant{ID: id, Name: "Acme", Subdomain: "acme", Status: tenant.StatusActive})

	req := httptest.NewRequest(http.MethodPatch, "/"+id.String(),
		strings.NewReader(`{"status":"paused"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeEnvelope(t, rec).Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "paused", data["status"])
}

func TestRouter_Suspend(t *testing.T) {
	t.Parallel()

	router, storage := newTestRouter(t)
	id := uuid.New()
	storage.put(&tenant.Tenant{ID: id, Name: "Acme", Subdomain: "acme", Status: tenant.StatusActive})

	req := httptest.NewRequest(http.MethodDelete, "/"+id.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)

	stored, err := storage.GetTenant(req.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, tenant.StatusSuspended, stored.Status)
}
