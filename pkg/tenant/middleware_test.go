package tenant_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasbase/saasbase/pkg/tenant"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	acme := &tenant.Route{Subdomain: "acme", Name: "Acme Inc", ConnTarget: "postgres://db/tenant_acme"}

	newRequest := func(host string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "http://"+host+"/payment-methods", nil)
		req.Host = host
		return req
	}

	t.Run("injects route into context", func(t *testing.T) {
		t.Parallel()

		resolver, _, _ := newTestResolver(map[string]*tenant.Route{"acme": acme})
		mw := tenant.Middleware(resolver)

		var seen *tenant.Route
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = tenant.RouteFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("acme.localhost:8000"))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "acme", seen.Subdomain)
	})

	t.Run("missing subdomain maps to 400", func(t *testing.T) {
		t.Parallel()

		resolver, _, _ := newTestResolver(nil)
		mw := tenant.Middleware(resolver)

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("localhost:8000"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown tenant maps to 404", func(t *testing.T) {
		t.Parallel()

		resolver, _, _ := newTestResolver(map[string]*tenant.Route{"acme": acme})
		mw := tenant.Middleware(resolver)

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("ghost.localhost:8000"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("skip paths bypass resolution", func(t *testing.T) {
		t.Parallel()

		resolver, directory, _ := newTestResolver(nil)
		mw := tenant.Middleware(resolver, tenant.WithSkipPaths([]string{"/health"}))

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "http://localhost:8000/health", nil)
		req.Host = "localhost:8000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, directory.lookupCount())
	})

	t.Run("custom error handler is used", func(t *testing.T) {
		t.Parallel()

		resolver, _, _ := newTestResolver(nil)
		mw := tenant.Middleware(resolver, tenant.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			w.WriteHeader(http.StatusTeapot)
		}))

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("ghost.localhost:8000"))

		assert.Equal(t, http.StatusTeapot, rec.Code)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	t.Run("passes with route in context", func(t *testing.T) {
		t.Parallel()

		mw := tenant.RequireTenant(nil)
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "http://acme.localhost/", nil)
		req = req.WithContext(tenant.WithRoute(req.Context(), &tenant.Route{Subdomain: "acme"}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects without route", func(t *testing.T) {
		t.Parallel()

		mw := tenant.RequireTenant(nil)
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://localhost/", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
