package tenantadmin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saasbase/saasbase/core"
)

// Router mounts the tenant management API. Serve it on the bare domain
// (behind authentication), never under a tenant subdomain.
func Router(svc *Service) chi.Router {
	h := &handlers{svc: svc}

	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/subdomain/{subdomain}", h.getBySubdomain)
	r.Get("/{tenantID}", h.get)
	r.Patch("/{tenantID}", h.update)
	r.Delete("/{tenantID}", h.suspend)
	return r
}

type handlers struct {
	svc *Service
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	var in CreateTenantInput
	if err := core.DecodeJSON(r, &in); err != nil {
		core.RespondError(w, err)
		return
	}

	t, err := h.svc.Create(r.Context(), in)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusCreated, t)
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	tenants, total, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSONMeta(w, http.StatusOK, tenants, map[string]any{"total": total})
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		core.RespondError(w, core.ErrBadRequest.WithMessage("invalid tenant id"))
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusOK, t)
}

func (h *handlers) getBySubdomain(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetBySubdomain(r.Context(), chi.URLParam(r, "subdomain"))
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusOK, t)
}

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		core.RespondError(w, core.ErrBadRequest.WithMessage("invalid tenant id"))
		return
	}

	var in UpdateTenantInput
	if err := core.DecodeJSON(r, &in); err != nil {
		core.RespondError(w, err)
		return
	}

	t, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusOK, t)
}

func (h *handlers) suspend(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		core.RespondError(w, core.ErrBadRequest.WithMessage("invalid tenant id"))
		return
	}

	if err := h.svc.Suspend(r.Context(), id); err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// mapError translates service errors to transport errors with stable codes.
func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return core.ErrNotFound.WithMessage("tenant not found")
	case errors.Is(err, ErrSubdomainTaken):
		return core.ErrConflict.WithMessage("subdomain already taken")
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidSubdomain),
		errors.Is(err, ErrReservedSubdomain),
		errors.Is(err, ErrInvalidStatus):
		return core.ErrUnprocessableEntity.WithMessage(err.Error())
	default:
		return core.ErrInternalServerError
	}
}
