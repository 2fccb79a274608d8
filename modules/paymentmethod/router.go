package paymentmethod

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/saasbase/saasbase/core"
	"github.com/saasbase/saasbase/pkg/tenant"
)

// SessionRunner opens a tenant database session for a request host and
// runs a function inside it. Satisfied by *tenant.Resolver.
type SessionRunner interface {
	WithSession(ctx context.Context, host string, fn tenant.SessionFunc) error
}

// Router mounts the payment method API. Mount it behind the tenant
// middleware; every handler opens a session against the database of the
// tenant the request host resolves to.
func Router(sessions SessionRunner, store Store) chi.Router {
	h := &handlers{sessions: sessions, store: store}

	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{paymentMethodID}", h.get)
	r.Patch("/{paymentMethodID}", h.update)
	r.Delete("/{paymentMethodID}", h.deactivate)
	return r
}

type handlers struct {
	sessions SessionRunner
	store    Store
}

// CreateInput is the payload for adding a payment method.
type CreateInput struct {
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	RequiresReference bool    `json:"requires_reference"`
}

// UpdateInput carries optional fields for a partial update.
type UpdateInput struct {
	Name              *string `json:"name,omitempty"`
	Description       *string `json:"description,omitempty"`
	IsActive          *bool   `json:"is_active,omitempty"`
	RequiresReference *bool   `json:"requires_reference,omitempty"`
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	var methods []PaymentMethod
	err := h.sessions.WithSession(r.Context(), r.Host, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		methods, err = h.store.ListActive(ctx, tx)
		return err
	})
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusOK, methods)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentMethodID(w, r)
	if !ok {
		return
	}

	var pm *PaymentMethod
	err := h.sessions.WithSession(r.Context(), r.Host, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		pm, err = h.store.Get(ctx, tx, id)
		return err
	})
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusOK, pm)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := core.DecodeJSON(r, &in); err != nil {
		core.RespondError(w, err)
		return
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.Name) > MaxNameLength {
		core.RespondError(w, core.ErrUnprocessableEntity.WithMessage(ErrInvalidName.Error()))
		return
	}

	pm := &PaymentMethod{
		Name:              in.Name,
		Description:       in.Description,
		IsActive:          true,
		RequiresReference: in.RequiresReference,
	}
	err := h.sessions.WithSession(r.Context(), r.Host, func(ctx context.Context, tx pgx.Tx) error {
		return h.store.Create(ctx, tx, pm)
	})
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusCreated, pm)
}

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentMethodID(w, r)
	if !ok {
		return
	}

	var in UpdateInput
	if err := core.DecodeJSON(r, &in); err != nil {
		core.RespondError(w, err)
		return
	}

	var pm *PaymentMethod
	err := h.sessions.WithSession(r.Context(), r.Host, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		pm, err = h.store.Get(ctx, tx, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" || len(name) > MaxNameLength {
				return ErrInvalidName
			}
			pm.Name = name
		}
		if in.Description != nil {
			pm.Description = in.Description
		}
		if in.IsActive != nil {
			pm.IsActive = *in.IsActive
		}
		if in.RequiresReference != nil {
			pm.RequiresReference = *in.RequiresReference
		}

		return h.store.Update(ctx, tx, pm)
	})
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusOK, pm)
}

func (h *handlers) deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentMethodID(w, r)
	if !ok {
		return
	}

	err := h.sessions.WithSession(r.Context(), r.Host, func(ctx context.Context, tx pgx.Tx) error {
		return h.store.Deactivate(ctx, tx, id)
	})
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func paymentMethodID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "paymentMethodID"), 10, 32)
	if err != nil || id <= 0 {
		core.RespondError(w, core.ErrBadRequest.WithMessage("invalid payment method id"))
		return 0, false
	}
	return int32(id), true
}

// mapError translates store and resolution errors to transport errors.
// Tenant resolution failures keep the same status codes the middleware
// uses so a client sees one behavior for the whole subdomain.
func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return core.ErrNotFound.WithMessage(ErrNotFound.Error())
	case errors.Is(err, ErrInvalidName):
		return core.ErrUnprocessableEntity.WithMessage(ErrInvalidName.Error())
	case errors.Is(err, tenant.ErrMissingSubdomain):
		return core.ErrBadRequest.WithMessage(tenant.ErrMissingSubdomain.Error())
	case errors.Is(err, tenant.ErrTenantNotFound):
		return core.ErrNotFound.WithMessage(tenant.ErrTenantNotFound.Error())
	default:
		return core.ErrInternalServerError
	}
}
