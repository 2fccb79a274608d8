package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saasbase/saasbase/core"
)

// Router mounts the authentication API. Serve it on the bare domain;
// users live in the central database, not in any tenant database.
func Router(svc *Service) chi.Router {
	h := &handlers{svc: svc}

	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)

	r.Group(func(r chi.Router) {
		r.Use(Middleware(svc))
		r.Get("/me", h.me)
		r.Post("/change-password", h.changePassword)
	})

	return r
}

type handlers struct {
	svc *Service
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := core.DecodeJSON(r, &in); err != nil {
		core.RespondError(w, err)
		return
	}

	u, err := h.svc.Register(r.Context(), in)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusCreated, u)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := core.DecodeJSON(r, &in); err != nil {
		core.RespondError(w, err)
		return
	}

	pair, err := h.svc.Login(r.Context(), in)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := core.DecodeJSON(r, &in); err != nil {
		core.RespondError(w, err)
		return
	}

	pair, err := h.svc.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusOK, pair)
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		core.RespondError(w, core.ErrUnauthorized)
		return
	}

	u, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.RespondJSON(w, http.StatusOK, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *handlers) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		core.RespondError(w, core.ErrUnauthorized)
		return
	}

	var in changePasswordRequest
	if err := core.DecodeJSON(r, &in); err != nil {
		core.RespondError(w, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, in.CurrentPassword, in.NewPassword); err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// mapError translates service errors to transport errors with stable codes.
func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidRefreshToken):
		return core.ErrUnauthorized.WithMessage(err.Error())
	case errors.Is(err, ErrUserInactive):
		return core.ErrForbidden.WithMessage(err.Error())
	case errors.Is(err, ErrUserNotFound):
		return core.ErrNotFound.WithMessage("user not found")
	case errors.Is(err, ErrEmailTaken):
		return core.ErrConflict.WithMessage(err.Error())
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword):
		return core.ErrUnprocessableEntity.WithMessage(err.Error())
	default:
		return core.ErrInternalServerError
	}
}
