package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/condo-admin/auth"
	"github.com/diewo77/condo-admin/httpx"
	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/logging"
	"github.com/diewo77/condo-admin/internal/session"
	"github.com/diewo77/condo-admin/validation"
)

// Sessions is what the auth pages need from the session provider.
type Sessions interface {
	SessionEnder
	Login(ctx context.Context, email, password string) (*session.State, error)
}

type AuthHandler struct {
	sessions Sessions
}

func NewAuthHandler(sessions Sessions) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, "login.html", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := bind(r, &creds, func() {
		creds.Email = r.FormValue("email")
		creds.Password = r.FormValue("password")
	}); err != nil {
		badRequest(w, r, err)
		return
	}
	form := map[string]any{"Email": creds.Email}

	if v := validation.Struct(creds); !v.Empty() {
		invalid(w, r, "login.html", form, v)
		return
	}

	st, err := h.sessions.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		status, code, msg := loginFailure(r, err)
		if auth.WantsJSON(r) {
			httpx.JSONError(w, status, code, msg)
			return
		}
		form["Error"] = msg
		render(w, r, status, "login.html", form)
		return
	}

	if prev, ok := auth.SessionIDFromContext(r.Context()); ok && prev != st.ID {
		if err := h.sessions.Logout(r.Context(), prev); err != nil {
			logging.Logger.WithError(err).Warn("dropping previous session")
		}
	}
	auth.CreateSession(w, st.ID, st.ExpiresAt)
	if auth.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"user": st.User, "expires_at": st.ExpiresAt})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func loginFailure(r *http.Request, err error) (status int, code, msg string) {
	var statusErr *session.StatusError
	var apiErr *api.Error
	switch {
	case errors.Is(err, session.ErrAccessDenied):
		return http.StatusForbidden, "access_denied", tr(r, "login.access_denied")
	case errors.As(err, &statusErr):
		return http.StatusForbidden, "account_status",
			tr(r, "login.account_status") + " (" + tr(r, "status."+string(statusErr.Status)) + ")"
	case errors.As(err, &apiErr) && apiErr.Status < 500:
		return http.StatusUnauthorized, "invalid_credentials", apiErr.Message
	default:
		return http.StatusBadGateway, "backend_error", tr(r, "error.generic")
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.SessionIDFromContext(r.Context()); ok {
		_ = h.sessions.Logout(r.Context(), id)
	}
	auth.ClearSession(w)
	if auth.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
