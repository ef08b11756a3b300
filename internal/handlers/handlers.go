// Package handlers serves the panel's pages. Every page answers HTML, or JSON
// when the client asks for it through the Accept header.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/diewo77/condo-admin/auth"
	"github.com/diewo77/condo-admin/httpx"
	"github.com/diewo77/condo-admin/i18n"
	"github.com/diewo77/condo-admin/internal/api"
	"github.com/diewo77/condo-admin/internal/logging"
	"github.com/diewo77/condo-admin/internal/models"
	"github.com/diewo77/condo-admin/internal/scope"
	"github.com/diewo77/condo-admin/internal/session"
	"github.com/diewo77/condo-admin/validation"
	"github.com/diewo77/condo-admin/view"
)

// SessionEnder ends a session the backend no longer accepts.
type SessionEnder interface {
	Logout(ctx context.Context, sessionID string) error
}

// base carries what every handler needs to turn backend failures into
// responses.
type base struct {
	sessions SessionEnder
}

func tr(r *http.Request, code string) string {
	return i18n.T(i18n.LangFromContext(r.Context()), code)
}

func selected(r *http.Request) models.ID {
	return scope.FromContext(r.Context()).Selected
}

func render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	if err := view.RenderStatus(w, r, status, page, data); err != nil {
		logging.Logger.WithError(err).WithField("page", page).Error("render failed")
	}
}

// respond writes payload as JSON for API clients, else renders page.
func respond(w http.ResponseWriter, r *http.Request, page string, data map[string]any, payload any) {
	if auth.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, payload)
		return
	}
	render(w, r, http.StatusOK, page, data)
}

// done finishes a successful mutation: JSON clients get payload, browsers a
// flash and a redirect.
func done(w http.ResponseWriter, r *http.Request, status int, payload any, flashCode, redirect string) {
	if auth.WantsJSON(r) {
		httpx.JSON(w, status, payload)
		return
	}
	auth.SetFlash(w, auth.FlashSuccess, tr(r, flashCode))
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// fail handles a backend error. A 401 means the backend revoked the token, so
// the local session goes too. Other errors become a flash with the backend's
// message and a redirect to back.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	if errors.Is(err, api.ErrUnauthorized) {
		b.signOut(w, r)
		return
	}
	status := http.StatusBadGateway
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		status = apiErr.Status
	} else {
		logging.Logger.WithError(err).WithField("path", r.URL.Path).Error("backend call failed")
	}
	if auth.WantsJSON(r) {
		httpx.JSONError(w, status, "backend_error", api.Message(err))
		return
	}
	msg := api.Message(err)
	if msg == "" || status == http.StatusBadGateway {
		msg = tr(r, "error.generic")
	}
	auth.SetFlash(w, auth.FlashError, msg)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (b base) signOut(w http.ResponseWriter, r *http.Request) {
	if st, ok := session.FromContext(r.Context()); ok && b.sessions != nil {
		if err := b.sessions.Logout(r.Context(), st.ID); err != nil {
			logging.Logger.WithError(err).Warn("deleting revoked session")
		}
	}
	auth.ClearSession(w)
	if !auth.WantsJSON(r) {
		auth.SetFlash(w, auth.FlashError, tr(r, "session.expired"))
	}
	auth.Unauthorized(w, r)
}

// invalid answers a failed form: 422 with violations for JSON, the form
// re-rendered with per-field messages for browsers.
func invalid(w http.ResponseWriter, r *http.Request, page string, data map[string]any, v validation.Violations) {
	if auth.WantsJSON(r) {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}
	data["Errors"] = v
	render(w, r, http.StatusUnprocessableEntity, page, data)
}

// bind fills dst from a JSON body, or from the form through fromForm.
func bind(r *http.Request, dst any, fromForm func()) error {
	if httpx.IsJSONBody(r) {
		return httpx.Decode(r, dst)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	fromForm()
	return nil
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	if auth.WantsJSON(r) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	http.Error(w, "Bad request", http.StatusBadRequest)
}

// formDecimal parses a decimal form value; blanks and garbage are reported
// in v under field.
func formDecimal(r *http.Request, field string, v validation.Violations) decimal.Decimal {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		v[field] = "invalid"
		return decimal.Zero
	}
	return d
}

func pathID(r *http.Request, name string) models.ID {
	return models.ID(r.PathValue(name))
}

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)
