package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/condo-admin/auth"
	"github.com/diewo77/condo-admin/httpx"
	"github.com/diewo77/condo-admin/internal/models"
	"github.com/diewo77/condo-admin/internal/scope"
	"github.com/diewo77/condo-admin/internal/session"
)

type SelectionStore interface {
	SelectBuilding(ctx context.Context, sessionID string, buildingID models.ID) error
}

type ScopeHandler struct {
	store SelectionStore
}

func NewScopeHandler(store SelectionStore) *ScopeHandler {
	return &ScopeHandler{store: store}
}

// Select switches the building in scope. Only available buildings are
// accepted.
func (h *ScopeHandler) Select(w http.ResponseWriter, r *http.Request) {
	st, ok := session.FromContext(r.Context())
	if !ok {
		auth.Unauthorized(w, r)
		return
	}
	var in struct {
		BuildingID models.ID `json:"building_id"`
		Next       string    `json:"-"`
	}
	if err := bind(r, &in, func() {
		in.BuildingID = models.ID(r.FormValue("building_id"))
		in.Next = r.FormValue("next")
	}); err != nil {
		badRequest(w, r, err)
		return
	}
	back := safeNext(in.Next)

	if !scope.FromContext(r.Context()).Has(in.BuildingID) {
		if auth.WantsJSON(r) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "building_not_available", nil)
			return
		}
		auth.SetFlash(w, auth.FlashError, tr(r, "scope.invalid"))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if err := h.store.SelectBuilding(r.Context(), st.ID, in.BuildingID); err != nil {
		if auth.WantsJSON(r) {
			httpx.JSONError(w, http.StatusInternalServerError, "session_error", nil)
			return
		}
		auth.SetFlash(w, auth.FlashError, tr(r, "error.generic"))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	done(w, r, http.StatusOK, map[string]any{"selected": in.BuildingID}, "scope.changed", back)
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if len(next) > 1 && next[0] == '/' && next[1] != '/' && next[1] != '\\' {
		return next
	}
	return "/dashboard"
}
