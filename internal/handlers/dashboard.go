package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/condo-admin/internal/models"
	"github.com/diewo77/condo-admin/internal/scope"
	"github.com/diewo77/condo-admin/internal/services"
)

type DashboardBuilder interface {
	Build(ctx context.Context, buildingID models.ID) *services.Dashboard
}

type DashboardHandler struct {
	dash DashboardBuilder
}

func NewDashboardHandler(dash DashboardBuilder) *DashboardHandler {
	return &DashboardHandler{dash: dash}
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	sc := scope.FromContext(r.Context())
	if sc.Selected == "" {
		respond(w, r, "dashboard.html", map[string]any{"Empty": true}, map[string]any{"dashboard": nil})
		return
	}
	d := h.dash.Build(r.Context(), sc.Selected)
	data := map[string]any{"Dashboard": d}
	if building, ok := sc.SelectedBuilding(); ok {
		data["Building"] = building
	}
	respond(w, r, "dashboard.html", data, d)
}

// Home sends signed-in users to the dashboard.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
