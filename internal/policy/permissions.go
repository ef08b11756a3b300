// Package policy decides what a signed-in user may see and do in the panel.
// It is display logic: the backend enforces authorization on every call.
package policy

import (
	"context"
	"net/http"

	"github.com/diewo77/condo-admin/auth"
	"github.com/diewo77/condo-admin/gate"
	"github.com/diewo77/condo-admin/httpx"
	"github.com/diewo77/condo-admin/i18n"
	"github.com/diewo77/condo-admin/internal/models"
	"github.com/diewo77/condo-admin/internal/scope"
	"github.com/diewo77/condo-admin/internal/session"
)

// Gate is the panel's authorization checkpoint over backend users.
type Gate struct {
	g *gate.Gate[*models.User]
}

// NewGate wires the role profiles and the building-scope policy for every
// building-scoped resource.
func NewGate() *Gate {
	g := gate.New[*models.User](RoleResolver{})
	scoped := NewAdminBypassPolicy(BuildingScopePolicy{})
	for _, res := range []string{ResourceBuilding, ResourceUnit, ResourceUser, ResourceInvoice, ResourcePayment, ResourceDebt, ResourceBalance} {
		g.Register(res, scoped)
	}
	return &Gate{g: g}
}

// For binds the gate to a user and the building currently in scope.
func (g *Gate) For(ctx context.Context, u *models.User, building models.ID) Capabilities {
	return Capabilities{ctx: ctx, gate: g.g, user: u, building: building}
}

// FromRequest binds the gate to the request's session user and selection.
func (g *Gate) FromRequest(r *http.Request) Capabilities {
	st, ok := session.FromContext(r.Context())
	if !ok {
		return Capabilities{ctx: r.Context(), gate: g.g}
	}
	return g.For(r.Context(), &st.User, scope.FromContext(r.Context()).Selected)
}

// Capabilities answers permission questions for one user in one building.
type Capabilities struct {
	ctx      context.Context
	gate     *gate.Gate[*models.User]
	user     *models.User
	building models.ID
}

func (c Capabilities) User() *models.User { return c.user }

func (c Capabilities) IsSuperAdmin() bool { return c.user.IsAdmin() }

// IsBoardMember is true for the board role or a board seat in any building.
func (c Capabilities) IsBoardMember() bool {
	return c.user.IsBoard() || len(c.user.BoardBuildings()) > 0
}

// IsBoardInBuilding checks buildingID, or the building in scope when empty.
func (c Capabilities) IsBoardInBuilding(buildingID models.ID) bool {
	if buildingID == "" {
		buildingID = c.building
	}
	return IsBoardInBuilding(c.user, buildingID)
}

func (c Capabilities) CanManageUsers() bool {
	return c.CanIn(ResourceUser, gate.ActionManage, "")
}

func (c Capabilities) CanApprovePayments() bool {
	return c.CanIn(ResourcePayment, gate.ActionApprove, "")
}

func (c Capabilities) CanManageBuilding() bool {
	return c.CanIn(ResourceBuilding, gate.ActionManage, "")
}

// CanManageBuildings covers creating and deleting buildings.
func (c Capabilities) CanManageBuildings() bool {
	return c.CanIn(ResourceBuilding, gate.ActionCreate, "")
}

func (c Capabilities) CanGenerateDebt() bool {
	return c.CanIn(ResourceDebt, gate.ActionGenerate, "")
}

// CanIn checks resource:action within buildingID (the scoped building when empty).
func (c Capabilities) CanIn(resource string, action gate.Action, buildingID models.ID) bool {
	if c.user == nil {
		return false
	}
	if buildingID == "" {
		buildingID = c.building
	}
	return c.gate.Can(c.ctx, c.user, action, resource, buildingID)
}

// Can checks the role profile only, for navigation that does not depend on
// a specific building.
func (c Capabilities) Can(resource string, action gate.Action) bool {
	if c.user == nil {
		return false
	}
	return c.gate.CanProfile(c.ctx, c.user, action, resource)
}

// BuildingFunc picks the building a request acts on.
type BuildingFunc func(*http.Request) models.ID

// SelectedBuilding uses the building in scope.
func SelectedBuilding(*http.Request) models.ID { return "" }

// PathBuilding reads the building id from a route wildcard.
func PathBuilding(name string) BuildingFunc {
	return func(r *http.Request) models.ID { return models.ID(r.PathValue(name)) }
}

// Require returns middleware that checks resource:action in the building
// chosen by which. Forbidden browsers are redirected to the dashboard with a
// flash; JSON clients get 403.
func (g *Gate) Require(resource string, action gate.Action, which BuildingFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.FromRequest(r).CanIn(resource, action, which(r)) {
				Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin allows only admins through.
func (g *Gate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.FromRequest(r).IsSuperAdmin() {
				Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func Forbidden(w http.ResponseWriter, r *http.Request) {
	if auth.WantsJSON(r) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	auth.SetFlash(w, auth.FlashError, i18n.T(i18n.LangFromContext(r.Context()), "error.forbidden"))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
