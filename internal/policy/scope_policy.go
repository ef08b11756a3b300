package policy

import (
	"context"

	"github.com/diewo77/condo-admin/gate"
	"github.com/diewo77/condo-admin/internal/models"
)

// IsBoardInBuilding reports whether u may act as board in buildingID. Admins
// always may. Otherwise the unit memberships and building-role list decide;
// accounts carrying neither fall back to the legacy global building id.
func IsBoardInBuilding(u *models.User, buildingID models.ID) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	if buildingID == "" {
		return false
	}
	boards := u.BoardBuildings()
	for _, id := range boards {
		if id == buildingID {
			return true
		}
	}
	return len(boards) == 0 && u.IsBoard() && u.BuildingID == buildingID
}

// BuildingScopePolicy narrows a granted permission to buildings where the
// user sits on the board. The resource is the building id.
type BuildingScopePolicy struct{}

func (BuildingScopePolicy) Can(_ context.Context, u *models.User, _ gate.Action, resource any) bool {
	id, ok := resource.(models.ID)
	if !ok {
		// unknown resource shapes are denied
		return false
	}
	return IsBoardInBuilding(u, id)
}

// AdminBypassPolicy wraps another policy and always allows access for admins.
type AdminBypassPolicy struct {
	inner gate.Policy[*models.User]
}

func NewAdminBypassPolicy(inner gate.Policy[*models.User]) *AdminBypassPolicy {
	return &AdminBypassPolicy{inner: inner}
}

func (p *AdminBypassPolicy) Can(ctx context.Context, u *models.User, action gate.Action, resource any) bool {
	if u.IsAdmin() {
		return true
	}
	return p.inner.Can(ctx, u, action, resource)
}
