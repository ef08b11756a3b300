package policy

import (
	"context"

	"github.com/diewo77/condo-admin/gate"
	"github.com/diewo77/condo-admin/internal/models"
)

// Resource types checked through the gate.
const (
	ResourceBuilding = "building"
	ResourceUnit     = "unit"
	ResourceUser     = "user"
	ResourceInvoice  = "invoice"
	ResourcePayment  = "payment"
	ResourceDebt     = "debt"
	ResourceBalance  = "balance"
)

var adminProfile = gate.NewStaticProfile("admin", gate.PermissionSuperAdmin)

// boardProfile grants building-scoped work; creating and deleting buildings
// stays with admins.
var boardProfile = gate.NewStaticProfile("board",
	gate.NewPermission(ResourceBuilding, gate.ActionList),
	gate.NewPermission(ResourceBuilding, gate.ActionView),
	gate.NewPermission(ResourceBuilding, gate.ActionUpdate),
	gate.NewPermission(ResourceBuilding, gate.ActionManage),
	gate.Permission(ResourceUnit+":"+gate.WildcardAll),
	gate.Permission(ResourceUser+":"+gate.WildcardAll),
	gate.NewPermission(ResourceInvoice, gate.ActionList),
	gate.NewPermission(ResourceInvoice, gate.ActionView),
	gate.NewPermission(ResourcePayment, gate.ActionList),
	gate.NewPermission(ResourcePayment, gate.ActionView),
	gate.NewPermission(ResourcePayment, gate.ActionApprove),
	gate.NewPermission(ResourceDebt, gate.ActionGenerate),
	gate.NewPermission(ResourceBalance, gate.ActionView),
)

// RoleResolver maps a user's global role to a profile. Residents and unknown
// roles get none.
type RoleResolver struct{}

func (RoleResolver) Resolve(_ context.Context, u *models.User) (gate.Profile, error) {
	switch {
	case u.IsAdmin():
		return adminProfile, nil
	case u.IsBoard(), len(u.BoardBuildings()) > 0:
		return boardProfile, nil
	default:
		return nil, nil
	}
}
