package models

import "strings"

type Role string

const (
	RoleResident Role = "resident"
	RoleBoard    Role = "board"
	RoleAdmin    Role = "admin"
	// RoleSuperAdmin is the legacy spelling of admin still sent by older accounts.
	RoleSuperAdmin Role = "superadmin"
)

// Normalize lower-cases the role and folds the legacy superadmin into admin.
func (r Role) Normalize() Role {
	n := Role(strings.ToLower(strings.TrimSpace(string(r))))
	if n == RoleSuperAdmin {
		return RoleAdmin
	}
	return n
}

type UserStatus string

const (
	StatusPending  UserStatus = "pending"
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
	StatusRejected UserStatus = "rejected"
)

// User mirrors the backend user record.
type User struct {
	ID     ID         `json:"id"`
	Email  string     `json:"email"`
	Name   string     `json:"name"`
	Role   Role       `json:"role"`
	Status UserStatus `json:"status"`
	// Units lists unit memberships with the per-building role.
	Units []UserUnit `json:"units,omitempty"`
	// BuildingRoles is the explicit building-role list some accounts carry
	// instead of (or besides) unit memberships.
	BuildingRoles []BuildingRole `json:"building_roles,omitempty"`
	// BuildingID is the legacy single global building.
	BuildingID ID `json:"building_id,omitempty"`
}

type UserUnit struct {
	UnitID       ID     `json:"unit_id"`
	UnitName     string `json:"unit_name,omitempty"`
	BuildingID   ID     `json:"building_id"`
	BuildingName string `json:"building_name,omitempty"`
	BuildingRole Role   `json:"building_role,omitempty"`
	IsPrimary    bool   `json:"is_primary"`
}

type BuildingRole struct {
	BuildingID ID   `json:"building_id"`
	Role       Role `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role.Normalize() == RoleAdmin
}

func (u *User) IsBoard() bool {
	return u != nil && u.Role.Normalize() == RoleBoard
}

// PanelRole reports whether the user's global role may sign into the panel.
func (u *User) PanelRole() bool {
	return u.IsAdmin() || u.IsBoard()
}

func (u *User) IsActive() bool {
	return u != nil && UserStatus(strings.ToLower(string(u.Status))) == StatusActive
}

// BoardBuildings returns the unique building ids where the user holds the
// board role, in first-seen order: unit memberships first, then the explicit
// building-role list.
func (u *User) BoardBuildings() []ID {
	if u == nil {
		return nil
	}
	seen := make(map[ID]struct{})
	var out []ID
	add := func(id ID, role Role) {
		if id == "" || role.Normalize() != RoleBoard {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, m := range u.Units {
		add(m.BuildingID, m.BuildingRole)
	}
	for _, br := range u.BuildingRoles {
		add(br.BuildingID, br.Role)
	}
	return out
}

// PrimaryUnit returns the membership flagged primary, if any.
func (u *User) PrimaryUnit() (UserUnit, bool) {
	if u == nil {
		return UserUnit{}, false
	}
	for _, m := range u.Units {
		if m.IsPrimary {
			return m, true
		}
	}
	return UserUnit{}, false
}
