package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRole_Normalize(t *testing.T) {
	tests := []struct {
		in   Role
		want Role
	}{
		{"admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{"SuperAdmin", RoleAdmin},
		{" board ", RoleBoard},
		{"resident", RoleResident},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUser_BoardBuildings(t *testing.T) {
	u := &User{
		Role: RoleBoard,
		Units: []UserUnit{
			{UnitID: "u1", BuildingID: "b1", BuildingRole: RoleBoard},
			{UnitID: "u2", BuildingID: "b2", BuildingRole: RoleResident},
			{UnitID: "u3", BuildingID: "b1", BuildingRole: "BOARD"},
		},
		BuildingRoles: []BuildingRole{{BuildingID: "b3", Role: RoleBoard}, {BuildingID: "b1", Role: RoleBoard}},
	}
	got := u.BoardBuildings()
	want := []ID{"b1", "b3"}
	if len(got) != len(want) {
		t.Fatalf("BoardBuildings() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("BoardBuildings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	var nilUser *User
	if nilUser.BoardBuildings() != nil {
		t.Error("nil user should have no board buildings")
	}
}

func TestUser_DecodeBackendShapes(t *testing.T) {
	raw := `{"id": 7, "email": "a@b.c", "role": "Admin", "status": "ACTIVE",
		"units": [{"unit_id": "12", "building_id": 3, "building_role": "board", "is_primary": true}]}`
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.ID != "7" || u.Units[0].BuildingID != "3" {
		t.Errorf("ids not normalised: %q %q", u.ID, u.Units[0].BuildingID)
	}
	if !u.IsAdmin() || !u.IsActive() || !u.PanelRole() {
		t.Error("expected active admin")
	}
	if p, ok := u.PrimaryUnit(); !ok || p.UnitID != "12" {
		t.Errorf("PrimaryUnit() = %+v, %v", p, ok)
	}
}

func TestInvoice_DecodeAndOutstanding(t *testing.T) {
	raw := `{"id":"i1","amount":"100.50","paid_amount":25,"status":"PENDING",
		"period":{"year":2024,"month":3},"due_date":"2024-03-31","issue_date":"2024-03-01T10:00:00Z"}`
	var inv Invoice
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !inv.Outstanding().Equal(decimal.RequireFromString("75.50")) {
		t.Errorf("Outstanding() = %s", inv.Outstanding())
	}
	if inv.DueDate.Day() != "2024-03-31" || inv.Period.String() != "2024-03" {
		t.Errorf("dates: %s %s", inv.DueDate.Day(), inv.Period)
	}

	inv.PaidAmount = decimal.NewFromInt(200)
	if !inv.Outstanding().IsZero() {
		t.Error("overpaid invoice must not report negative outstanding")
	}
	inv.Status = InvoiceCancelled
	inv.PaidAmount = decimal.Zero
	if !inv.Outstanding().IsZero() {
		t.Error("cancelled invoice owes nothing")
	}
}

func TestDate_NullAndEmpty(t *testing.T) {
	var d Date
	for _, raw := range []string{`null`, `""`} {
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if !d.IsZero() {
			t.Errorf("%s should decode to zero date", raw)
		}
	}
	if err := json.Unmarshal([]byte(`"31/03/2024"`), &d); err == nil {
		t.Error("expected error for unknown layout")
	}
}

func TestUnitBalance_Solvent(t *testing.T) {
	if !(UnitBalance{Balance: decimal.Zero}).Solvent() {
		t.Error("zero balance is solvent")
	}
	if (UnitBalance{Balance: decimal.NewFromInt(10)}).Solvent() {
		t.Error("positive balance is not solvent")
	}
}
