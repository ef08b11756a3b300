package gate_test

import (
	"testing"

	"github.com/diewo77/condo-admin/gate"
)

func TestPermission_NewPermission(t *testing.T) {
	perm := gate.NewPermission("payment", gate.ActionApprove)
	if perm != "payment:approve" {
		t.Errorf("expected 'payment:approve', got '%s'", perm)
	}
}

func TestPermission_Parse(t *testing.T) {
	res, act := gate.Permission("invoice:view").Parse()
	if res != "invoice" || act != gate.ActionView {
		t.Errorf("unexpected parse result %q %q", res, act)
	}

	res, act = gate.Permission("invalid").Parse()
	if res != "" || act != "" {
		t.Errorf("expected empty strings, got '%s' and '%s'", res, act)
	}
}

func TestPermission_Matches(t *testing.T) {
	tests := []struct {
		held      gate.Permission
		requested gate.Permission
		want      bool
	}{
		{"user:update", "user:update", true},
		{"user:update", "user:delete", false},
		{"user:update", "building:update", false},
		{gate.PermissionSuperAdmin, "building:delete", true},
		{"user:*", "user:delete", true},
		{"user:*", "invoice:view", false},
		{"*:view", "invoice:view", true},
		{"*:view", "invoice:delete", false},
		{"broken", "broken", true},
		{"broken", "user:view", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.held)+"->"+string(tt.requested), func(t *testing.T) {
			if got := tt.held.Matches(tt.requested); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
