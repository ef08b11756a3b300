package gate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/condo-admin/gate"
)

// buildingScope allows a resource only when it names the subject's building.
type buildingScope struct {
	byUser map[uint]string
}

func (p *buildingScope) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	id, ok := resource.(string)
	if !ok {
		return false
	}
	return p.byUser[userID] == id
}

func boardResolver() *gate.StaticResolver[uint] {
	resolver := gate.NewStaticResolver[uint]()
	board := gate.NewStaticProfile("board",
		gate.NewPermission("payment", gate.ActionApprove),
		gate.NewPermission("payment", gate.ActionList),
	)
	resolver.Set(1, board)
	resolver.Set(2, board)
	resolver.Set(9, gate.NewStaticProfile("admin", gate.PermissionSuperAdmin))
	return resolver
}

func TestGate_ProfileOnly(t *testing.T) {
	g := gate.New[uint](boardResolver())
	ctx := context.Background()

	if !g.Can(ctx, 1, gate.ActionApprove, "payment", nil) {
		t.Error("board profile should approve payments")
	}
	if g.Can(ctx, 1, gate.ActionDelete, "building", nil) {
		t.Error("board profile should not delete buildings")
	}
	if g.Can(ctx, 0, gate.ActionList, "payment", nil) {
		t.Error("zero subject should be denied")
	}
}

func TestGate_UnknownSubject(t *testing.T) {
	g := gate.New[uint](boardResolver())

	err := g.Authorize(context.Background(), 77, gate.ActionList, "payment", nil)
	if !errors.Is(err, gate.ErrNoProfile) {
		t.Errorf("expected ErrNoProfile, got %v", err)
	}
}

func TestGate_ResolverError(t *testing.T) {
	boom := errors.New("boom")
	g := gate.New[uint](gate.ResolverFunc[uint](func(context.Context, uint) (gate.Profile, error) {
		return nil, boom
	}))

	if err := g.Authorize(context.Background(), 1, gate.ActionList, "payment", nil); !errors.Is(err, boom) {
		t.Errorf("expected resolver error, got %v", err)
	}
}

func TestGate_WithScopePolicy(t *testing.T) {
	g := gate.New[uint](boardResolver())
	g.Register("payment", &buildingScope{byUser: map[uint]string{1: "b-1", 2: "b-2"}})
	ctx := context.Background()

	if !g.Can(ctx, 1, gate.ActionApprove, "payment", "b-1") {
		t.Error("board member should approve in own building")
	}
	if g.Can(ctx, 2, gate.ActionApprove, "payment", "b-1") {
		t.Error("board member should be denied in a foreign building")
	}
}

func TestGate_CanProfileIgnoresScope(t *testing.T) {
	g := gate.New[uint](boardResolver())
	g.Register("payment", gate.PolicyFunc[uint](func(context.Context, uint, gate.Action, any) bool {
		return false
	}))

	if !g.CanProfile(context.Background(), 2, gate.ActionApprove, "payment") {
		t.Error("CanProfile should only consult the profile")
	}
	if g.CanProfile(context.Background(), 2, gate.ActionDelete, "payment") {
		t.Error("CanProfile should deny missing permissions")
	}
}
