package world

import (
	"context"
	"math/rand"
	"testing"

	"go.uber.org/zap"

	"github.com/samdwyer/dungeondelve/internal/spatial"
)

// openPolicy offers every eligible direction so movement tests never depend
// on probability rolls.
type openPolicy struct{}

func (openPolicy) ExitRange(int) (min, max int)       { return 6, 6 }
func (openPolicy) DeadEndChance(int) float64          { return 0 }
func (openPolicy) VerticalBias(int) (g, u, d float64) { return 0, 0, 0 }
func (openPolicy) LoopBias(int) float64               { return 0 }

// sealedPolicy offers nothing, so every unconnected direction blocks.
type sealedPolicy struct{}

func (sealedPolicy) ExitRange(int) (min, max int)       { return 0, 0 }
func (sealedPolicy) DeadEndChance(int) float64          { return 0 }
func (sealedPolicy) VerticalBias(int) (g, u, d float64) { return 0, 0, 0 }
func (sealedPolicy) LoopBias(int) float64               { return 0 }

func newTestWorld(t *testing.T, policy spatial.ExitPolicy) *World {
	t.Helper()
	return New(policy, rand.New(rand.NewSource(1)), 6, zap.NewNop())
}

func TestNewWorldStartsAtVisitedOrigin(t *testing.T) {
	w := newTestWorld(t, openPolicy{})

	if w.PlayerID() != spatial.OriginID {
		t.Errorf("player starts at %q, want %q", w.PlayerID(), spatial.OriginID)
	}
	if !w.Visited(spatial.OriginID) {
		t.Error("origin should start visited")
	}
	if len(w.AvailableMoves()) == 0 {
		t.Error("origin offers no moves under an open policy")
	}
}

func TestMoveThroughOfferedExit(t *testing.T) {
	w := newTestWorld(t, openPolicy{})

	res, err := w.Move(context.Background(), spatial.North)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if res.Blocked || !res.Created {
		t.Fatalf("result = %+v, want a newly created room", res)
	}
	if w.PlayerID() != res.RoomID {
		t.Errorf("player at %q, want %q", w.PlayerID(), res.RoomID)
	}
	if !w.Visited(res.RoomID) {
		t.Error("entered room not marked visited")
	}
	if depth, _ := w.Depth(res.RoomID); depth != 1 {
		t.Errorf("new room depth = %d, want 1", depth)
	}
}

func TestMoveBlockedWithoutConnectionOrOffer(t *testing.T) {
	w := newTestWorld(t, sealedPolicy{})

	res, err := w.Move(context.Background(), spatial.North)
	if err != nil {
		t.Fatalf("blocked move should not error: %v", err)
	}
	if !res.Blocked {
		t.Fatalf("result = %+v, want blocked", res)
	}
	if w.PlayerID() != spatial.OriginID {
		t.Errorf("player moved to %q on a blocked direction", w.PlayerID())
	}
}

func TestMoveBacktrackFollowsConnection(t *testing.T) {
	w := newTestWorld(t, openPolicy{})
	ctx := context.Background()

	out, err := w.Move(ctx, spatial.North)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	back, err := w.Move(ctx, spatial.South)
	if err != nil {
		t.Fatalf("backtrack failed: %v", err)
	}
	if back.Created || back.Blocked {
		t.Errorf("backtrack result = %+v, want plain traversal", back)
	}
	if back.RoomID != spatial.OriginID {
		t.Errorf("backtrack landed at %q, want %q", back.RoomID, spatial.OriginID)
	}

	// Forward again reuses the connection rather than regenerating.
	again, err := w.Move(ctx, spatial.North)
	if err != nil {
		t.Fatalf("repeat move failed: %v", err)
	}
	if again.Created || again.RoomID != out.RoomID {
		t.Errorf("repeat move = %+v, want traversal back to %q", again, out.RoomID)
	}
}

func TestStatsCountDiscoveredAndVisited(t *testing.T) {
	w := newTestWorld(t, openPolicy{})
	ctx := context.Background()

	if _, err := w.Move(ctx, spatial.North); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if _, err := w.Move(ctx, spatial.East); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	s := w.Stats()
	if s.Visited != 3 {
		t.Errorf("visited = %d, want 3", s.Visited)
	}
	if s.Discovered < s.Visited {
		t.Errorf("discovered %d < visited %d", s.Discovered, s.Visited)
	}
}

func TestValidateAfterExploration(t *testing.T) {
	w := newTestWorld(t, openPolicy{})
	ctx := context.Background()

	// Walk a loop: north, east, south, west returns through converged
	// rooms to the origin.
	for _, dir := range []spatial.Direction{spatial.North, spatial.East, spatial.South, spatial.West} {
		if _, err := w.Move(ctx, dir); err != nil {
			t.Fatalf("Move %s failed: %v", dir, err)
		}
	}

	if w.PlayerID() != spatial.OriginID {
		t.Errorf("loop ended at %q, want %q", w.PlayerID(), spatial.OriginID)
	}
	if report := w.Validate(); !report.Empty() {
		t.Errorf("exploration produced findings: %v", report.Findings)
	}
	if w.Repair() != 0 {
		t.Error("repair found work on a clean world")
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	w := newTestWorld(t, openPolicy{})
	ctx := context.Background()

	for _, dir := range []spatial.Direction{spatial.North, spatial.East, spatial.Down} {
		if _, err := w.Move(ctx, dir); err != nil {
			t.Fatalf("Move %s failed: %v", dir, err)
		}
	}

	exp := w.Export()
	restored, err := Restore(exp, openPolicy{}, rand.New(rand.NewSource(2)), 6, zap.NewNop())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if restored.ID() != w.ID() {
		t.Errorf("world id = %q, want %q", restored.ID(), w.ID())
	}
	if restored.PlayerID() != w.PlayerID() {
		t.Errorf("player = %q, want %q", restored.PlayerID(), w.PlayerID())
	}

	ids := w.RoomIDs()
	got := restored.RoomIDs()
	if len(got) != len(ids) {
		t.Fatalf("restored %d rooms, want %d", len(got), len(ids))
	}
	for i, id := range ids {
		if got[i] != id {
			t.Fatalf("room ids diverge: %v vs %v", got, ids)
		}
		wantPos, _ := w.PositionOf(id)
		gotPos, _ := restored.PositionOf(id)
		if gotPos != wantPos {
			t.Errorf("room %q at %v, want %v", id, gotPos, wantPos)
		}
		if restored.Visited(id) != w.Visited(id) {
			t.Errorf("room %q visited mismatch", id)
		}
		for dir, target := range w.ConnectionsOf(id) {
			if restored.ConnectionsOf(id)[dir] != target {
				t.Errorf("room %q lost connection %s to %q", id, dir, target)
			}
		}
	}

	// Offered exits survive, so exploration continues after a load.
	cur, _ := restored.Room(restored.PlayerID())
	orig, _ := w.Room(w.PlayerID())
	if len(cur.OfferedExits()) != len(orig.OfferedExits()) {
		t.Errorf("offered exits = %v, want %v", cur.OfferedExits(), orig.OfferedExits())
	}
	if report := restored.Validate(); !report.Empty() {
		t.Errorf("restored world has findings: %v", report.Findings)
	}
}

func TestRestoreRejectsBadSaves(t *testing.T) {
	w := newTestWorld(t, openPolicy{})
	if _, err := w.Move(context.Background(), spatial.North); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	t.Run("bad world id", func(t *testing.T) {
		exp := w.Export()
		exp.WorldID = "not-a-uuid"
		if _, err := Restore(exp, openPolicy{}, rand.New(rand.NewSource(3)), 6, zap.NewNop()); err == nil {
			t.Error("expected error for malformed world id")
		}
	})

	t.Run("missing player room", func(t *testing.T) {
		exp := w.Export()
		exp.Player = "ghost"
		if _, err := Restore(exp, openPolicy{}, rand.New(rand.NewSource(3)), 6, zap.NewNop()); err == nil {
			t.Error("expected error for a player room absent from the save")
		}
	})
}
