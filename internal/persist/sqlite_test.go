package persist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/samdwyer/dungeondelve/internal/spatial"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "saves", "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testExport(worldID, player string) WorldExport {
	n1 := spatial.Position{Y: 1}
	return WorldExport{
		WorldID: worldID,
		Player:  player,
		Rooms: []RoomRecord{
			{
				ID:          "start",
				Position:    &spatial.Position{},
				Visited:     true,
				Connections: map[string]string{"north": "n1"},
			},
			{
				ID:          "n1",
				Position:    &n1,
				Depth:       1,
				Visited:     true,
				Connections: map[string]string{"south": "start"},
				Offered:     []string{"east"},
			},
		},
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	exp := testExport("w1", "n1")
	if err := store.Save(ctx, exp); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	back, err := store.Load(ctx, "w1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if back.Player != "n1" {
		t.Errorf("player = %q, want n1", back.Player)
	}
	if len(back.Rooms) != 2 {
		t.Fatalf("loaded %d rooms, want 2", len(back.Rooms))
	}

	// Rooms come back ordered by id: n1 then start.
	n1 := back.Rooms[0]
	if n1.ID != "n1" || n1.Depth != 1 || !n1.Visited {
		t.Errorf("room n1 = %+v", n1)
	}
	if *n1.Position != (spatial.Position{Y: 1}) {
		t.Errorf("n1 position = %v", *n1.Position)
	}
	if n1.Connections["south"] != "start" {
		t.Errorf("n1 connections = %v", n1.Connections)
	}
	if len(n1.Offered) != 1 || n1.Offered[0] != "east" {
		t.Errorf("n1 offered = %v", n1.Offered)
	}
}

func TestStoreSaveReplacesPrevious(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testExport("w1", "start")); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	// Second save of the same world with fewer rooms and a new player.
	exp := testExport("w1", "n1")
	exp.Rooms = exp.Rooms[:1]
	if err := store.Save(ctx, exp); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	back, err := store.Load(ctx, "w1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if back.Player != "n1" {
		t.Errorf("player = %q, want n1", back.Player)
	}
	if len(back.Rooms) != 1 {
		t.Errorf("loaded %d rooms, want 1 after replace", len(back.Rooms))
	}
}

func TestStoreLoadMissingWorld(t *testing.T) {
	store := testStore(t)
	if _, err := store.Load(context.Background(), "nope"); err == nil {
		t.Error("expected error for an unsaved world")
	}
}

func TestStoreLatestWorldID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.LatestWorldID(ctx)
	if err != nil {
		t.Fatalf("LatestWorldID failed: %v", err)
	}
	if id != "" {
		t.Errorf("empty store returned %q", id)
	}

	if err := store.Save(ctx, testExport("w1", "start")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	id, err = store.LatestWorldID(ctx)
	if err != nil {
		t.Fatalf("LatestWorldID failed: %v", err)
	}
	if id != "w1" {
		t.Errorf("latest = %q, want w1", id)
	}
}
