// Package world owns the live dungeon: one spatial navigator, the room
// nodes hanging off it, and the player's location. Rooms come into
// existence lazily, the first time the player moves through an offered
// exit; nothing is ever deleted.
package world

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/dungeondelve/internal/persist"
	"github.com/samdwyer/dungeondelve/internal/spatial"
	"github.com/samdwyer/dungeondelve/internal/telemetry"
)

// World holds one game session's dungeon. Construct with New and drive it
// through Move; the navigator inside is the sole owner of the registry and
// graph, and all mutation is serialized through this type.
type World struct {
	id       uuid.UUID
	nav      *spatial.Navigator
	rooms    map[string]*Room
	player   string
	maxExits int
	log      *zap.Logger
}

// MoveResult reports the outcome of one movement attempt. A blocked
// direction is a normal outcome, not an error.
type MoveResult struct {
	RoomID  string
	Blocked bool
	Created bool
}

// New creates a world containing only the origin room, visited, with its
// initial exits offered.
func New(policy spatial.ExitPolicy, rng spatial.Rand, maxExits int, log *zap.Logger) *World {
	w := &World{
		id:       uuid.New(),
		nav:      spatial.NewNavigator(policy, rng),
		rooms:    make(map[string]*Room),
		player:   spatial.OriginID,
		maxExits: maxExits,
		log:      log,
	}

	origin := newRoom(spatial.OriginID, 0)
	origin.Visited = true
	w.rooms[spatial.OriginID] = origin

	// The origin is always registered, so the only error source is an
	// unknown id, which cannot happen here.
	exits, _ := w.nav.GenerateLogicalExits(spatial.OriginID, maxExits, spatial.NoDirection)
	origin.offer(exits)

	log.Info("world created",
		zap.String("world_id", w.id.String()),
		zap.Int("origin_exits", len(exits)))
	return w
}

// Move attempts to take the player one step in the given direction.
// Existing connections are followed directly; offered exits are
// instantiated through the navigator on first use, which either creates a
// new room or converges onto one an earlier path already placed. A
// direction with neither yields a blocked result.
func (w *World) Move(ctx context.Context, dir spatial.Direction) (MoveResult, error) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "world.move")
	defer span.End()

	cur := w.rooms[w.player]
	span.SetAttributes(
		attribute.String("move.from", cur.ID),
		attribute.String("move.direction", dir.String()),
	)

	if to, ok := w.nav.ConnectionsOf(cur.ID)[dir]; ok {
		w.enter(to)
		span.SetAttributes(attribute.String("move.to", to))
		return MoveResult{RoomID: to}, nil
	}

	if !cur.offered[dir] {
		span.SetAttributes(attribute.Bool("move.blocked", true))
		return MoveResult{Blocked: true}, nil
	}

	to, err := w.nav.GenerateConnectedRoom(cur.ID, dir, cur.Depth+1)
	if err != nil {
		return MoveResult{}, fmt.Errorf("generating room %s of %q: %w", dir, cur.ID, err)
	}
	delete(cur.offered, dir)

	created := false
	if _, ok := w.rooms[to]; !ok {
		created = true
		room := newRoom(to, cur.Depth+1)
		w.rooms[to] = room

		exits, err := w.nav.GenerateLogicalExits(to, w.maxExits, dir)
		if err != nil {
			return MoveResult{}, fmt.Errorf("generating exits of %q: %w", to, err)
		}
		room.offer(exits)

		w.log.Debug("room generated",
			zap.String("room", to),
			zap.Int("depth", room.Depth),
			zap.Int("offered_exits", len(exits)))
	}

	w.enter(to)
	span.SetAttributes(
		attribute.String("move.to", to),
		attribute.Bool("move.created", created),
		attribute.Int("world.rooms", w.nav.RoomCount()),
	)
	return MoveResult{RoomID: to, Created: created}, nil
}

func (w *World) enter(id string) {
	w.player = id
	if room, ok := w.rooms[id]; ok {
		room.Visited = true
	}
}

// ID returns the world instance id used as the save key.
func (w *World) ID() string { return w.id.String() }

// PlayerID returns the id of the room the player occupies.
func (w *World) PlayerID() string { return w.player }

// Room returns the node for a room id, if the room exists.
func (w *World) Room(id string) (*Room, bool) {
	room, ok := w.rooms[id]
	return room, ok
}

// RoomIDs returns all registered room ids in sorted order.
func (w *World) RoomIDs() []string { return w.nav.RoomIDs() }

// PositionOf returns a room's lattice position.
func (w *World) PositionOf(id string) (spatial.Position, bool) {
	return w.nav.PositionOf(id)
}

// ConnectionsOf returns a copy of a room's connections.
func (w *World) ConnectionsOf(id string) map[spatial.Direction]string {
	return w.nav.ConnectionsOf(id)
}

// Depth returns the generation depth a room was created at.
func (w *World) Depth(id string) (int, bool) {
	return w.nav.Depth(id)
}

// Visited reports whether the player has entered the room.
func (w *World) Visited(id string) bool {
	room, ok := w.rooms[id]
	return ok && room.Visited
}

// AvailableMoves returns every direction the player can currently take
// from their room: instantiated connections plus offered exits, in fixed
// order.
func (w *World) AvailableMoves() []spatial.Direction {
	cur := w.rooms[w.player]
	conns := w.nav.ConnectionsOf(cur.ID)

	var out []spatial.Direction
	for _, dir := range spatial.Directions() {
		if _, ok := conns[dir]; ok || cur.offered[dir] {
			out = append(out, dir)
		}
	}
	return out
}

// Validate scans the graph for invariant violations.
func (w *World) Validate() spatial.ValidationReport {
	return w.nav.ValidateConnections()
}

// Repair fixes the auto-repairable validation findings and returns the
// number of repaired edges.
func (w *World) Repair() int {
	return w.nav.FixConnections()
}

// Stats summarizes exploration progress.
type Stats struct {
	Discovered int
	Visited    int
}

// Stats returns the current exploration counters.
func (w *World) Stats() Stats {
	s := Stats{Discovered: w.nav.RoomCount()}
	for _, room := range w.rooms {
		if room.Visited {
			s.Visited++
		}
	}
	return s
}

// Export captures the world in the persistable graph shape.
func (w *World) Export() persist.WorldExport {
	exp := persist.WorldExport{
		WorldID: w.id.String(),
		Player:  w.player,
	}
	for _, id := range w.nav.RoomIDs() {
		pos, _ := w.nav.PositionOf(id)
		rec := persist.RoomRecord{
			ID:          id,
			Position:    &pos,
			Connections: make(map[string]string),
		}
		for dir, target := range w.nav.ConnectionsOf(id) {
			rec.Connections[dir.String()] = target
		}
		if room, ok := w.rooms[id]; ok {
			rec.Depth = room.Depth
			rec.Visited = room.Visited
			for _, dir := range room.OfferedExits() {
				rec.Offered = append(rec.Offered, dir.String())
			}
		} else if depth, ok := w.nav.Depth(id); ok {
			rec.Depth = depth
		}
		exp.Rooms = append(exp.Rooms, rec)
	}
	return exp
}

// Restore rebuilds a world from its exported shape. Records persisted
// without positions get them re-derived from the connection directions.
// The rebuilt graph is validated; any finding fails the restore, since a
// save that violates the invariants cannot have come from this engine.
func Restore(exp persist.WorldExport, policy spatial.ExitPolicy, rng spatial.Rand, maxExits int, log *zap.Logger) (*World, error) {
	if err := persist.ResolvePositions(exp.Rooms); err != nil {
		return nil, fmt.Errorf("restoring world %s: %w", exp.WorldID, err)
	}

	id, err := uuid.Parse(exp.WorldID)
	if err != nil {
		return nil, fmt.Errorf("restoring world: bad world id %q: %w", exp.WorldID, err)
	}

	w := &World{
		id:       id,
		nav:      spatial.NewNavigator(policy, rng),
		rooms:    make(map[string]*Room),
		player:   spatial.OriginID,
		maxExits: maxExits,
		log:      log,
	}

	for _, rec := range exp.Rooms {
		if err := w.nav.AddRoom(rec.ID, *rec.Position, rec.Depth); err != nil {
			return nil, fmt.Errorf("restoring room %q: %w", rec.ID, err)
		}
		room := newRoom(rec.ID, rec.Depth)
		room.Visited = rec.Visited
		for _, name := range rec.Offered {
			dir, err := spatial.ParseDirection(name)
			if err != nil {
				return nil, fmt.Errorf("restoring room %q: %w", rec.ID, err)
			}
			room.offered[dir] = true
		}
		w.rooms[rec.ID] = room
	}

	for _, rec := range exp.Rooms {
		for name, target := range rec.Connections {
			dir, err := spatial.ParseDirection(name)
			if err != nil {
				return nil, fmt.Errorf("restoring connections of %q: %w", rec.ID, err)
			}
			if err := w.nav.Connect(rec.ID, dir, target); err != nil {
				return nil, fmt.Errorf("restoring connection %s of %q: %w", dir, rec.ID, err)
			}
		}
	}

	if report := w.nav.ValidateConnections(); !report.Empty() {
		return nil, fmt.Errorf("restored world %s fails validation: %s", exp.WorldID, report.Findings[0])
	}

	if exp.Player != "" {
		if _, ok := w.rooms[exp.Player]; !ok {
			return nil, fmt.Errorf("restored player room %q does not exist", exp.Player)
		}
		w.player = exp.Player
	}
	w.enter(w.player)

	log.Info("world restored",
		zap.String("world_id", exp.WorldID),
		zap.Int("rooms", w.nav.RoomCount()))
	return w, nil
}
