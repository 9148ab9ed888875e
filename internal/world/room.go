package world

import (
	"sort"

	"github.com/samdwyer/dungeondelve/internal/spatial"
)

// Room is the spatial node for one dungeon location. It carries only what
// the engine needs to place and connect the room; descriptive content is an
// external collaborator's payload, keyed by ID, and never inspected here.
type Room struct {
	ID      string
	Depth   int
	Visited bool

	// offered holds directions presented as exits but not yet
	// instantiated. An offer is consumed the first time the player moves
	// through it.
	offered map[spatial.Direction]bool
}

func newRoom(id string, depth int) *Room {
	return &Room{
		ID:      id,
		Depth:   depth,
		offered: make(map[spatial.Direction]bool),
	}
}

// OfferedExits returns the not-yet-instantiated exit directions in fixed
// order.
func (r *Room) OfferedExits() []spatial.Direction {
	out := make([]spatial.Direction, 0, len(r.offered))
	for dir := range r.offered {
		out = append(out, dir)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Room) offer(dirs []spatial.Direction) {
	for _, dir := range dirs {
		r.offered[dir] = true
	}
}
