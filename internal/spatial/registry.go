package spatial

import "sort"

// Registry maintains the bijection between room ids and lattice positions.
// It enforces one room per position and one position per room.
type Registry struct {
	byID  map[string]Position
	byPos map[Position]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:  make(map[string]Position),
		byPos: make(map[Position]string),
	}
}

// AddRoom registers a room at a position. Re-adding the same id at the same
// position is a no-op. Registering an occupied position or an existing id at
// a new position fails without modifying the registry.
func (r *Registry) AddRoom(id string, pos Position) error {
	if existing, ok := r.byID[id]; ok {
		if existing == pos {
			return nil
		}
		return &DuplicateIDError{ID: id, Existing: existing, Position: pos}
	}
	if occupant, ok := r.byPos[pos]; ok {
		return &DuplicatePositionError{ID: id, Position: pos, Occupant: occupant}
	}
	r.byID[id] = pos
	r.byPos[pos] = id
	return nil
}

// PositionOf returns the position of a room, if registered.
func (r *Registry) PositionOf(id string) (Position, bool) {
	pos, ok := r.byID[id]
	return pos, ok
}

// RoomAt returns the room occupying a position, if any.
func (r *Registry) RoomAt(pos Position) (string, bool) {
	id, ok := r.byPos[pos]
	return id, ok
}

// Contains reports whether the id is registered.
func (r *Registry) Contains(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Len returns the number of registered rooms.
func (r *Registry) Len() int {
	return len(r.byID)
}

// IDs returns all registered room ids in sorted order, so that scans over
// the registry are deterministic.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
