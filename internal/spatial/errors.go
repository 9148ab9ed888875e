package spatial

import "fmt"

// UnknownRoomError reports an operation that referenced a room id missing
// from the registry. This is always an upstream bug (a stale id).
type UnknownRoomError struct {
	ID string
}

func (e *UnknownRoomError) Error() string {
	return fmt.Sprintf("room %q is not registered", e.ID)
}

// DuplicatePositionError reports an attempt to register a room at a position
// already occupied by a different room.
type DuplicatePositionError struct {
	ID       string
	Position Position
	Occupant string
}

func (e *DuplicatePositionError) Error() string {
	return fmt.Sprintf("position %s is already occupied by %q, cannot register %q",
		e.Position, e.Occupant, e.ID)
}

// DuplicateIDError reports an attempt to register an existing room id at a
// different position.
type DuplicateIDError struct {
	ID       string
	Existing Position
	Position Position
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("room %q is already registered at %s, cannot re-register at %s",
		e.ID, e.Existing, e.Position)
}

// ConnectionConflictError reports an attempt to overwrite an already-set
// direction slot with a different target. Direction slots are immutable
// once set.
type ConnectionConflictError struct {
	From      string
	Direction Direction
	Existing  string
	Proposed  string
}

func (e *ConnectionConflictError) Error() string {
	return fmt.Sprintf("room %q already connects %s to %q, cannot reconnect to %q",
		e.From, e.Direction, e.Existing, e.Proposed)
}
