package spatial

import "fmt"

// SynthesizeID derives a deterministic, human-readable room id from a
// lattice position: signed per-axis offsets from the origin, concatenated
// as direction letter + magnitude (two north and one east → "n2e1"). Axes
// at zero offset are omitted. A zero offset on all axes falls back to
// "room_<depth>"; past the origin that case never occurs.
//
// The function is pure and never consults the registry. Callers must check
// RoomAt first; ids are only synthesized for genuinely new positions.
func SynthesizeID(pos Position, depth int) string {
	id := ""

	switch {
	case pos.Y > 0:
		id += fmt.Sprintf("n%d", pos.Y)
	case pos.Y < 0:
		id += fmt.Sprintf("s%d", -pos.Y)
	}
	switch {
	case pos.X > 0:
		id += fmt.Sprintf("e%d", pos.X)
	case pos.X < 0:
		id += fmt.Sprintf("w%d", -pos.X)
	}
	switch {
	case pos.Z > 0:
		id += fmt.Sprintf("u%d", pos.Z)
	case pos.Z < 0:
		id += fmt.Sprintf("d%d", -pos.Z)
	}

	if id == "" {
		return fmt.Sprintf("room_%d", depth)
	}
	return id
}

// LeadingDirection extracts the first direction segment from a synthesized
// id, for display purposes. Ids without a direction prefix (the origin,
// "room_<depth>" fallbacks) report false. Consumers should use this instead
// of parsing id strings themselves.
func LeadingDirection(id string) (Direction, bool) {
	if len(id) < 2 || id[1] < '0' || id[1] > '9' {
		return NoDirection, false
	}
	switch id[0] {
	case 'n':
		return North, true
	case 's':
		return South, true
	case 'e':
		return East, true
	case 'w':
		return West, true
	case 'u':
		return Up, true
	case 'd':
		return Down, true
	}
	return NoDirection, false
}
