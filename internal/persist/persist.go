// Package persist defines the exportable shape of the dungeon graph and
// the stores that hold it. The shape is deliberately minimal: per room its
// id, position (or just depth), connections and visited flag. Positions
// absent from a save are re-derived from the connection directions.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/samdwyer/dungeondelve/internal/spatial"
)

// RoomRecord is the persisted form of one room node.
type RoomRecord struct {
	ID          string            `json:"id"`
	Position    *spatial.Position `json:"position,omitempty"`
	Depth       int               `json:"depth"`
	Visited     bool              `json:"visited,omitempty"`
	Connections map[string]string `json:"connections"`
	Offered     []string          `json:"offered,omitempty"`
}

// WorldExport is the persisted form of one world.
type WorldExport struct {
	WorldID string       `json:"worldId"`
	Player  string       `json:"player"`
	Rooms   []RoomRecord `json:"rooms"`
}

// EncodeJSON marshals the export with indentation, the on-disk format.
func EncodeJSON(exp WorldExport) ([]byte, error) {
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding world %s: %w", exp.WorldID, err)
	}
	return data, nil
}

// DecodeJSON unmarshals an exported world.
func DecodeJSON(data []byte) (WorldExport, error) {
	var exp WorldExport
	if err := json.Unmarshal(data, &exp); err != nil {
		return WorldExport{}, fmt.Errorf("decoding world export: %w", err)
	}
	return exp, nil
}

// ResolvePositions fills in missing room positions by walking the
// connection graph outward from the anchored rooms, stepping one direction
// vector per edge. The origin room anchors at (0,0,0) if it was persisted
// without a position. Records whose positions cannot be derived, because
// they are disconnected from every anchored room, fail the resolve.
//
// Already-present positions are left untouched even when they disagree
// with the derived geometry; the graph validator reports those as
// findings after the rebuild instead of silently patching them here.
func ResolvePositions(rooms []RoomRecord) error {
	byID := make(map[string]*RoomRecord, len(rooms))
	for i := range rooms {
		byID[rooms[i].ID] = &rooms[i]
	}

	if origin, ok := byID[spatial.OriginID]; ok && origin.Position == nil {
		origin.Position = &spatial.Position{}
	}

	queue := make([]*RoomRecord, 0, len(rooms))
	for i := range rooms {
		if rooms[i].Position != nil {
			queue = append(queue, &rooms[i])
		}
	}
	if len(queue) == 0 && len(rooms) > 0 {
		return fmt.Errorf("no room carries a position and %q is absent", spatial.OriginID)
	}

	for len(queue) > 0 {
		rec := queue[0]
		queue = queue[1:]

		for name, targetID := range rec.Connections {
			dir, err := spatial.ParseDirection(name)
			if err != nil {
				return fmt.Errorf("room %q: %w", rec.ID, err)
			}
			target, ok := byID[targetID]
			if !ok || target.Position != nil {
				continue
			}
			pos := rec.Position.Add(dir)
			target.Position = &pos
			queue = append(queue, target)
		}
	}

	for i := range rooms {
		if rooms[i].Position == nil {
			return fmt.Errorf("room %q is unreachable from any positioned room", rooms[i].ID)
		}
	}
	return nil
}
