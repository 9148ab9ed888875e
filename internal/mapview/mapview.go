// Package mapview renders a bounded ASCII projection of the explored
// dungeon, centered on the player. The vertical axis is collapsed: rooms
// on different z-levels project onto the same cell, so the map reads as a
// floor-plan sketch rather than a cross-section.
//
// Rendering only reads the graph; it never mutates it.
package mapview

import (
	"fmt"
	"strings"

	"github.com/samdwyer/dungeondelve/internal/spatial"
)

// View is the read-only slice of the world the projector needs.
type View interface {
	PlayerID() string
	RoomIDs() []string
	PositionOf(id string) (spatial.Position, bool)
	ConnectionsOf(id string) map[spatial.Direction]string
	Visited(id string) bool
}

// Map symbols.
const (
	SymbolPlayer    = '@'
	SymbolOrigin    = 'S'
	SymbolVisited   = '■'
	SymbolUnvisited = '?'
	SymbolCorridorH = '─'
	SymbolCorridorV = '│'
	SymbolEmpty     = ' '
)

// Render draws the explored dungeon as a bordered width×height grid plus a
// legend. The player's cell is always (width/2, height/2); other rooms are
// placed relative to it and clipped to the bounds. Corridor glyphs are
// drawn only between mutually visited rooms, and only into empty cells.
func Render(v View, width, height int) string {
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = make([]rune, width)
		for x := range grid[y] {
			grid[y][x] = SymbolEmpty
		}
	}

	centerX, centerY := width/2, height/2
	playerID := v.PlayerID()
	playerPos, _ := v.PositionOf(playerID)

	// Lattice north is +Y but screen rows grow downward, so the Y offset
	// is negated when projecting.
	project := func(pos spatial.Position) (int, int) {
		return centerX + (pos.X - playerPos.X), centerY - (pos.Y - playerPos.Y)
	}
	inBounds := func(x, y int) bool {
		return x >= 0 && x < width && y >= 0 && y < height
	}

	for _, id := range v.RoomIDs() {
		pos, ok := v.PositionOf(id)
		if !ok {
			continue
		}
		x, y := project(pos)
		if !inBounds(x, y) {
			continue
		}
		// Rooms on other z-levels project onto the player's cell; the
		// player marker always wins it.
		if x == centerX && y == centerY && id != playerID {
			continue
		}

		switch {
		case id == playerID:
			grid[y][x] = SymbolPlayer
		case id == spatial.OriginID:
			if v.Visited(id) {
				grid[y][x] = SymbolOrigin
			} else {
				grid[y][x] = SymbolUnvisited
			}
		case v.Visited(id):
			grid[y][x] = SymbolVisited
		default:
			grid[y][x] = SymbolUnvisited
		}
	}

	for _, id := range v.RoomIDs() {
		if !v.Visited(id) {
			continue
		}
		pos, ok := v.PositionOf(id)
		if !ok {
			continue
		}
		x, y := project(pos)

		for dir, target := range v.ConnectionsOf(id) {
			if dir.IsVertical() || !v.Visited(target) {
				continue
			}
			var cx, cy int
			var glyph rune
			switch dir {
			case spatial.North:
				cx, cy, glyph = x, y-1, SymbolCorridorV
			case spatial.South:
				cx, cy, glyph = x, y+1, SymbolCorridorV
			case spatial.East:
				cx, cy, glyph = x+1, y, SymbolCorridorH
			case spatial.West:
				cx, cy, glyph = x-1, y, SymbolCorridorH
			}
			if inBounds(cx, cy) && grid[cy][cx] == SymbolEmpty {
				grid[cy][cx] = glyph
			}
		}
	}

	var b strings.Builder
	border := strings.Repeat("═", width+2)
	b.WriteString(fmt.Sprintf("╔%s╗\n", border))
	b.WriteString(fmt.Sprintf("║%s║\n", centerText("DUNGEON MAP", width+2)))
	b.WriteString(fmt.Sprintf("╠%s╣\n", border))
	for _, row := range grid {
		b.WriteString(fmt.Sprintf("║ %s ║\n", string(row)))
	}
	b.WriteString(fmt.Sprintf("╚%s╝\n", border))

	b.WriteString("\nLEGEND:\n")
	b.WriteString(fmt.Sprintf("  %c = You are here\n", SymbolPlayer))
	b.WriteString(fmt.Sprintf("  %c = Starting room\n", SymbolOrigin))
	b.WriteString(fmt.Sprintf("  %c = Visited room\n", SymbolVisited))
	b.WriteString(fmt.Sprintf("  %c = Known room\n", SymbolUnvisited))
	b.WriteString(fmt.Sprintf("  %c%c = Passages\n", SymbolCorridorH, SymbolCorridorV))

	return b.String()
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
