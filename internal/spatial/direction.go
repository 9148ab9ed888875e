// Package spatial implements the dungeon's coordinate model: an unbounded
// integer lattice of rooms, a bidirectional connection graph between them,
// and the procedural generation policy that grows the graph as the player
// explores. All mutable state is owned by a single Navigator per world.
package spatial

import "fmt"

// Direction is one of the six cardinal/vertical movement directions.
type Direction int

const (
	North Direction = iota
	South
	East
	West
	Up
	Down

	// NoDirection marks the absence of a direction, e.g. the origin room
	// has no entry direction.
	NoDirection Direction = -1
)

// directionCount is the number of real directions.
const directionCount = 6

var directionNames = [directionCount]string{"north", "south", "east", "west", "up", "down"}

var directionVectors = [directionCount]Position{
	{X: 0, Y: 1, Z: 0},  // north
	{X: 0, Y: -1, Z: 0}, // south
	{X: 1, Y: 0, Z: 0},  // east
	{X: -1, Y: 0, Z: 0}, // west
	{X: 0, Y: 0, Z: 1},  // up
	{X: 0, Y: 0, Z: -1}, // down
}

var directionOpposites = [directionCount]Direction{South, North, West, East, Down, Up}

// Directions returns all six directions in a fixed, deterministic order.
func Directions() []Direction {
	return []Direction{North, South, East, West, Up, Down}
}

// String returns the lowercase direction name.
func (d Direction) String() string {
	if d < 0 || int(d) >= directionCount {
		return "invalid"
	}
	return directionNames[d]
}

// Letter returns the single-letter form used in room identifiers.
func (d Direction) Letter() string {
	if d < 0 || int(d) >= directionCount {
		return ""
	}
	return directionNames[d][:1]
}

// Vector returns the unit lattice offset for the direction.
func (d Direction) Vector() Position {
	return directionVectors[d]
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return directionOpposites[d]
}

// IsVertical reports whether the direction moves along the z axis.
func (d Direction) IsVertical() bool {
	return d == Up || d == Down
}

// ParseDirection converts a direction name ("north", "up", ...) to a Direction.
func ParseDirection(name string) (Direction, error) {
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return NoDirection, fmt.Errorf("unknown direction %q", name)
}
