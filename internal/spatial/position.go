package spatial

import "fmt"

// Position is a point on the dungeon's integer lattice.
// X grows east, Y grows north, Z grows up.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Origin is the position of the starting room.
var Origin = Position{}

// Add returns the position one step in the given direction.
func (p Position) Add(d Direction) Position {
	v := d.Vector()
	return Position{X: p.X + v.X, Y: p.Y + v.Y, Z: p.Z + v.Z}
}

// Sub returns the component-wise difference p - o.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

// String formats the position as "(x,y,z)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}
