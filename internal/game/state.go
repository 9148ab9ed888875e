// Package game provides the main game loop and state management.
package game

// Mode controls what the explorer shows alongside the map.
type Mode int

const (
	// ModeExplore shows the map and status line only.
	ModeExplore Mode = iota
	// ModeLegend additionally shows the map legend.
	ModeLegend
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeExplore:
		return "explore"
	case ModeLegend:
		return "legend"
	default:
		return "unknown"
	}
}
