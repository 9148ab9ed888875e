package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeondelve/internal/mapview"
)

// Renderer draws the map projection and status lines to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Frame is one rendered game frame: the projected map text (with or
// without its legend) and the status lines shown beneath it.
type Frame struct {
	MapText string
	Status  []string
}

// Render draws a frame. The map block starts at the top-left; status lines
// follow it.
func (r *Renderer) Render(frame Frame) {
	r.screen.Clear()

	y := 0
	for _, line := range strings.Split(strings.TrimRight(frame.MapText, "\n"), "\n") {
		x := 0
		for _, ch := range line {
			r.screen.SetContent(x, y, ch, r.glyphStyle(ch))
			x++
		}
		y++
	}

	y++
	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for _, line := range frame.Status {
		r.screen.Print(0, y, line, statusStyle)
		y++
	}

	r.screen.Show()
}

// glyphStyle returns the style for a map glyph.
func (r *Renderer) glyphStyle(ch rune) tcell.Style {
	switch ch {
	case mapview.SymbolPlayer:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case mapview.SymbolOrigin:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case mapview.SymbolVisited:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case mapview.SymbolUnvisited:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case mapview.SymbolCorridorH, mapview.SymbolCorridorV:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	default:
		return tcell.StyleDefault
	}
}
