package radar

import "github.com/charmbracelet/lipgloss"

// Style is how a primitive is painted. A zero Glyph lets the surface pick
// one (ring characters for circles, line characters for lines).
type Style struct {
	Color lipgloss.Color
	Glyph rune
	Bold  bool
}

// Surface is a drawing target in its own logical coordinate space, y down.
// Callers redraw everything each frame and never rely on retained state.
type Surface interface {
	Clear()
	StrokeCircle(cx, cy, r float64, st Style)
	FillCircle(cx, cy, r float64, st Style)
	// FillWedge fills the sector of radius r from angle from to angle to,
	// turning clockwise; from may exceed to when the sector straddles 0.
	FillWedge(cx, cy, r, from, to float64, st Style)
	Line(x0, y0, x1, y1 float64, st Style)
	StrokeRect(x, y, w, h float64, st Style)
	Text(x, y float64, s string, st Style)
}
