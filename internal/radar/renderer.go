package radar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"objradar.klederson.com/internal/config"
	"objradar.klederson.com/internal/detection"
)

var (
	colorBright   = lipgloss.Color("#00FF41")
	colorMid      = lipgloss.Color("#008F11")
	colorDim      = lipgloss.Color("#004A0A")
	colorBlip     = lipgloss.Color("#FF0000")
	colorBlipCore = lipgloss.Color("#FF6464")
	colorOverlay  = lipgloss.Color("#32CD32") // lime

	styleCenter   = Style{Color: colorBright, Glyph: '+', Bold: true}
	styleBorder   = Style{Color: colorBright, Bold: true}
	styleRing     = Style{Color: colorMid}
	styleCrossH   = Style{Color: colorMid, Glyph: '-'}
	styleCrossV   = Style{Color: colorMid, Glyph: '|'}
	styleDot      = Style{Color: colorDim, Glyph: '.'}
	styleBeam     = Style{Color: colorBright, Glyph: '#', Bold: true}
	styleBlip     = Style{Color: colorBlip, Glyph: 'o', Bold: true}
	styleBlipCore = Style{Color: colorBlipCore, Glyph: '@', Bold: true}
	styleFrame    = Style{Color: colorDim}
	styleBox      = Style{Color: colorOverlay}
	styleBoxLabel = Style{Color: colorOverlay, Bold: true}

	styleLegBlip = lipgloss.NewStyle().Foreground(colorBlip)
	styleLegBeam = lipgloss.NewStyle().Foreground(colorBright)
)

const trailSegments = 6

// Field locates the scope on a surface.
type Field struct {
	CX, CY float64
	Radius float64
}

// NewField centers a scope of the given radius inside a square of side
// 2*(radius+margin).
func NewField(radius, margin float64) Field {
	return Field{CX: radius + margin, CY: radius + margin, Radius: radius}
}

// Size returns the side of the square the field occupies.
func (f Field) Size() float64 {
	return 2 * f.CX
}

// DrawField redraws the scope background, rings, cross and sweep beam.
func DrawField(s Surface, f Field, sw *Sweep) {
	s.Clear()

	s.FillCircle(f.CX, f.CY, f.Radius, styleDot)
	s.StrokeCircle(f.CX, f.CY, f.Radius, styleBorder)

	// Range rings
	step := f.Radius / config.RingCount
	for r := step; r < f.Radius-1e-9; r += step {
		s.StrokeCircle(f.CX, f.CY, r, styleRing)
	}

	// Cross lines
	s.Line(f.CX-f.Radius, f.CY, f.CX+f.Radius, f.CY, styleCrossH)
	s.Line(f.CX, f.CY-f.Radius, f.CX, f.CY+f.Radius, styleCrossV)

	// Fading trail, oldest segment first so newer ones paint over it.
	seg := config.SweepTrailRad / float64(trailSegments)
	for k := trailSegments - 1; k >= 0; k-- {
		to := sw.Angle - float64(k)*seg
		from := to - seg
		st := Style{Color: sweepColor(sw.Intensity(to-seg/2, config.SweepTrailRad)), Glyph: ':'}
		s.FillWedge(f.CX, f.CY, f.Radius, NormalizeAngle(from), NormalizeAngle(to), st)
	}

	// Beam
	s.FillWedge(f.CX, f.CY, f.Radius,
		NormalizeAngle(sw.Angle-config.SweepWedgeHalf), NormalizeAngle(sw.Angle+config.SweepWedgeHalf), styleBeam)

	s.Text(f.CX, f.CY, "+", styleCenter)
}

// DrawBlips draws the given blips as red contacts.
func DrawBlips(s Surface, f Field, blips []Blip) {
	for _, b := range blips {
		x := f.CX + b.Pos.X
		y := f.CY + b.Pos.Y
		s.FillCircle(x, y, config.BlipRadius, styleBlip)
		s.FillCircle(x, y, config.BlipCoreRadius, styleBlipCore)
	}
}

// DrawOverlay redraws detection boxes on a surface of logical size w x h,
// scaling from the source frame.
func DrawOverlay(s Surface, w, h float64, frame detection.Frame, dets []detection.Detection) {
	s.Clear()
	s.StrokeRect(0, 0, w, h, styleFrame)

	if frame.Width == 0 || frame.Height == 0 {
		return
	}
	scaleX := w / float64(frame.Width)
	scaleY := h / float64(frame.Height)

	for _, d := range dets {
		if !detection.Accepted(d.Score) {
			continue
		}
		x := d.BBox.X * scaleX
		y := d.BBox.Y * scaleY
		s.StrokeRect(x, y, d.BBox.Width*scaleX, d.BBox.Height*scaleY, styleBox)
		s.Text(x, LabelY(y), d.Label(), styleBoxLabel)
	}
}

// LabelY places a box caption just above the box, or inside it when the box
// touches the top edge.
func LabelY(top float64) float64 {
	if top > 12 {
		return top - 2
	}
	return top + 14
}

func sweepColor(intensity float64) lipgloss.Color {
	if intensity > 0.8 {
		return "#00FF41"
	}
	if intensity > 0.5 {
		return "#00CC33"
	}
	if intensity > 0.3 {
		return "#00AA22"
	}
	return "#005511"
}

// RenderLegend produces the radar legend line.
func RenderLegend(width int) string {
	legend := "   " +
		styleLegBlip.Render("@ contact") +
		"  " +
		styleLegBeam.Render("# sweep")

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
