package ui

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"objradar.klederson.com/internal/config"
	"objradar.klederson.com/internal/radar"
)

const compassUnits = 100.0

// RenderCompass renders a small dial with an arrow pointing along bearing
// (radians, display convention: 0 east, clockwise). rangeFrac in [0, 1] is
// the contact's normalized distance; nearer contacts get a longer arrow.
func RenderCompass(width, height int, bearing, rangeFrac float64) string {
	if width < 9 || height < 5 {
		return ""
	}

	// Logical height is stretched so the dial looks round on tall cells.
	logicalH := compassUnits * float64(height) / (float64(width) * config.AspectRatio)
	cv := NewCanvas(width, height, compassUnits, logicalH)

	cx, cy := compassUnits/2, logicalH/2
	r := math.Min(cx, cy) * 0.8

	ringSty := radar.Style{Color: ColorDimGreen}
	axisSty := radar.Style{Color: lipgloss.Color("#003300"), Glyph: '.'}
	markSty := radar.Style{Color: ColorMatrixGreen, Bold: true}
	arrowSty := radar.Style{Color: rangeColor(rangeFrac), Bold: true}

	cv.StrokeCircle(cx, cy, r, ringSty)
	cv.Line(cx-r, cy, cx+r, cy, axisSty)
	cv.Line(cx, cy-r, cx, cy+r, axisSty)

	gap := r + math.Max(cv.cellW(), cv.cellH())
	cv.Text(cx, cy-gap, "N", markSty)
	cv.Text(cx, cy+gap, "S", markSty)
	cv.Text(cx+gap, cy, "E", markSty)
	cv.Text(cx-gap, cy, "W", markSty)

	frac := 0.85 - 0.55*math.Min(math.Max(rangeFrac, 0), 1)
	tipX := cx + r*frac*math.Cos(bearing)
	tipY := cy + r*frac*math.Sin(bearing)
	cv.Line(cx, cy, tipX, tipY, arrowSty)
	cv.Text(tipX, tipY, string(arrowTip(bearing)), arrowSty)
	cv.Text(cx, cy, "+", markSty)

	return cv.String()
}

// arrowTip returns the arrowhead for a bearing.
func arrowTip(a float64) rune {
	switch int(math.Round(radar.NormalizeAngle(a)/(math.Pi/4))) % 8 {
	case 0:
		return '>'
	case 2:
		return 'v'
	case 4:
		return '<'
	case 6:
		return '^'
	}
	return '*'
}

// bearingDir names the compass direction of a bearing, screen up as north.
func bearingDir(a float64) string {
	dirs := []string{"E", "SE", "S", "SW", "W", "NW", "N", "NE"}
	return dirs[int(math.Round(radar.NormalizeAngle(a)/(math.Pi/4)))%8]
}

// rangeColor maps a normalized distance to a green shade, brighter when close.
func rangeColor(frac float64) lipgloss.Color {
	switch {
	case frac < 0.2:
		return "#00FF41"
	case frac < 0.4:
		return "#00CC33"
	case frac < 0.6:
		return "#00AA22"
	case frac < 0.8:
		return "#008F11"
	}
	return "#005511"
}
