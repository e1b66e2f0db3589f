package radar

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"objradar.klederson.com/internal/detection"
)

// Angles follow the display plane: 0 points east (+x) and, because y grows
// downward, positive angles turn clockwise on screen.

const twoPi = 2 * math.Pi

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	// Adding 2π to a tiny negative value can round up to exactly 2π.
	if a >= twoPi {
		a = 0
	}
	return a
}

// AngleDiff returns the shortest angular distance between two angles.
// Result is in [0, π].
func AngleDiff(a, b float64) float64 {
	d := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	return math.Min(d, twoPi-d)
}

// Bearing returns the angle of a display-plane offset, in (-π, π].
func Bearing(p r2.Vec) float64 {
	return math.Atan2(p.Y, p.X)
}

// RingChar returns the character tracing a circle at the given angle.
func RingChar(angle float64) rune {
	// 8 sectors for character selection
	sector := int(math.Round(NormalizeAngle(angle)/(math.Pi/4))) % 8

	switch sector {
	case 0, 4: // East, West
		return '|'
	case 1, 5: // SE, NW
		return '/'
	case 2, 6: // South, North
		return '-'
	case 3, 7: // SW, NE
		return '\\'
	default:
		return '.'
	}
}

// Polar is a detection's position on the scope.
type Polar struct {
	Pos      r2.Vec  // display-plane offset from the scope center
	Distance float64 // normalized range in [0, 1]
}

// Mapper converts source-frame boxes into scope positions.
type Mapper struct {
	FrameWidth  float64
	FrameHeight float64
	Radius      float64
}

// NewMapper builds a Mapper for a frame. Zero frame dimensions are a caller error.
func NewMapper(frame detection.Frame, radius float64) Mapper {
	return Mapper{
		FrameWidth:  float64(frame.Width),
		FrameHeight: float64(frame.Height),
		Radius:      radius,
	}
}

// Map places the box center on the scope. Both axes are normalized to
// [-1, 1] around the frame center; anything past the unit circle is pinned
// to the boundary rather than dropped.
func (m Mapper) Map(b detection.BBox) Polar {
	cx, cy := b.Center()
	v := r2.Vec{
		X: cx/m.FrameWidth*2 - 1,
		Y: cy/m.FrameHeight*2 - 1,
	}

	dist := r2.Norm(v)
	if dist > 1 {
		v = r2.Scale(1/dist, v)
		dist = 1
	}

	return Polar{
		Pos:      r2.Scale(m.Radius, v),
		Distance: dist,
	}
}
