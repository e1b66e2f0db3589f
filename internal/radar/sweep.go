package radar

import "math"

// Sweep manages the rotating beam. It is advanced by a fixed step per
// rendered frame rather than by wall time, so tests can drive it exactly.
type Sweep struct {
	Angle     float64 // Current angle in radians [0, 2π)
	Step      float64 // Radians per Tick
	Tolerance float64 // Half width of the window that sweeps a blip
}

// NewSweep creates a sweep starting at angle 0 (east).
func NewSweep(step, tolerance float64) *Sweep {
	return &Sweep{
		Step:      step,
		Tolerance: tolerance,
	}
}

// Advance moves the beam by delta radians, wrapping into [0, 2π).
func (s *Sweep) Advance(delta float64) {
	s.Angle = NormalizeAngle(s.Angle + delta)
}

// Tick advances the beam by one frame step.
func (s *Sweep) Tick() {
	s.Advance(s.Step)
}

// Window is the angular range the beam currently covers.
type Window struct {
	Center    float64
	HalfWidth float64
}

// Contains reports whether an angle lies strictly inside the window,
// measured along the shortest arc.
func (w Window) Contains(angle float64) bool {
	return AngleDiff(w.Center, angle) < w.HalfWidth
}

// Bounds returns the window edges, each normalized to [0, 2π). From may be
// greater than To when the window straddles 0.
func (w Window) Bounds() (from, to float64) {
	return NormalizeAngle(w.Center - w.HalfWidth), NormalizeAngle(w.Center + w.HalfWidth)
}

// Window returns the current sweep window.
func (s *Sweep) Window() Window {
	return Window{Center: s.Angle, HalfWidth: s.Tolerance}
}

// Covers reports whether the beam is over the given angle.
func (s *Sweep) Covers(angle float64) bool {
	return s.Window().Contains(angle)
}

// Degrees returns the current sweep angle in degrees.
func (s *Sweep) Degrees() float64 {
	return s.Angle * 180 / math.Pi
}

// Intensity returns the glow intensity [0, 1] for a given angle.
// The beam leaves a trail of trail radians behind it.
// Returns 0 if the angle is outside the trail.
func (s *Sweep) Intensity(angle, trail float64) float64 {
	// How far behind the beam this angle is
	diff := NormalizeAngle(s.Angle - angle)
	if trail <= 0 || diff > trail {
		return 0
	}

	// Linear falloff: 1.0 at beam head → 0.0 at trail end
	return 1.0 - diff/trail
}
