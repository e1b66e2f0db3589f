// Package scope holds the radar's mutable state and the two tasks that drive
// it: the per-frame render step and the periodic detection poll. Both are
// invoked from one event loop, one message at a time, so nothing here locks.
package scope

import (
	"github.com/sirupsen/logrus"

	"objradar.klederson.com/internal/config"
	"objradar.klederson.com/internal/detection"
	"objradar.klederson.com/internal/logging"
	"objradar.klederson.com/internal/radar"
)

// Toggles are the operator controls, read at the start of each poll.
type Toggles struct {
	DetectionEnabled bool
	VoiceEnabled     bool
	ClassFilter      string // exact class to keep, "" keeps all
}

// State is everything the render step and the poller share. The registry and
// current detections are written by the poller (and the sweep pass); the
// sweep angle is written only by the render step.
type State struct {
	Registry *radar.Registry
	Sweep    *radar.Sweep
	Field    radar.Field
	Toggles  Toggles

	// Latest filtered batch and the frame it came from, for the overlay.
	Current []detection.Detection
	Frame   detection.Frame

	// Blips drawn on the last frame.
	Visible []radar.Blip

	Threshold     float64
	OverlayWidth  float64
	OverlayHeight float64

	log logrus.FieldLogger
}

// NewState builds an empty scope from settings.
func NewState(s *config.Settings, log logrus.FieldLogger) *State {
	log = logging.OrDiscard(log)
	return &State{
		Registry: radar.NewRegistry(log.WithField("component", "registry")),
		Sweep:    radar.NewSweep(s.SweepStep, s.SweepTolerance),
		Field:    radar.NewField(s.Radius, config.RadarMargin),
		Toggles: Toggles{
			DetectionEnabled: s.DetectionEnabled,
			VoiceEnabled:     s.VoiceEnabled,
			ClassFilter:      s.ActiveFilter,
		},
		Frame:         detection.Frame{Width: s.FrameWidth, Height: s.FrameHeight},
		Threshold:     s.ProximityThreshold,
		OverlayWidth:  config.OverlayWidth,
		OverlayHeight: config.OverlayHeight,
		log:           log,
	}
}

// Render runs one display frame: advance the beam, redraw the field, sweep
// and draw the surviving blips, then redraw the detection overlay. Either
// surface may be nil when that panel is hidden; the state still advances.
func (s *State) Render(field, overlay radar.Surface) []radar.Blip {
	s.Sweep.Tick()

	if field != nil {
		radar.DrawField(field, s.Field, s.Sweep)
	}

	visible, evicted := s.Registry.SweepPass(s.Sweep)
	if evicted > 0 {
		s.log.WithFields(logrus.Fields{
			"evicted": evicted,
			"blips":   s.Registry.Len(),
			"sweep":   int(s.Sweep.Degrees()),
		}).Debug("sweep pass")
	}

	if field != nil {
		radar.DrawBlips(field, s.Field, visible)
	}
	if overlay != nil {
		radar.DrawOverlay(overlay, s.OverlayWidth, s.OverlayHeight, s.Frame, s.Current)
	}

	s.Visible = visible
	return visible
}
