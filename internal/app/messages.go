package app

import (
	"time"

	"objradar.klederson.com/internal/detection"
	"objradar.klederson.com/internal/scope"
)

// TickMsg triggers a frame update for animation.
type TickMsg time.Time

// PollMsg triggers a detection cycle.
type PollMsg time.Time

// DetectionsMsg carries the outcome of one capture and detect request.
type DetectionsMsg struct {
	Cycle      scope.Cycle
	Frame      detection.Frame
	Detections []detection.Detection
	Err        error
}
