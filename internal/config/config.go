package config

import "time"

const (
	// Radar display (logical units, the scope is 2*RadarRadius wide)
	RadarRadius    = 185.0
	RadarMargin    = 8.0
	AspectRatio    = 0.5 // Terminal char aspect correction (chars are ~2:1 tall)
	RingCount      = 5   // Rings drawn every RadarRadius/RingCount
	BlipRadius     = 7.0 // Outer blip glow
	BlipCoreRadius = 3.0 // Inner blip core
	TargetFPS      = 30  // Target frames per second

	// Sweep
	SweepStep      = 0.05 // Radians advanced per rendered frame
	SweepTolerance = 0.08 // Angular distance under which the beam sweeps a blip
	SweepWedgeHalf = 0.04 // Half width of the drawn beam
	SweepTrailRad  = 0.9  // Length of the fading trail behind the beam

	// Contacts
	ProximityThreshold = 10.0 // Display units; closer positions are the same contact
	AcceptScore        = 0.5  // Detections must score strictly above this

	// Detection polling
	PollInterval = 2500 * time.Millisecond

	// Source frame (camera default and demo frame size)
	FrameWidth  = 640
	FrameHeight = 480

	// Detection overlay (logical units)
	OverlayWidth  = 640.0
	OverlayHeight = 480.0

	// Class used by the filter key
	DefaultFilterClass = "person"

	// Notifications
	SpeechQueueSize = 16
	SpeechTimeout   = 10 * time.Second

	// Detection counts kept for the history sparkline
	HistorySize = 64

	// Demo mode
	DemoObjectMin = 3
	DemoObjectMax = 7

	// App
	AppName    = "OBJ-RADAR"
	AppVersion = "1.0"
)
