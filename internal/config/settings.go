package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid settings")

const maxSettingsSize = 1 * 1024 * 1024 // 1MB

// Settings holds the tunables that may be overridden from a JSON file or flags.
// Fields omitted from the file keep their defaults.
type Settings struct {
	Radius             float64 `json:"radius"`
	ProximityThreshold float64 `json:"proximity_threshold"`
	SweepStep          float64 `json:"sweep_step"`
	SweepTolerance     float64 `json:"sweep_tolerance"`
	PollInterval       string  `json:"poll_interval"` // duration string like "2500ms"
	FPS                int     `json:"fps"`

	FrameWidth  int `json:"frame_width"`
	FrameHeight int `json:"frame_height"`

	DetectionEnabled bool   `json:"detection_enabled"`
	VoiceEnabled     bool   `json:"voice_enabled"`
	FilterClass      string `json:"filter_class"`  // class selected by the filter key
	ActiveFilter     string `json:"active_filter"` // filter applied at startup, "" = all classes
	SpeechCommand    string `json:"speech_command"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Radius:             RadarRadius,
		ProximityThreshold: ProximityThreshold,
		SweepStep:          SweepStep,
		SweepTolerance:     SweepTolerance,
		PollInterval:       PollInterval.String(),
		FPS:                TargetFPS,
		FrameWidth:         FrameWidth,
		FrameHeight:        FrameHeight,
		DetectionEnabled:   true,
		VoiceEnabled:       true,
		FilterClass:        DefaultFilterClass,
	}
}

// Load reads settings from a JSON file on top of Default.
func Load(path string) (*Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxSettingsSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxSettingsSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	s := Default()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Poll returns the parsed poll interval.
func (s *Settings) Poll() time.Duration {
	d, err := time.ParseDuration(s.PollInterval)
	if err != nil || d <= 0 {
		return PollInterval
	}
	return d
}

// FrameInterval returns the render period for the configured FPS.
func (s *Settings) FrameInterval() time.Duration {
	if s.FPS <= 0 {
		return time.Second / TargetFPS
	}
	return time.Second / time.Duration(s.FPS)
}

// Validate checks that the settings describe a usable scope.
func (s *Settings) Validate() error {
	if s.Radius <= 0 {
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalid, s.Radius)
	}
	if s.ProximityThreshold <= 0 {
		return fmt.Errorf("%w: proximity_threshold must be positive, got %v", ErrInvalid, s.ProximityThreshold)
	}
	if s.SweepStep <= 0 || s.SweepTolerance <= 0 {
		return fmt.Errorf("%w: sweep_step and sweep_tolerance must be positive", ErrInvalid)
	}
	// A step wider than the window lets the beam jump over a contact.
	if s.SweepStep >= 2*s.SweepTolerance {
		return fmt.Errorf("%w: sweep_step %.3f must be below twice sweep_tolerance %.3f",
			ErrInvalid, s.SweepStep, s.SweepTolerance)
	}
	if d, err := time.ParseDuration(s.PollInterval); err != nil || d <= 0 {
		return fmt.Errorf("%w: poll_interval %q is not a positive duration", ErrInvalid, s.PollInterval)
	}
	if s.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, s.FPS)
	}
	if s.FrameWidth <= 0 || s.FrameHeight <= 0 {
		return fmt.Errorf("%w: frame size must be positive, got %dx%d", ErrInvalid, s.FrameWidth, s.FrameHeight)
	}
	if strings.TrimSpace(s.FilterClass) == "" {
		return fmt.Errorf("%w: filter_class must name a class", ErrInvalid)
	}
	return nil
}
