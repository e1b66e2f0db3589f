package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()

	require.NoError(t, s.Validate())
	assert.Equal(t, RadarRadius, s.Radius)
	assert.Equal(t, ProximityThreshold, s.ProximityThreshold)
	assert.Equal(t, PollInterval, s.Poll())
	assert.Equal(t, time.Second/TargetFPS, s.FrameInterval())
	assert.True(t, s.DetectionEnabled)
	assert.True(t, s.VoiceEnabled)
	assert.Equal(t, "person", s.FilterClass)
	assert.Empty(t, s.ActiveFilter)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "partial.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"poll_interval": "1s", "voice_enabled": false}`), 0o644))

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, time.Second, s.Poll())
		assert.False(t, s.VoiceEnabled)
		assert.Equal(t, RadarRadius, s.Radius)
		assert.Equal(t, SweepStep, s.SweepStep)
	})

	t.Run("wrong extension", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "settings.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".json extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"radius":`), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"radius": -1}`), 0o644))

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero radius", func(s *Settings) { s.Radius = 0 }},
		{"zero proximity", func(s *Settings) { s.ProximityThreshold = 0 }},
		{"negative step", func(s *Settings) { s.SweepStep = -0.1 }},
		{"step skips window", func(s *Settings) { s.SweepStep = 0.2; s.SweepTolerance = 0.08 }},
		{"bad poll interval", func(s *Settings) { s.PollInterval = "soon" }},
		{"zero poll interval", func(s *Settings) { s.PollInterval = "0s" }},
		{"zero fps", func(s *Settings) { s.FPS = 0 }},
		{"empty frame", func(s *Settings) { s.FrameWidth = 0 }},
		{"empty filter class", func(s *Settings) { s.FilterClass = "" }},
		{"blank filter class", func(s *Settings) { s.FilterClass = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), ErrInvalid)
		})
	}
}

func TestPollFallback(t *testing.T) {
	s := Default()
	s.PollInterval = "garbage"
	assert.Equal(t, PollInterval, s.Poll())
}
