package scope

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objradar.klederson.com/internal/config"
	"objradar.klederson.com/internal/detection"
	"objradar.klederson.com/internal/radar"
	"objradar.klederson.com/internal/speech"
)

var _ speech.Sink = (*sinkRecorder)(nil)

type sinkRecorder struct {
	texts []string
}

func (s *sinkRecorder) Notify(text string) { s.texts = append(s.texts, text) }

// nullSurface counts frames without drawing.
type nullSurface struct {
	clears int
	rects  int
	texts  []string
}

func (n *nullSurface) Clear() { n.clears++ }
func (n *nullSurface) StrokeCircle(cx, cy, r float64, st radar.Style) {}
func (n *nullSurface) FillCircle(cx, cy, r float64, st radar.Style) {}
func (n *nullSurface) FillWedge(cx, cy, r, from, to float64, st radar.Style) {}
func (n *nullSurface) Line(x0, y0, x1, y1 float64, st radar.Style) {}
func (n *nullSurface) StrokeRect(x, y, w, h float64, st radar.Style) { n.rects++ }
func (n *nullSurface) Text(x, y float64, s string, st radar.Style) { n.texts = append(n.texts, s) }

func newTestScope(t *testing.T) (*State, *Poller, *sinkRecorder) {
	t.Helper()
	s := NewState(config.Default(), nil)
	sink := &sinkRecorder{}
	return s, NewPoller(s, sink, nil), sink
}

var testFrame = detection.Frame{Seq: 1, Width: 640, Height: 480}

func box(x, y float64) detection.BBox {
	return detection.BBox{X: x, Y: y, Width: 40, Height: 80}
}

func TestBeginRespectsToggleAndInFlight(t *testing.T) {
	s, p, _ := newTestScope(t)

	c1, ok := p.Begin()
	require.True(t, ok)
	assert.Equal(t, uint64(1), c1.Seq)
	assert.True(t, p.InFlight())

	_, ok = p.Begin()
	assert.False(t, ok, "one request at a time")

	p.Apply(c1, testFrame, nil, nil)
	assert.False(t, p.InFlight())

	s.Toggles.DetectionEnabled = false
	_, ok = p.Begin()
	assert.False(t, ok)

	s.Toggles.DetectionEnabled = true
	c2, ok := p.Begin()
	require.True(t, ok)
	assert.Equal(t, uint64(2), c2.Seq)
}

func TestApplyFilterExclusion(t *testing.T) {
	s, p, sink := newTestScope(t)
	s.Toggles.ClassFilter = "person"

	c, ok := p.Begin()
	require.True(t, ok)
	res := p.Apply(c, testFrame, []detection.Detection{
		{Class: "car", Score: 0.9, BBox: box(100, 100)},
		{Class: "person", Score: 0.6, BBox: box(400, 200)},
	}, nil)

	assert.Equal(t, 2, res.Raw)
	assert.Equal(t, 1, res.Kept)
	assert.Equal(t, 1, res.Reconcile.Created)
	require.Len(t, s.Current, 1)
	assert.Equal(t, "person", s.Current[0].Class)

	blips := s.Registry.Snapshot()
	require.Len(t, blips, 1)
	assert.Equal(t, "person", blips[0].Class)

	assert.Equal(t, []string{"1 person detected"}, sink.texts)

	overlay := &nullSurface{}
	s.Render(nil, overlay)
	assert.Equal(t, 2, overlay.rects, "frame border plus one box")
	assert.Equal(t, []string{"person 60.0%"}, overlay.texts)
}

func TestApplyScoreThreshold(t *testing.T) {
	tests := []struct {
		score float64
		kept  int
	}{
		{0.49, 0},
		{0.5, 0},
		{0.51, 1},
	}
	for _, tt := range tests {
		s, p, _ := newTestScope(t)
		c, _ := p.Begin()
		p.Apply(c, testFrame, []detection.Detection{{Class: "dog", Score: tt.score, BBox: box(10, 10)}}, nil)

		assert.Len(t, s.Current, tt.kept, "score %v", tt.score)
		assert.Equal(t, tt.kept, s.Registry.Len(), "score %v", tt.score)
	}
}

func TestApplyNotificationsOrderAndVoice(t *testing.T) {
	s, p, sink := newTestScope(t)
	batch := []detection.Detection{
		{Class: "dog", Score: 0.8, BBox: box(10, 10)},
		{Class: "person", Score: 0.9, BBox: box(300, 200)},
		{Class: "dog", Score: 0.7, BBox: box(500, 300)},
		{Class: "cup", Score: 0.3, BBox: box(200, 100)},
	}

	c, _ := p.Begin()
	res := p.Apply(c, testFrame, batch, nil)
	want := []string{"2 dogs detected", "1 person detected"}
	if diff := cmp.Diff(want, sink.texts); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, want, res.Notified)

	sink.texts = nil
	s.Toggles.VoiceEnabled = false
	c, _ = p.Begin()
	res = p.Apply(c, testFrame, batch, nil)
	assert.Empty(t, sink.texts)
	assert.Empty(t, res.Notified)
	assert.Equal(t, 3, res.Reconcile.Rearmed, "muting does not affect the radar")
}

func TestApplyUsesCycleFilter(t *testing.T) {
	s, p, _ := newTestScope(t)

	c, _ := p.Begin()
	// Filter changed while the request was in flight; the cycle keeps its snapshot.
	s.Toggles.ClassFilter = "person"
	p.Apply(c, testFrame, []detection.Detection{{Class: "car", Score: 0.9, BBox: box(10, 10)}}, nil)
	assert.Len(t, s.Current, 1)
}

func TestApplyAfterPause(t *testing.T) {
	s, p, _ := newTestScope(t)

	c, _ := p.Begin()
	s.Toggles.DetectionEnabled = false
	p.Apply(c, testFrame, []detection.Detection{{Class: "car", Score: 0.9, BBox: box(10, 10)}}, nil)

	assert.Equal(t, 1, s.Registry.Len(), "in-flight result still lands")
}

func TestApplyError(t *testing.T) {
	s, p, sink := newTestScope(t)
	s.Current = []detection.Detection{{Class: "old", Score: 0.9}}

	c, _ := p.Begin()
	res := p.Apply(c, testFrame, nil, errors.New("model rejected frame"))

	assert.Error(t, res.Err)
	assert.False(t, p.InFlight())
	assert.Len(t, s.Current, 1, "previous batch stays on screen")
	assert.Empty(t, sink.texts)
}

func TestApplyTracksFrameSize(t *testing.T) {
	s, p, _ := newTestScope(t)

	c, _ := p.Begin()
	p.Apply(c, detection.Frame{Seq: 7, Width: 1280, Height: 720}, []detection.Detection{
		{Class: "person", Score: 0.9, BBox: detection.BBox{X: 1260, Y: 340, Width: 40, Height: 40}},
	}, nil)

	assert.Equal(t, 1280, s.Frame.Width)
	blips := s.Registry.Snapshot()
	require.Len(t, blips, 1)
	assert.InDelta(t, s.Field.Radius, blips[0].Pos.X, 1e-9)
}

func TestToggleAnnouncements(t *testing.T) {
	s, p, sink := newTestScope(t)

	p.ToggleDetection()
	p.ToggleDetection()
	p.ToggleVoice()
	p.ToggleVoice()
	p.FilterTo("person")
	assert.Equal(t, "person", s.Toggles.ClassFilter)
	p.ClearFilter()
	assert.Empty(t, s.Toggles.ClassFilter)

	assert.Equal(t, []string{
		"Detection paused",
		"Detection started",
		"Voice muted",
		"Voice enabled",
		"Filtering for people only",
		"Showing all detected objects",
	}, sink.texts)
}

func TestFilterToEmptyClears(t *testing.T) {
	s, p, sink := newTestScope(t)

	p.FilterTo("bus")
	assert.Equal(t, "bus", s.Toggles.ClassFilter)
	p.FilterTo("")
	assert.Empty(t, s.Toggles.ClassFilter)

	assert.Equal(t, []string{
		"Filtering for buses only",
		"Showing all detected objects",
	}, sink.texts)
}

func TestRenderSweepsAndEvicts(t *testing.T) {
	s, p, _ := newTestScope(t)

	c, _ := p.Begin()
	// Box center on the left edge at mid height: bearing π.
	p.Apply(c, testFrame, []detection.Detection{{Class: "car", Score: 0.9, BBox: box(0, 200)}}, nil)
	require.Equal(t, 1, s.Registry.Len())

	field := &nullSurface{}
	overlay := &nullSurface{}

	visible := s.Render(field, overlay)
	assert.Len(t, visible, 1)
	assert.Equal(t, 1, s.Registry.Len())

	frames := 1
	for s.Registry.Len() > 0 && frames < 1000 {
		s.Render(field, overlay)
		frames++
	}
	// 62 * 0.05 is the first beam angle within 0.08 of π.
	assert.Equal(t, 62, frames)
	assert.Empty(t, s.Visible)
	assert.Equal(t, frames, field.clears)
	assert.Equal(t, frames, overlay.clears)
}

func TestRenderWithoutSurfaces(t *testing.T) {
	s, _, _ := newTestScope(t)
	s.Render(nil, nil)
	assert.InDelta(t, config.SweepStep, s.Sweep.Angle, 1e-12)
}

type fakeCamera struct {
	err error
}

func (f fakeCamera) Capture(ctx context.Context) (detection.Frame, error) {
	return testFrame, f.err
}
func (f fakeCamera) Close() error { return nil }

type fakeSource struct {
	dets []detection.Detection
	err  error
}

func (f fakeSource) Detect(ctx context.Context, frame detection.Frame) ([]detection.Detection, error) {
	return f.dets, f.err
}
func (f fakeSource) Close() error { return nil }

func TestFetch(t *testing.T) {
	ctx := context.Background()
	dets := []detection.Detection{{Class: "cat", Score: 0.8}}

	frame, got, err := Fetch(ctx, fakeCamera{}, fakeSource{dets: dets})
	require.NoError(t, err)
	assert.Equal(t, testFrame, frame)
	assert.Equal(t, dets, got)

	camErr := errors.New("no device")
	_, _, err = Fetch(ctx, fakeCamera{err: camErr}, fakeSource{})
	assert.ErrorIs(t, err, camErr)
	assert.Contains(t, err.Error(), "capture")

	srcErr := errors.New("inference failed")
	_, _, err = Fetch(ctx, fakeCamera{}, fakeSource{err: srcErr})
	assert.ErrorIs(t, err, srcErr)
	assert.Contains(t, err.Error(), "detect")
}

func TestNilSinkDiscards(t *testing.T) {
	s := NewState(config.Default(), nil)
	p := NewPoller(s, nil, nil)
	p.ToggleVoice()
	assert.False(t, s.Toggles.VoiceEnabled)
}
