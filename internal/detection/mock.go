package detection

import (
	"context"
	"math"
	"math/rand"
	"time"

	"objradar.klederson.com/internal/config"
)

var mockObjectTemplates = []struct {
	Class  string
	Width  float64 // fraction of frame width
	Height float64 // fraction of frame height
}{
	{"person", 0.18, 0.55},
	{"person", 0.15, 0.50},
	{"person", 0.20, 0.60},
	{"car", 0.35, 0.25},
	{"dog", 0.16, 0.14},
	{"cat", 0.12, 0.12},
	{"bicycle", 0.25, 0.22},
	{"chair", 0.14, 0.22},
	{"cup", 0.05, 0.07},
	{"laptop", 0.20, 0.15},
	{"bottle", 0.04, 0.10},
	{"cell phone", 0.05, 0.06},
}

type mockObject struct {
	class     string
	w, h      float64
	baseX     float64 // center, fraction of frame
	baseY     float64
	phase     float64
	amplitude float64 // wander, fraction of frame
	baseScore float64
	active    bool
}

// MockSource generates wandering synthetic detections for demo mode.
type MockSource struct {
	h       handle
	rng     *rand.Rand
	objects []mockObject
	t       float64
	latency time.Duration
}

// NewMockSource creates a mock detector seeded for reproducible output.
func NewMockSource(seed int64) *MockSource {
	rng := rand.New(rand.NewSource(seed))

	n := config.DemoObjectMin + rng.Intn(config.DemoObjectMax-config.DemoObjectMin+1)
	perm := rng.Perm(len(mockObjectTemplates))

	objects := make([]mockObject, 0, n)
	for i := 0; i < n && i < len(perm); i++ {
		tmpl := mockObjectTemplates[perm[i]]
		objects = append(objects, mockObject{
			class:     tmpl.Class,
			w:         tmpl.Width,
			h:         tmpl.Height,
			baseX:     0.1 + rng.Float64()*0.8,
			baseY:     0.1 + rng.Float64()*0.8,
			phase:     rng.Float64() * 2 * math.Pi,
			amplitude: 0.02 + rng.Float64()*0.15,
			baseScore: 0.35 + rng.Float64()*0.6, // some fall under the threshold
			active:    true,
		})
	}

	return &MockSource{rng: rng, objects: objects}
}

// WithLatency makes every Detect call take d, mimicking model inference time.
func (s *MockSource) WithLatency(d time.Duration) *MockSource {
	s.latency = d
	return s
}

// Detect returns the current synthetic objects in frame pixel coordinates.
func (s *MockSource) Detect(ctx context.Context, frame Frame) ([]Detection, error) {
	if s.latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.latency):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Detection
	err := s.h.use(func() error {
		out = s.step(frame)
		return nil
	})
	return out, err
}

// step advances the scene by one poll. The caller holds the handle.
func (s *MockSource) step(frame Frame) []Detection {
	s.t += config.PollInterval.Seconds()
	fw := float64(frame.Width)
	fh := float64(frame.Height)

	var out []Detection
	for i := range s.objects {
		o := &s.objects[i]

		// Randomly toggle object visibility (enter/leave the scene)
		if s.rng.Float64() < 0.08 {
			o.active = !o.active
		}
		if !o.active {
			continue
		}

		cx := o.baseX + o.amplitude*math.Sin(s.t*0.3+o.phase)
		cy := o.baseY + o.amplitude*math.Cos(s.t*0.2+o.phase)
		score := o.baseScore + (s.rng.Float64()-0.5)*0.1
		score = math.Max(0, math.Min(1, score))

		out = append(out, Detection{
			Class: o.class,
			Score: score,
			BBox: BBox{
				X:      (cx - o.w/2) * fw,
				Y:      (cy - o.h/2) * fh,
				Width:  o.w * fw,
				Height: o.h * fh,
			},
		})
	}
	return out
}

// Close makes later Detect calls fail with ErrClosed.
func (s *MockSource) Close() error {
	return s.h.release(func() error { return nil })
}

// MockCamera produces blank frames of a fixed size.
type MockCamera struct {
	h      handle
	width  int
	height int
	seq    uint64
}

// NewMockCamera creates a synthetic camera.
func NewMockCamera(width, height int) *MockCamera {
	return &MockCamera{width: width, height: height}
}

// Capture returns the next synthetic frame.
func (c *MockCamera) Capture(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	var frame Frame
	err := c.h.use(func() error {
		c.seq++
		frame = Frame{Seq: c.seq, Width: c.width, Height: c.height}
		return nil
	})
	return frame, err
}

// Close makes later Capture calls fail with ErrClosed.
func (c *MockCamera) Close() error {
	return c.h.release(func() error { return nil })
}
