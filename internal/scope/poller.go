package scope

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"objradar.klederson.com/internal/detection"
	"objradar.klederson.com/internal/logging"
	"objradar.klederson.com/internal/radar"
	"objradar.klederson.com/internal/speech"
)

// Cycle is one poll, with the toggles captured when it started.
type Cycle struct {
	Seq    uint64
	Filter string
}

// Result summarizes an applied poll.
type Result struct {
	Seq       uint64
	Raw       int // detections returned by the source
	Kept      int // detections left after score and class filtering
	Reconcile radar.ReconcileResult
	Notified  []string
	Err       error
}

// Poller turns detection batches into scope updates and notifications.
type Poller struct {
	state    *State
	sink     speech.Sink
	log      logrus.FieldLogger
	seq      uint64
	inFlight bool
}

// NewPoller creates a poller bound to state. A nil sink discards notifications.
func NewPoller(state *State, sink speech.Sink, log logrus.FieldLogger) *Poller {
	if sink == nil {
		sink = speech.Discard
	}
	return &Poller{
		state: state,
		sink:  sink,
		log:   logging.OrDiscard(log),
	}
}

// Begin starts a cycle. It returns false when detection is paused or the
// previous request has not come back yet; the source never sees two
// concurrent calls.
func (p *Poller) Begin() (Cycle, bool) {
	if !p.state.Toggles.DetectionEnabled || p.inFlight {
		return Cycle{}, false
	}
	p.seq++
	p.inFlight = true
	return Cycle{Seq: p.seq, Filter: p.state.Toggles.ClassFilter}, true
}

// InFlight reports whether a detect request is outstanding.
func (p *Poller) InFlight() bool {
	return p.inFlight
}

// Apply folds the outcome of cycle c into the scope. A batch arriving after
// detection was paused is still applied: pausing gates new cycles only.
func (p *Poller) Apply(c Cycle, frame detection.Frame, batch []detection.Detection, err error) Result {
	p.inFlight = false
	res := Result{Seq: c.Seq, Raw: len(batch), Err: err}

	if err != nil {
		p.log.WithError(err).WithField("seq", c.Seq).Warn("detect failed")
		return res
	}

	kept := detection.Chain(detection.ScoreAbove(), detection.ClassIs(c.Filter))(batch)
	res.Kept = len(kept)

	p.state.Current = kept
	if frame.Width > 0 && frame.Height > 0 {
		p.state.Frame = frame
	}

	mapper := radar.NewMapper(p.state.Frame, p.state.Field.Radius)
	res.Reconcile = p.state.Registry.Reconcile(kept, mapper, p.state.Threshold)

	for _, cc := range detection.CountClasses(kept) {
		if !p.state.Toggles.VoiceEnabled {
			continue
		}
		text := cc.Phrase()
		p.sink.Notify(text)
		res.Notified = append(res.Notified, text)
	}

	p.log.WithFields(logrus.Fields{
		"seq":     c.Seq,
		"raw":     res.Raw,
		"kept":    res.Kept,
		"created": res.Reconcile.Created,
		"rearmed": res.Reconcile.Rearmed,
		"blips":   p.state.Registry.Len(),
		"filter":  c.Filter,
	}).Debug("poll applied")

	return res
}

// Fetch captures a frame and runs detection on it.
func Fetch(ctx context.Context, cam detection.Camera, src detection.Source) (detection.Frame, []detection.Detection, error) {
	frame, err := cam.Capture(ctx)
	if err != nil {
		return detection.Frame{}, nil, fmt.Errorf("capture: %w", err)
	}
	dets, err := src.Detect(ctx, frame)
	if err != nil {
		return frame, nil, fmt.Errorf("detect: %w", err)
	}
	return frame, dets, nil
}

// ToggleDetection pauses or resumes polling and announces it.
func (p *Poller) ToggleDetection() {
	p.state.Toggles.DetectionEnabled = !p.state.Toggles.DetectionEnabled
	if p.state.Toggles.DetectionEnabled {
		p.announce("Detection started")
	} else {
		p.announce("Detection paused")
	}
}

// ToggleVoice mutes or unmutes detection notifications and announces it.
func (p *Poller) ToggleVoice() {
	p.state.Toggles.VoiceEnabled = !p.state.Toggles.VoiceEnabled
	if p.state.Toggles.VoiceEnabled {
		p.announce("Voice enabled")
	} else {
		p.announce("Voice muted")
	}
}

// FilterTo restricts later cycles to one class. An empty class clears the
// filter.
func (p *Poller) FilterTo(class string) {
	if class == "" {
		p.ClearFilter()
		return
	}
	p.state.Toggles.ClassFilter = class
	p.announce(fmt.Sprintf("Filtering for %s only", detection.Plural(class)))
}

// ClearFilter lets every class through again.
func (p *Poller) ClearFilter() {
	p.state.Toggles.ClassFilter = ""
	p.announce("Showing all detected objects")
}

// Control announcements bypass the voice toggle so muting is confirmed aloud.
func (p *Poller) announce(text string) {
	p.log.WithField("toggles", fmt.Sprintf("%+v", p.state.Toggles)).Info(text)
	p.sink.Notify(text)
}
