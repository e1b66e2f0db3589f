package radar

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r2"

	"objradar.klederson.com/internal/detection"
	"objradar.klederson.com/internal/logging"
)

// Blip is a contact on the scope.
type Blip struct {
	ID    string
	Pos   r2.Vec  // display-plane offset from the scope center
	Angle float64 // bearing at creation, (-π, π]
	Swept bool    // set when the beam passes; swept blips are evicted
	Class string  // class of the detection that created it
	Hits  int     // detections folded into this blip, including the first
	Born  time.Time
}

// ShortID returns the first eight hex digits of the blip's UUID.
func (b Blip) ShortID() string {
	id := b.ID
	if len(id) > 12 {
		return id[4:12]
	}
	return id
}

// ReconcileResult summarizes one Reconcile pass.
type ReconcileResult struct {
	Accepted int // detections above the score threshold
	Created  int
	Rearmed  int
}

// Registry holds the live blips in insertion order. It is owned by a single
// event loop and is not safe for concurrent use.
type Registry struct {
	blips []*Blip
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(log logrus.FieldLogger) *Registry {
	return &Registry{
		log: logging.OrDiscard(log),
		now: time.Now,
	}
}

// Reconcile folds a detection batch into the blip set. Each detection above
// the score threshold re-arms the first blip (in insertion order) within
// threshold display units, or else becomes a new blip. Blips created earlier
// in the same pass are candidates too.
func (r *Registry) Reconcile(dets []detection.Detection, m Mapper, threshold float64) ReconcileResult {
	var res ReconcileResult
	for _, d := range dets {
		if !detection.Accepted(d.Score) {
			continue
		}
		res.Accepted++

		p := m.Map(d.BBox)
		if b := r.find(p.Pos, threshold); b != nil {
			b.Swept = false
			b.Hits++
			res.Rearmed++
			continue
		}

		b := &Blip{
			ID:    fmt.Sprintf("blp_%s", uuid.NewString()),
			Pos:   p.Pos,
			Angle: Bearing(p.Pos),
			Class: d.Class,
			Hits:  1,
			Born:  r.now(),
		}
		r.blips = append(r.blips, b)
		res.Created++

		r.log.WithFields(logrus.Fields{
			"blip":  b.ShortID(),
			"class": b.Class,
			"angle": fmt.Sprintf("%.3f", b.Angle),
			"range": fmt.Sprintf("%.2f", p.Distance),
		}).Debug("blip created")
	}
	return res
}

// find returns the first blip closer than threshold to p.
func (r *Registry) find(p r2.Vec, threshold float64) *Blip {
	for _, b := range r.blips {
		if r2.Norm(r2.Sub(b.Pos, p)) < threshold {
			return b
		}
	}
	return nil
}

// SweepPass marks every blip under the beam as swept, returns copies of the
// blips left standing for drawing, then evicts the swept ones. A blip lives
// until the beam next crosses its bearing unless a detection re-arms it.
func (r *Registry) SweepPass(s *Sweep) (visible []Blip, evicted int) {
	for _, b := range r.blips {
		if s.Covers(b.Angle) {
			b.Swept = true
		}
		if !b.Swept {
			visible = append(visible, *b)
		}
	}

	kept := r.blips[:0]
	for _, b := range r.blips {
		if b.Swept {
			evicted++
			r.log.WithFields(logrus.Fields{
				"blip":  b.ShortID(),
				"class": b.Class,
				"hits":  b.Hits,
			}).Debug("blip swept")
			continue
		}
		kept = append(kept, b)
	}
	// Clear the tail so evicted blips can be collected.
	for i := len(kept); i < len(r.blips); i++ {
		r.blips[i] = nil
	}
	r.blips = kept

	return visible, evicted
}

// Snapshot returns copies of all blips in insertion order.
func (r *Registry) Snapshot() []Blip {
	out := make([]Blip, 0, len(r.blips))
	for _, b := range r.blips {
		out = append(out, *b)
	}
	return out
}

// Len returns the number of live blips.
func (r *Registry) Len() int {
	return len(r.blips)
}
