package detection

import (
	"fmt"
	"image"
	"strings"

	"objradar.klederson.com/internal/config"
)

// BBox is an axis-aligned box in source-frame pixels.
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the box center.
func (b BBox) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// BBoxFromRect converts an integer image rectangle.
func BBoxFromRect(r image.Rectangle) BBox {
	return BBox{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}

// Detection is one labelled box produced by a Source.
type Detection struct {
	Class string
	Score float64 // [0, 1]
	BBox  BBox
}

// Label returns the overlay caption, e.g. "person 87.3%".
func (d Detection) Label() string {
	return fmt.Sprintf("%s %.1f%%", d.Class, d.Score*100)
}

// Accepted reports whether a score clears the acceptance threshold.
// The comparison is strict: exactly 0.5 is rejected.
func Accepted(score float64) bool {
	return score > config.AcceptScore
}

// ClassCount is the number of detections of one class in a batch.
type ClassCount struct {
	Class string
	Count int
}

// Phrase returns the spoken form, e.g. "2 persons detected".
func (c ClassCount) Phrase() string {
	if c.Count > 1 {
		return fmt.Sprintf("%d %ss detected", c.Count, c.Class)
	}
	return fmt.Sprintf("%d %s detected", c.Count, c.Class)
}

var irregularPlurals = map[string]string{
	"person":   "people",
	"mouse":    "mice",
	"knife":    "knives",
	"sheep":    "sheep",
	"skis":     "skis",
	"scissors": "scissors",
}

// Plural returns the plural of a class name for announcements,
// e.g. "people", "buses", "wine glasses".
func Plural(class string) string {
	if p, ok := irregularPlurals[class]; ok {
		return p
	}
	for _, suffix := range []string{"s", "x", "ch", "sh"} {
		if strings.HasSuffix(class, suffix) {
			return class + "es"
		}
	}
	return class + "s"
}

// CountClasses tallies detections per class, ordered by first occurrence.
func CountClasses(dets []Detection) []ClassCount {
	idx := make(map[string]int)
	var counts []ClassCount
	for _, d := range dets {
		if i, ok := idx[d.Class]; ok {
			counts[i].Count++
			continue
		}
		idx[d.Class] = len(counts)
		counts = append(counts, ClassCount{Class: d.Class, Count: 1})
	}
	return counts
}
