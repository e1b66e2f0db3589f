package ui

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"objradar.klederson.com/internal/detection"
	"objradar.klederson.com/internal/radar"
)

func plainRows(c *Canvas) []string {
	return strings.Split(c.Plain(), "\n")
}

func TestCanvasStrokeRect(t *testing.T) {
	c := NewCanvas(10, 5, 100, 50)
	c.StrokeRect(0, 0, 100, 50, radar.Style{})

	rows := plainRows(c)
	require.Len(t, rows, 5)
	assert.Equal(t, "+--------+", rows[0])
	assert.Equal(t, "|        |", rows[2])
	assert.Equal(t, "+--------+", rows[4])
}

func TestCanvasTextClips(t *testing.T) {
	c := NewCanvas(10, 5, 100, 50)
	c.Text(80, 0, "hello", radar.Style{})
	c.Text(-500, 40, "x", radar.Style{})

	rows := plainRows(c)
	assert.Equal(t, "        he", rows[0])
	assert.Equal(t, strings.Repeat(" ", 10), rows[4])
}

func TestCanvasFillCircleKeepsTinyDiscs(t *testing.T) {
	c := NewCanvas(10, 5, 100, 50)
	c.FillCircle(55, 25, 1, radar.Style{Glyph: '@'})
	assert.Equal(t, '@', c.At(5, 2))

	c.Clear()
	assert.Equal(t, rune(0), c.At(5, 2))
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(10, 5, 100, 50)
	c.Line(0, 25, 99, 25, radar.Style{})
	assert.Equal(t, "----------", plainRows(c)[2])

	c.Clear()
	c.Line(55, 0, 55, 49, radar.Style{})
	for row := 0; row < 5; row++ {
		assert.Equal(t, '|', c.At(5, row))
	}
}

func TestCanvasFillWedge(t *testing.T) {
	c := NewCanvas(20, 20, 200, 200)
	st := radar.Style{Glyph: '#'}

	// East to south, clockwise on screen.
	c.FillWedge(100, 100, 90, 0, math.Pi/2, st)
	assert.Equal(t, '#', c.At(15, 15))
	assert.Equal(t, rune(0), c.At(5, 5))
	assert.Equal(t, rune(0), c.At(15, 5))

	// Straddling zero.
	c.Clear()
	c.FillWedge(100, 100, 90, radar.NormalizeAngle(-0.3), 0.3, st)
	assert.Equal(t, '#', c.At(18, 10))
	assert.Equal(t, rune(0), c.At(10, 18))
	assert.Equal(t, rune(0), c.At(2, 10))
}

func TestCanvasStrokeCircleUsesRingChars(t *testing.T) {
	c := NewCanvas(21, 21, 210, 210)
	c.StrokeCircle(105, 105, 80, radar.Style{})

	assert.Equal(t, '|', c.At(18, 10))
	assert.Equal(t, '-', c.At(10, 18))
	assert.Equal(t, rune(0), c.At(10, 10))
}

func TestCanvasDrawsScope(t *testing.T) {
	f := radar.NewField(185, 8)
	sw := radar.NewSweep(0.05, 0.08)
	c := NewCanvas(60, 30, f.Size(), f.Size())

	radar.DrawField(c, f, sw)
	radar.DrawBlips(c, f, []radar.Blip{{Pos: r2.Vec{X: -100, Y: 0}}})

	out := c.String()
	assert.Contains(t, c.Plain(), "+")
	assert.Contains(t, c.Plain(), "@")
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 60, lipgloss.Width(line))
	}
}

func TestCanvasResizeClampsToOneCell(t *testing.T) {
	c := NewCanvas(0, -3, 10, 10)
	cols, rows := c.Size()
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)
}

func TestRenderMenuBar(t *testing.T) {
	on := RenderMenuBar(120, "demo", true)
	assert.Contains(t, on, "DETECTING")
	assert.Contains(t, on, "Source: demo")
	assert.Contains(t, on, "[D]etect")

	off := RenderMenuBar(120, "demo", false)
	assert.Contains(t, off, "PAUSED")
}

func TestBarsStayOnOneLine(t *testing.T) {
	st := Status{
		Detecting: true,
		Voice:     true,
		Detected:  12,
		Blips:     9,
		Filter:    "person",
		Notice:    "3 persons detected",
		Err:       errors.New("camera read failed"),
	}
	for _, width := range []int{24, 40, 80, 120, 200} {
		menu := RenderMenuBar(width, "camera 0", true)
		assert.NotContains(t, menu, "\n", "menu bar at width %d", width)
		assert.Equal(t, width, lipgloss.Width(menu), "menu bar at width %d", width)

		status := RenderStatusBar(width, st)
		assert.NotContains(t, status, "\n", "status bar at width %d", width)
		assert.Equal(t, width, lipgloss.Width(status), "status bar at width %d", width)
	}
}

func TestRenderStatusBar(t *testing.T) {
	out := RenderStatusBar(160, Status{Detecting: true, Detected: 2, Blips: 3, Voice: true, SweepDeg: 90.4, Notice: "2 persons detected"})
	assert.Contains(t, out, "> 2 persons detected")
	assert.Contains(t, out, "Detected: 2")
	assert.Contains(t, out, "Blips: 3")
	assert.Contains(t, out, "Voice: on")
	assert.Contains(t, out, "Filter: all")
	assert.Contains(t, out, "Sweep: 90deg")

	out = RenderStatusBar(140, Status{Filter: "person", Err: errors.New(strings.Repeat("x", 100))})
	assert.Contains(t, out, "[PAUSED]")
	assert.Contains(t, out, "Voice: off")
	assert.Contains(t, out, "Filter: person")
	assert.Contains(t, out, "ERR: xxx")
	assert.NotContains(t, out, strings.Repeat("x", 50))

	out = RenderStatusBar(140, Status{Err: errors.New(strings.Repeat("é", 60))})
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "é...")
	assert.NotContains(t, out, strings.Repeat("é", 41))
}

func TestRenderDetectionList(t *testing.T) {
	v := ListView{
		Detections: []detection.Detection{
			{Class: "person", Score: 0.873},
			{Class: "dog", Score: 0.61},
		},
		Contacts: []radar.Blip{
			{ID: "blp_0123456789ab", Class: "person", Pos: r2.Vec{X: 0, Y: 92.5}, Angle: math.Pi / 2, Hits: 3},
		},
		Radius:  185,
		History: []float64{0, 1, 2},
		Voice:   true,
	}

	out := RenderDetectionList(v, 50, 24)
	assert.Contains(t, out, "DETECTIONS [2]")
	assert.Contains(t, out, "1. person (87.3%)")
	assert.Contains(t, out, "2. dog (61.0%)")
	assert.Contains(t, out, "CONTACTS [1]")
	assert.Contains(t, out, ">> @ 01234567 person")
	assert.Contains(t, out, "90deg")
	assert.Contains(t, out, "r0.50")
	assert.Contains(t, out, "[F:all]")
	assert.Len(t, strings.Split(out, "\n"), 24)
}

func TestRenderDetectionListEmpty(t *testing.T) {
	out := RenderDetectionList(ListView{Filter: "person"}, 40, 12)
	assert.Contains(t, out, "No objects detected")
	assert.Contains(t, out, "Waiting for sweep")
	assert.Contains(t, out, "[F:person]")
	assert.Len(t, strings.Split(out, "\n"), 12)
}

func TestRenderContactDetail(t *testing.T) {
	now := time.Now()
	b := radar.Blip{
		ID:    "blp_0123456789ab",
		Class: "car",
		Pos:   r2.Vec{X: -185, Y: 0},
		Angle: math.Pi,
		Hits:  2,
		Born:  now.Add(-75 * time.Second),
	}

	out := RenderContactDetail(b, 185, 60, 30, now)
	assert.Contains(t, out, "CONTACT DETAIL")
	assert.Contains(t, out, "blp_0123456789ab")
	assert.Contains(t, out, "180deg W")
	assert.Contains(t, out, "1.00")
	assert.Contains(t, out, "1m15s")
	assert.Len(t, strings.Split(out, "\n"), 30)
}

func TestRenderCompass(t *testing.T) {
	assert.Empty(t, RenderCompass(5, 3, 0, 0))

	out := RenderCompass(30, 10, 0, 0)
	assert.Contains(t, out, "N")
	assert.Contains(t, out, ">")
	assert.Len(t, strings.Split(out, "\n"), 10)
}

func TestBearingDir(t *testing.T) {
	assert.Equal(t, "E", bearingDir(0))
	assert.Equal(t, "S", bearingDir(math.Pi/2))
	assert.Equal(t, "N", bearingDir(-math.Pi/2))
	assert.Equal(t, "W", bearingDir(math.Pi))
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "_.-~^", renderSparkline([]float64{0, 1, 2, 3, 4}, 5))
	assert.Equal(t, "~^", renderSparkline([]float64{0, 1, 2, 3, 4}, 2))
	assert.Equal(t, "___", renderSparkline([]float64{2, 2, 2}, 10))
	assert.Empty(t, renderSparkline(nil, 10))
}

func TestTruncRaw(t *testing.T) {
	assert.Equal(t, "abc  ", truncRaw("abc", 5))
	assert.Equal(t, "ab", truncRaw("abc", 2))
	assert.Empty(t, truncRaw("abc", 0))

	assert.Equal(t, "grö", truncRaw("größe", 3))
	assert.Equal(t, "日 ", truncRaw("日本語", 3))
}

func TestContactRowMultibyteClass(t *testing.T) {
	b := radar.Blip{ID: "blp_0123456789ab", Class: "自転車のかご", Pos: r2.Vec{X: 50}, Hits: 1}

	for _, cursor := range []bool{false, true} {
		row := renderContactRow(b, 185, 20, cursor)
		assert.True(t, utf8.ValidString(row))
		assert.Equal(t, 20, lipgloss.Width(row))
	}
}
