package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"gonum.org/v1/gonum/spatial/r2"

	"objradar.klederson.com/internal/detection"
	"objradar.klederson.com/internal/radar"
)

// ListView is what the detection list panel shows.
type ListView struct {
	Detections []detection.Detection // latest filtered batch
	Contacts   []radar.Blip          // blips drawn on the last frame
	Cursor     int                   // selected contact
	Radius     float64               // scope radius, for contact range
	History    []float64             // detections per poll, oldest first
	Voice      bool
	Filter     string
}

// RenderDetectionList renders the numbered detection list, the contact list
// with a cursor, and the detection-count sparkline. The header stays fixed;
// only the contact rows scroll.
func RenderDetectionList(v ListView, width, height int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}
	innerH := height - 2
	if innerH < 6 {
		innerH = 6
	}

	rule := StyleRule.Render(strings.Repeat("-", innerW))

	lines := []string{
		StylePanelTitle.Render(fmt.Sprintf("DETECTIONS [%d]", len(v.Detections))),
		rule,
		renderToggleBar(v.Voice, v.Filter),
	}

	if len(v.Detections) == 0 {
		lines = append(lines, StyleHelp.Render(" No objects detected"))
	}
	for i, d := range v.Detections {
		line := fmt.Sprintf(" %d. %s %s", i+1,
			StyleClassName.Render(d.Class),
			StyleScore.Render(fmt.Sprintf("(%.1f%%)", d.Score*100)))
		lines = append(lines, line)
	}

	lines = append(lines, "", StylePanelTitle.Render(fmt.Sprintf("CONTACTS [%d]", len(v.Contacts))), rule)

	// Footer: sparkline of detections per poll.
	var footer []string
	if len(v.History) > 0 {
		footer = []string{
			StyleHelp.Render(" Per poll:"),
			" " + StyleScore.Render(renderSparkline(v.History, innerW-2)),
		}
	}

	space := innerH - len(lines) - len(footer)
	if space < 1 {
		space = 1
	}

	var rows []string
	if len(v.Contacts) == 0 {
		rows = append(rows, StyleHelp.Render(" Waiting for sweep"))
	} else {
		start := 0
		if v.Cursor >= space {
			start = v.Cursor - space + 1
		}
		for i := start; i < len(v.Contacts) && len(rows) < space; i++ {
			rows = append(rows, renderContactRow(v.Contacts[i], v.Radius, innerW, i == v.Cursor))
		}
	}
	for len(rows) < space {
		rows = append(rows, "")
	}

	all := append(append(lines, rows...), footer...)
	if len(all) > innerH {
		all = all[:innerH]
	}

	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(all, "\n"))
	return clampLines(rendered, height)
}

func renderContactRow(b radar.Blip, radius float64, maxW int, isCursor bool) string {
	rng := 0.0
	if radius > 0 {
		rng = r2.Norm(b.Pos) / radius
	}
	cursor := "  "
	if isCursor {
		cursor = ">>"
	}
	head := cursor + " @"
	tail := fmt.Sprintf(" %s %-8s %3ddeg %2s r%.2f x%d",
		b.ShortID(), b.Class, int(math.Round(radar.NormalizeAngle(b.Angle)*180/math.Pi)),
		bearingDir(b.Angle), rng, b.Hits)

	if isCursor {
		return StyleCursorRow.Render(truncRaw(head+tail, maxW))
	}
	head = truncRaw(head, min(maxW, len(head)))
	return StyleContact.Render(head) + StyleContactID.Render(truncRaw(tail, maxW-ansi.StringWidth(head)))
}

// truncRaw pads or truncates s to exactly w terminal columns.
func truncRaw(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = ansi.Truncate(s, w, "")
	if n := ansi.StringWidth(s); n < w {
		s += strings.Repeat(" ", w-n)
	}
	return s
}

func renderToggleBar(voice bool, filter string) string {
	toggle := func(on bool, label string) string {
		if on {
			return StyleToggleOn.Render("[" + label + "]")
		}
		return StyleToggleOff.Render("[" + label + "]")
	}

	class := filter
	if class == "" {
		class = "all"
	}
	return " " + toggle(voice, "V:voice") + " " + toggle(filter != "", "F:"+class)
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	// Take last `width` values
	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for _, v := range values[start:] {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteByte(chars[idx])
	}
	return sb.String()
}
