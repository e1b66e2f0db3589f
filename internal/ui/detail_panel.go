package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"objradar.klederson.com/internal/radar"
)

// RenderContactDetail renders the selected contact in place of the radar.
func RenderContactDetail(b radar.Blip, radius float64, width, height int, now time.Time) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := StylePanelTitle.Render("CONTACT DETAIL")
	escHint := StyleHelp.Render("[ESC]")
	titleLine := title + strings.Repeat(" ", max(0, innerW-lipgloss.Width(title)-lipgloss.Width(escHint))) + escHint

	lines := []string{titleLine, StyleRule.Render(strings.Repeat("-", innerW)), ""}

	labelSty := lipgloss.NewStyle().Foreground(ColorMidGreen)
	valSty := lipgloss.NewStyle().Foreground(ColorMatrixGreen).Bold(true)

	rng := 0.0
	if radius > 0 {
		rng = r2.Norm(b.Pos) / radius
	}
	deg := radar.NormalizeAngle(b.Angle) * 180 / math.Pi

	fields := []struct{ label, value string }{
		{"ID", b.ID},
		{"Class", b.Class},
		{"Bearing", fmt.Sprintf("%.0fdeg %s", deg, bearingDir(b.Angle))},
		{"Range", fmt.Sprintf("%.2f", rng)},
		{"Hits", fmt.Sprintf("%d", b.Hits)},
		{"Age", formatAge(now.Sub(b.Born))},
	}
	for _, f := range fields {
		lines = append(lines, labelSty.Render(fmt.Sprintf("  %-10s", f.label))+valSty.Render(f.value))
	}
	lines = append(lines, "")

	compassH := height - len(lines) - 4
	if compassH < 5 {
		compassH = 5
	}
	compassW := innerW
	if compassW > compassH*3 {
		compassW = compassH * 3
	}
	if compass := RenderCompass(compassW, compassH, b.Angle, rng); compass != "" {
		lines = append(lines, centerBlock(compass, innerW))
	}

	return clampLines(StylePanelActive.Width(width-2).Height(height-2).Render(strings.Join(lines, "\n")), height)
}

func formatAge(d time.Duration) string {
	if d < time.Second {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
