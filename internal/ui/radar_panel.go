package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderRadarPanel wraps radar content with a styled border.
// The scope itself is drawn by the radar package onto a Canvas.
func RenderRadarPanel(width, height int, radarContent, legend string) string {
	content := centerBlock(radarContent, width-4) + "\n" + legend
	return clampLines(StylePanelBorder.Width(width-2).Height(height-2).Render(content), height)
}

// RenderCameraPanel frames the detection overlay under a title line.
func RenderCameraPanel(width, height int, title, overlay string) string {
	content := StylePanelTitle.Render(title) + "\n" + centerBlock(overlay, width-4)
	return clampLines(StylePanelBorder.Width(width-2).Height(height-2).Render(content), height)
}

// centerBlock pads every line of a block so the block sits centered in width.
func centerBlock(block string, width int) string {
	pad := (width - lipgloss.Width(block)) / 2
	if pad <= 0 {
		return block
	}
	prefix := strings.Repeat(" ", pad)
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// clampLines cuts or pads rendered output to exactly height lines.
// lipgloss Height() only sets a minimum; it won't truncate overflow.
func clampLines(rendered string, height int) string {
	lines := strings.Split(rendered, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
