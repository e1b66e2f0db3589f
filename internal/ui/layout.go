package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout puts the radar panel on the left and the camera panel above
// the detection list on the right, with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, radarPanel, cameraPanel, detectionList, statusBar string) string {
	side := lipgloss.JoinVertical(lipgloss.Left, cameraPanel, detectionList)
	middle := lipgloss.JoinHorizontal(lipgloss.Top, radarPanel, side)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
