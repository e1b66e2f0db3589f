package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"objradar.klederson.com/internal/config"
)

// RenderMenuBar renders the top menu bar with the key map and the detection
// state. source names where frames come from ("demo", "/dev/video0", ...).
func RenderMenuBar(width int, source string, detecting bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"D", "etect"},
		{"V", "oice"},
		{"F", "ilter"},
		{"C", "lear"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := StyleStatusPaused.Render("PAUSED")
	if detecting {
		status = StyleStatusActive.Render("DETECTING")
	}

	sourceInfo := StyleMenuLabel.Render(fmt.Sprintf("Source: %s", source))

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + sourceInfo + " "

	return renderBar(StyleMenuBar, width, left, right)
}

// renderBar lays left and right out on one line of sty at width columns.
// Content is cut to the space inside the padding so the bar never wraps;
// right is cut first.
func renderBar(sty lipgloss.Style, width int, left, right string) string {
	inner := width - sty.GetHorizontalPadding()
	if inner < 0 {
		inner = 0
	}

	left = ansi.Truncate(left, inner, "")
	right = ansi.Truncate(right, max(0, inner-lipgloss.Width(left)), "")
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)

	return sty.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
