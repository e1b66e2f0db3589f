package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const maxErrLen = 40

// Status is what the bottom bar reports.
type Status struct {
	Detecting bool
	Voice     bool
	Detected  int // detections in the latest filtered batch
	Blips     int // live contacts on the scope
	SweepDeg  float64
	Filter    string // "" when every class is shown
	Notice    string // last spoken or announced text
	Err       error  // last detect error, cleared on success
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	state := StyleStatusPaused.Render("[PAUSED]")
	if st.Detecting {
		state = StyleStatusActive.Render("[DETECTING]")
	}

	voice := "off"
	if st.Voice {
		voice = "on"
	}
	filter := st.Filter
	if filter == "" {
		filter = "all"
	}

	info := fmt.Sprintf(" Detected: %d  Blips: %d  Voice: %s  Filter: %s  Sweep: %ddeg",
		st.Detected, st.Blips, voice, filter, int(st.SweepDeg))

	content := state + lipgloss.NewStyle().Foreground(ColorGreen).Render(info)
	if st.Notice != "" {
		content += "  " + StyleToggleOn.Render("> "+st.Notice)
	}
	if st.Err != nil {
		msg := ansi.Truncate(st.Err.Error(), maxErrLen, "...")
		content += "  " + StyleStatusError.Render("ERR: "+msg)
	}

	return renderBar(StyleStatusBar, width, content, "")
}
