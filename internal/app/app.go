package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"objradar.klederson.com/internal/config"
	"objradar.klederson.com/internal/detection"
	"objradar.klederson.com/internal/logging"
	"objradar.klederson.com/internal/radar"
	"objradar.klederson.com/internal/scope"
	"objradar.klederson.com/internal/speech"
	"objradar.klederson.com/internal/ui"
)

// Options wires the model to its collaborators.
type Options struct {
	Settings   *config.Settings
	Camera     detection.Camera
	Source     detection.Source
	Sink       speech.Sink
	SourceName string // shown in the menu bar
	Log        logrus.FieldLogger
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	settings *config.Settings
	state    *scope.State
	poller   *scope.Poller
	camera   detection.Camera
	source   detection.Source
	history  *CountRing

	field   *ui.Canvas
	overlay *ui.Canvas

	notice  string
	lastErr error

	ctx    context.Context
	cancel context.CancelFunc
	log    logrus.FieldLogger
}

// AppModel is the root Bubble Tea model for the radar.
type AppModel struct {
	width  int
	height int

	sourceName string
	cursor     int
	detailID   string // contact shown in place of the radar, "" for none

	shared *shared
}

// New creates a new AppModel.
func New(opts Options) AppModel {
	settings := opts.Settings
	if settings == nil {
		settings = config.Default()
	}
	log := logging.OrDiscard(opts.Log)

	sh := &shared{
		settings: settings,
		state:    scope.NewState(settings, log.WithField("component", "scope")),
		camera:   opts.Camera,
		source:   opts.Source,
		history:  NewCountRing(config.HistorySize),
		log:      log,
	}
	sh.ctx, sh.cancel = context.WithCancel(context.Background())

	// Every notification also lands in the status bar.
	sink := speech.Multi{opts.Sink, speech.SinkFunc(func(text string) { sh.notice = text })}
	sh.poller = scope.NewPoller(sh.state, sink, log.WithField("component", "poller"))

	side := sh.state.Field.Size()
	sh.field = ui.NewCanvas(1, 1, side, side)
	sh.overlay = ui.NewCanvas(1, 1, sh.state.OverlayWidth, sh.state.OverlayHeight)

	return AppModel{
		sourceName: opts.SourceName,
		shared:     sh,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		func() tea.Msg { return PollMsg(time.Now()) },
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeCanvases()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		visible := m.shared.state.Render(m.shared.field, m.shared.overlay)
		m.clampCursor(len(visible))
		if m.detailID != "" && m.findContact(m.detailID) == nil {
			m.detailID = ""
		}
		return m, m.tickCmd()

	case PollMsg:
		c, ok := m.shared.poller.Begin()
		if !ok {
			return m, m.pollCmd()
		}
		return m, tea.Batch(m.detectCmd(c), m.pollCmd())

	case DetectionsMsg:
		res := m.shared.poller.Apply(msg.Cycle, msg.Frame, msg.Detections, msg.Err)
		m.shared.lastErr = res.Err
		if res.Err == nil {
			m.shared.history.Push(res.Kept)
		}
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.shared.poller

	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "d", "D":
		p.ToggleDetection()

	case "v", "V":
		p.ToggleVoice()

	case "f", "F":
		p.FilterTo(m.shared.settings.FilterClass)

	case "c", "C":
		p.ClearFilter()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.shared.state.Visible)-1 {
			m.cursor++
		}

	case "enter":
		if vis := m.shared.state.Visible; m.cursor < len(vis) {
			m.detailID = vis[m.cursor].ID
		}

	case "esc":
		m.detailID = ""
	}

	return m, nil
}

func (m *AppModel) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m AppModel) findContact(id string) *radar.Blip {
	for i := range m.shared.state.Visible {
		if m.shared.state.Visible[i].ID == id {
			return &m.shared.state.Visible[i]
		}
	}
	return nil
}

// panelSizes splits the terminal into the radar panel and the side column.
func (m AppModel) panelSizes() (bodyH, radarW, sideW, cameraH int) {
	bodyH = m.height - 2 // menu bar + status bar
	if bodyH < 8 {
		bodyH = 8
	}
	radarW = m.width * 3 / 5
	if radarW < 30 {
		radarW = 30
	}
	sideW = m.width - radarW
	if sideW < 24 {
		sideW = 24
		radarW = m.width - sideW
	}
	cameraH = bodyH * 2 / 5
	if cameraH < 5 {
		cameraH = 5
	}
	return bodyH, radarW, sideW, cameraH
}

// resizeCanvases fits both canvases to their panels, keeping the logical
// aspect of each scene on cells about twice as tall as they are wide.
func (m AppModel) resizeCanvases() {
	bodyH, radarW, sideW, cameraH := m.panelSizes()

	side := m.shared.state.Field.Size()
	cols, rows := fitCells(radarW-4, bodyH-3, side, side)
	m.shared.field.Resize(cols, rows, side, side)

	ow, oh := m.shared.state.OverlayWidth, m.shared.state.OverlayHeight
	cols, rows = fitCells(sideW-4, cameraH-3, ow, oh)
	m.shared.overlay.Resize(cols, rows, ow, oh)
}

// fitCells returns the largest grid within maxCols x maxRows showing a
// w x h scene undistorted.
func fitCells(maxCols, maxRows int, w, h float64) (int, int) {
	if maxCols < 1 || maxRows < 1 {
		return 1, 1
	}
	cols := maxCols
	rows := int(float64(cols) * h / w * config.AspectRatio)
	if rows > maxRows {
		rows = maxRows
		cols = int(float64(rows) * w / h / config.AspectRatio)
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing radar..."
	}

	st := m.shared.state
	bodyH, radarW, sideW, cameraH := m.panelSizes()

	menuBar := ui.RenderMenuBar(m.width, m.sourceName, st.Toggles.DetectionEnabled)

	var radarPanel string
	if b := m.findContact(m.detailID); b != nil {
		radarPanel = ui.RenderContactDetail(*b, st.Field.Radius, radarW, bodyH, time.Now())
	} else {
		radarPanel = ui.RenderRadarPanel(radarW, bodyH, m.shared.field.String(), radar.RenderLegend(radarW-4))
	}

	title := "CAMERA"
	if st.Frame.Seq > 0 {
		title = fmt.Sprintf("CAMERA #%d %dx%d", st.Frame.Seq, st.Frame.Width, st.Frame.Height)
	}
	cameraPanel := ui.RenderCameraPanel(sideW, cameraH, title, m.shared.overlay.String())

	list := ui.RenderDetectionList(ui.ListView{
		Detections: st.Current,
		Contacts:   st.Visible,
		Cursor:     m.cursor,
		Radius:     st.Field.Radius,
		History:    m.shared.history.Values(),
		Voice:      st.Toggles.VoiceEnabled,
		Filter:     st.Toggles.ClassFilter,
	}, sideW, bodyH-cameraH)

	statusBar := ui.RenderStatusBar(m.width, ui.Status{
		Detecting: st.Toggles.DetectionEnabled,
		Voice:     st.Toggles.VoiceEnabled,
		Detected:  len(st.Current),
		Blips:     st.Registry.Len(),
		SweepDeg:  st.Sweep.Degrees(),
		Filter:    st.Toggles.ClassFilter,
		Notice:    m.shared.notice,
		Err:       m.shared.lastErr,
	})

	return ui.ComposeLayout(menuBar, radarPanel, cameraPanel, list, statusBar)
}

// Close cancels any in-flight detect call and releases the camera and source.
func (m AppModel) Close() error {
	m.shared.cancel()

	var firstErr error
	if m.shared.source != nil {
		if err := m.shared.source.Close(); err != nil {
			firstErr = fmt.Errorf("close source: %w", err)
		}
	}
	if m.shared.camera != nil {
		if err := m.shared.camera.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close camera: %w", err)
		}
	}
	return firstErr
}

func (m AppModel) tickCmd() tea.Cmd {
	return tea.Tick(m.shared.settings.FrameInterval(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m AppModel) pollCmd() tea.Cmd {
	return tea.Tick(m.shared.settings.Poll(), func(t time.Time) tea.Msg {
		return PollMsg(t)
	})
}

// detectCmd runs capture and detection off the event loop. The result comes
// back as a DetectionsMsg and is applied in Update.
func (m AppModel) detectCmd(c scope.Cycle) tea.Cmd {
	ctx, cam, src := m.shared.ctx, m.shared.camera, m.shared.source
	return func() tea.Msg {
		if cam == nil || src == nil {
			return DetectionsMsg{Cycle: c, Err: detection.ErrNoCapture}
		}
		frame, dets, err := scope.Fetch(ctx, cam, src)
		return DetectionsMsg{Cycle: c, Frame: frame, Detections: dets, Err: err}
	}
}
