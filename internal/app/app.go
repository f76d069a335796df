// Package app contains the root demo application model: a scrollable
// label with live span detection, a tap log, and config hot-reload.
package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"

	"linklabel/internal/config"
	"linklabel/internal/history"
	"linklabel/internal/interaction"
	"linklabel/internal/layout"
	"linklabel/internal/log"
	"linklabel/internal/pubsub"
	"linklabel/internal/span"
	"linklabel/internal/styles"
	"linklabel/internal/watcher"
	"linklabel/internal/widget"
)

// zoneLabel marks the label's region of the frame so mouse coordinates
// can be translated into text-relative points.
const zoneLabel = "linklabel-text"

// reloadMsg signals that the config file changed on disk.
type reloadMsg struct{}

// configLoadedMsg carries a freshly loaded config.
type configLoadedMsg struct {
	cfg config.Config
	err error
}

// LoadConfigFunc reloads the configuration from disk. Injected so tests
// can reload without a real config file.
type LoadConfigFunc func() (config.Config, error)

// Model is the root application state.
type Model struct {
	cfg        config.Config
	configPath string
	loadConfig LoadConfigFunc

	label *widget.Label
	store *history.Store

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	showHelp bool
	help     helpModel

	status string

	touchCtx      context.Context
	touchCancel   context.CancelFunc
	touchListener *pubsub.ContinuousListener[interaction.TouchResult]

	reloadHandle *watcher.Watcher
	reloadCh     <-chan struct{}
}

// New creates the demo application from the loaded config.
// configPath enables hot-reload when non-empty; loadConfig is called to
// re-read the file after a change.
func New(cfg config.Config, configPath string, loadConfig LoadConfigFunc) Model {
	label := widget.New(labelConfig(cfg))
	label.SetPlainText(context.Background(), cfg.Demo.Text)

	// Demo explicit link so gesture callbacks have something to fire.
	registerDemoLinks(label)

	var store *history.Store
	if cfg.History.Enabled {
		path := cfg.History.Path
		if path == "" {
			path = config.DefaultHistoryPath()
		}
		s, err := history.Open(path)
		if err != nil {
			// The demo works fine without history.
			log.Warn(log.CatApp, "History store unavailable", "error", err)
		} else {
			store = s
		}
	}

	var (
		reloadHandle *watcher.Watcher
		reloadCh     <-chan struct{}
	)
	if cfg.AutoReload && configPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(configPath))
		if err == nil {
			if ch, err := w.Start(); err == nil {
				reloadHandle = w
				reloadCh = ch
			} else {
				_ = w.Stop()
			}
		}
		// Watcher init errors are not fatal - the app works without
		// hot-reload.
	}

	touchCtx, touchCancel := context.WithCancel(context.Background())

	return Model{
		cfg:           cfg,
		configPath:    configPath,
		loadConfig:    loadConfig,
		label:         label,
		store:         store,
		help:          newHelpModel(helpStyleFor(cfg.Theme.Mode)),
		touchCtx:      touchCtx,
		touchCancel:   touchCancel,
		touchListener: pubsub.NewContinuousListener(touchCtx, label.Events()),
		reloadHandle:  reloadHandle,
		reloadCh:      reloadCh,
	}
}

// labelConfig maps the file config onto the widget config. Invalid
// pieces degrade to defaults rather than failing the whole app.
func labelConfig(cfg config.Config) widget.Config {
	kinds, err := cfg.Detection.SpanKinds()
	if err != nil {
		log.Warn(log.CatApp, "Ignoring invalid detection.kinds", "error", err)
		kinds = nil
	}
	patterns, err := cfg.Detection.SpanPatterns()
	if err != nil {
		log.Warn(log.CatApp, "Ignoring invalid detection.patterns", "error", err)
		patterns = nil
	}

	palette := styles.DefaultPalette()
	if err := palette.Apply(cfg.Theme.FlattenedColors()); err != nil {
		log.Warn(log.CatApp, "Ignoring invalid theme.colors", "error", err)
	}
	resolver := styles.DefaultResolver(palette)
	if !cfg.Theme.UnderlineEnabled() {
		resolver.UnderlineFor = func(span.Span) styles.UnderlineKind {
			return styles.UnderlineNone
		}
	}

	return widget.Config{
		EnabledKinds: kinds,
		Automatic:    cfg.Detection.Automatic,
		Patterns:     patterns,
		Resolver:     resolver,
		Width:        cfg.Demo.Width,
	}
}

// registerDemoLinks adds an explicit link over any literal "example.com"
// in the demo text.
func registerDemoLinks(label *widget.Label) {
	label.AddExplicitLinks(context.Background(), &span.ExplicitLink{
		MatchText: "example.com",
		Options:   span.MatchOptions{IgnoreCase: true},
		Action: func() {
			log.Info(log.CatApp, "Demo link activated")
		},
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.touchListener.Listen()}
	if m.reloadCh != nil {
		cmds = append(cmds, listenReload(m.reloadCh))
	}
	return tea.Batch(cmds...)
}

// listenReload waits for the next file-change signal.
func listenReload(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; ok {
			return reloadMsg{}
		}
		return nil
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			_ = m.Close()
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "esc":
			if m.showHelp {
				m.showHelp = false
			}
			return m, nil
		case "r":
			return m, m.reloadCmd()
		case "s":
			return m.saveDemoText(), nil
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case pubsub.Event[interaction.TouchResult]:
		return m.handleTouch(msg)

	case reloadMsg:
		cmds := []tea.Cmd{m.reloadCmd()}
		if m.reloadCh != nil {
			cmds = append(cmds, listenReload(m.reloadCh))
		}
		return m, tea.Batch(cmds...)

	case configLoadedMsg:
		return m.handleConfigLoaded(msg), nil
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	// Title and status bar take one row each.
	contentHeight := max(msg.Height-2, 1)
	if !m.ready {
		m.viewport = viewport.New(msg.Width, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = contentHeight
	}

	if m.cfg.Demo.Width <= 0 {
		m.label.SetWidth(msg.Width)
	}
	return m
}

// handleMouse translates terminal mouse events into pointer events for
// the label. Wheel events scroll the viewport instead.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if m.ready {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.showHelp {
		return m, nil
	}

	ev, ok := pointerEvent(msg)
	if !ok {
		return m, nil
	}
	m.label.HandlePointerEvent(ev)
	if m.ready {
		m.viewport.SetContent(zone.Mark(zoneLabel, m.label.View()))
	}
	return m, nil
}

// pointerEvent maps a mouse message to a label-relative pointer event
// using the marked zone's screen bounds.
func pointerEvent(msg tea.MouseMsg) (interaction.PointerEvent, bool) {
	z := zone.Get(zoneLabel)
	if z == nil || z.IsZero() {
		return interaction.PointerEvent{}, false
	}

	var phase interaction.PointerPhase
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		phase = interaction.PhasePress
	case msg.Action == tea.MouseActionMotion:
		phase = interaction.PhaseMove
	case msg.Action == tea.MouseActionRelease:
		phase = interaction.PhaseRelease
	default:
		return interaction.PointerEvent{}, false
	}

	return interaction.PointerEvent{
		Phase: phase,
		Point: layout.Point{X: msg.X - z.StartX, Y: msg.Y - z.StartY},
		Raw:   msg,
	}, true
}

func (m Model) handleTouch(msg pubsub.Event[interaction.TouchResult]) (tea.Model, tea.Cmd) {
	res := msg.Payload
	m.status = fmt.Sprintf("%s %s %q", res.Phase, res.Span.Kind, res.Span.Text)

	if res.Phase == interaction.Ended && m.store != nil {
		if err := m.store.Record(res.Span.Kind, res.Span.Text, targetOf(res.Span)); err != nil {
			log.Warn(log.CatApp, "Failed to record tap", "error", err)
		}
	}

	return m, m.touchListener.Listen()
}

// targetOf derives the destination a span points at, when it has one.
func targetOf(s span.Span) string {
	switch s.Kind {
	case span.KindURL:
		return s.Text
	case span.KindEmail:
		return "mailto:" + s.Text
	default:
		return ""
	}
}

// saveDemoText persists the currently displayed text into the config
// file's demo.text, so a --text override survives restarts.
func (m Model) saveDemoText() Model {
	if m.configPath == "" {
		m.status = "no config file to save to"
		return m
	}
	if err := config.SaveDemoText(m.configPath, m.label.Document().Plain()); err != nil {
		log.Warn(log.CatApp, "Failed to save demo text", "error", err)
		m.status = "saving demo text failed"
		return m
	}
	m.status = "demo text saved"
	return m
}

// reloadCmd re-reads the config file off the update loop.
func (m Model) reloadCmd() tea.Cmd {
	if m.loadConfig == nil {
		return nil
	}
	load := m.loadConfig
	return func() tea.Msg {
		cfg, err := load()
		return configLoadedMsg{cfg: cfg, err: err}
	}
}

func (m Model) handleConfigLoaded(msg configLoadedMsg) Model {
	if msg.err != nil {
		log.Warn(log.CatApp, "Config reload failed, keeping previous config", "error", msg.err)
		m.status = "config reload failed"
		return m
	}

	log.Info(log.CatApp, "Config reloaded", "path", m.configPath)
	m.cfg = msg.cfg
	cfg := labelConfig(msg.cfg)
	if cfg.Width <= 0 {
		cfg.Width = m.width
	}
	m.label.Configure(context.Background(), cfg)
	m.label.SetPlainText(context.Background(), msg.cfg.Demo.Text)
	registerDemoLinks(m.label)
	m.help.SetStyle(helpStyleFor(msg.cfg.Theme.Mode))
	m.status = "config reloaded"
	return m
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.showHelp {
		return zone.Scan(m.help.View(m.width, m.height))
	}

	m.viewport.SetContent(zone.Mark(zoneLabel, m.label.View()))

	title := titleStyle.Render("linklabel demo")
	status := m.status
	if status == "" {
		status = "click a span · ? help · q quit"
	}
	statusBar := statusStyle.Render(truncate.String(status, uint(max(m.width-2, 0))))

	frame := lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), statusBar)
	return zone.Scan(frame)
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.touchCancel()

	if m.reloadHandle != nil {
		if err := m.reloadHandle.Stop(); err != nil {
			return err
		}
	}

	if m.store != nil {
		return m.store.Close()
	}
	return nil
}
