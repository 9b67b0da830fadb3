// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playground

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/typemorph/internal/config"
	"github.com/jeranaias/typemorph/internal/export"
	"github.com/jeranaias/typemorph/internal/fontmap"
	"github.com/jeranaias/typemorph/internal/logging"
	"github.com/jeranaias/typemorph/internal/morph"
	play "github.com/jeranaias/typemorph/internal/playground"
	"github.com/jeranaias/typemorph/internal/ui/components"
	"github.com/jeranaias/typemorph/internal/ui/styles"
)

const (
	// FontSizeStep is how much +/- change the font size.
	FontSizeStep = 10

	reloadDebounce = 200 * time.Millisecond
)

type mode int

const (
	modePlay mode = iota
	modeEdit
	modeExport
)

// cycleState is the hover cycler currently running.
type cycleState struct {
	id       int
	index    int
	resetKey int
	ch       <-chan morph.Update
	stop     context.CancelFunc
}

// Options wires the model.
type Options struct {
	Session *play.Session
	Config  *config.Config

	// ConfigPath is watched for changes; empty disables live reload.
	ConfigPath string

	// Model names the Gemini model in the status bar.
	Model string
	// CacheEnabled marks the status bar when glyphs are cached.
	CacheEnabled bool

	Theme   *styles.Theme
	Logger  *slog.Logger
	Context context.Context
}

// Model is the playground screen.
type Model struct {
	session *play.Session
	cfg     *config.Config
	theme   *styles.Theme
	logger  *slog.Logger
	ctx     context.Context

	keys   KeyMap
	help   help.Model
	input  textinput.Model
	status *components.StatusBar
	toasts *components.ToastManager

	cycler    *morph.Cycler
	cycle     *cycleState
	nextCycle int

	watcher *config.Watcher
	reloads chan ConfigReloadedMsg

	mode       mode
	menuIndex  int
	generating bool
	exporting  bool
	sparkle    int
	width      int
	height     int
}

// New creates the playground model. A config watcher that fails to start
// is logged and the screen runs without live reload.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	sess := opts.Session
	if sess == nil {
		sess = play.NewSession(play.Options{DefaultStyles: cfg.Playground.BlendStyles})
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type something..."
	ti.CharLimit = 200

	h := help.New()
	h.ShowAll = cfg.UI.ShowHelp

	cycler := &morph.Cycler{Interval: cfg.Interval(), Rand: morph.NewRand(), Delayed: true}

	status := components.NewStatusBar(theme)
	status.Model = opts.Model
	status.Cached = opts.CacheEnabled

	m := Model{
		session: sess,
		cfg:     cfg,
		theme:   theme,
		logger:  logging.OrDefault(opts.Logger),
		ctx:     ctx,
		keys:    DefaultKeyMap(),
		help:    h,
		input:   ti,
		status:  status,
		toasts:  components.NewToastManager(),
		cycler:  cycler,
		width:   80,
	}

	if opts.ConfigPath != "" {
		m.reloads = make(chan ConfigReloadedMsg, 1)
		w, err := config.Watch(opts.ConfigPath, reloadDebounce, m.onConfigChange)
		if err != nil {
			m.logger.Warn("config watch unavailable", "path", opts.ConfigPath, "error", err)
			m.reloads = nil
		} else {
			m.watcher = w
		}
	}
	return m
}

// onConfigChange runs on the watcher goroutine. Only the newest change is
// kept.
func (m Model) onConfigChange(cfg *config.Config, err error) {
	msg := ConfigReloadedMsg{Config: cfg, Err: err}
	for {
		select {
		case m.reloads <- msg:
			return
		default:
		}
		select {
		case <-m.reloads:
		default:
		}
	}
}

// Close stops the hover cycler and the config watcher.
func (m Model) Close() error {
	if m.cycle != nil {
		m.cycle.stop()
	}
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// Session returns the playground session.
func (m Model) Session() *play.Session {
	return m.session
}

// Init starts the toast timer and the config watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(components.ToastTickCmd(), waitForReload(m.reloads))
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.status.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			return m.handleEditKey(msg)
		case modeExport:
			return m.handleMenuKey(msg)
		default:
			return m.handlePlayKey(msg)
		}

	case morphMsg:
		return m.handleMorph(msg)

	case GeneratedMsg:
		return m.handleGenerated(msg)

	case ExportedMsg:
		return m.handleExported(msg)

	case ConfigReloadedMsg:
		return m.handleReload(msg)

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()
	}

	if m.mode == modeEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handlePlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopCycle()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		return m.moveHover(-1)

	case key.Matches(msg, m.keys.Right):
		return m.moveHover(1)

	case key.Matches(msg, m.keys.Leave):
		m.stopCycle()
		m.session.Leave()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		m.stopCycle()
		m.session.Leave()
		m.mode = modeEdit
		m.input.SetValue(m.session.Text())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Generate):
		if m.generating {
			m.toasts.AddStatus("already generating")
			return m, nil
		}
		m.generating = true
		return m, generateCmd(m.ctx, m.session)

	case key.Matches(msg, m.keys.Reset):
		m.stopCycle()
		m.session.Reset()
		m.toasts.AddStatus("reset")
		return m, nil

	case key.Matches(msg, m.keys.Export):
		m.mode = modeExport
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m.startExport(export.FormatJSON, true)

	case key.Matches(msg, m.keys.Shuffle):
		m.session.Shuffle()
		return m, nil

	case key.Matches(msg, m.keys.Bigger):
		m.session.SetFontSize(m.session.FontSize() + FontSizeStep)
		return m, nil

	case key.Matches(msg, m.keys.Smaller):
		m.session.SetFontSize(m.session.FontSize() - FontSizeStep)
		return m, nil

	case key.Matches(msg, m.keys.Looser):
		m.session.SetKerning(m.session.Kerning() + play.KerningStep)
		return m, nil

	case key.Matches(msg, m.keys.Tighter):
		m.session.SetKerning(m.session.Kerning() - play.KerningStep)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Cancel):
		if text := m.input.Value(); text != m.session.Text() {
			m.session.SetText(text)
		}
		m.input.Blur()
		m.mode = modePlay
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(export.Formats)
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modePlay
	case key.Matches(msg, m.keys.MenuUp):
		m.menuIndex = (m.menuIndex + n - 1) % n
	case key.Matches(msg, m.keys.MenuDown):
		m.menuIndex = (m.menuIndex + 1) % n
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modePlay
		return m.startExport(export.Formats[m.menuIndex], false)
	default:
		// 1-4 pick a format directly.
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && int(s[0]-'0') <= n {
			m.menuIndex = int(s[0] - '1')
			m.mode = modePlay
			return m.startExport(export.Formats[m.menuIndex], false)
		}
	}
	return m, nil
}

func (m Model) startExport(format export.Format, saved bool) (tea.Model, tea.Cmd) {
	if m.exporting {
		m.toasts.AddStatus("export in progress")
		return m, nil
	}
	m.exporting = true
	opts := export.OptionsFromConfig(m.cfg.Export)
	return m, exportCmd(m.session.Snapshot(), format, opts, saved)
}

// =============================================================================
// HOVER
// =============================================================================

// moveHover moves the hover by dir, skipping spaces, and restarts the
// cycler on the new letter.
func (m Model) moveHover(dir int) (tea.Model, tea.Cmd) {
	letters := m.session.Letters()
	if len(letters) == 0 {
		return m, nil
	}
	i := m.session.Hovered()
	if i < 0 {
		i = -1
		if dir < 0 {
			i = len(letters)
		}
	}
	for step := 0; step < len(letters); step++ {
		i = (i + dir + len(letters)) % len(letters)
		if !letters[i].IsSpace() {
			break
		}
	}
	if letters[i].IsSpace() {
		return m, nil
	}
	return m.hover(i)
}

func (m Model) hover(i int) (tea.Model, tea.Cmd) {
	m.stopCycle()
	if !m.session.Hover(i) {
		return m, nil
	}
	m.nextCycle++
	ch, stop := m.cycler.Start(m.ctx, i)
	m.cycle = &cycleState{
		id:       m.nextCycle,
		index:    i,
		resetKey: m.session.ResetKey(),
		ch:       ch,
		stop:     stop,
	}
	return m, waitForMorph(m.cycle.id, ch)
}

func (m *Model) stopCycle() {
	if m.cycle != nil {
		m.cycle.stop()
		m.cycle = nil
	}
}

func (m Model) handleMorph(msg morphMsg) (tea.Model, tea.Cmd) {
	if m.cycle == nil || msg.cycle != m.cycle.id || !msg.ok {
		return m, nil
	}
	if m.session.Apply(m.cycle.resetKey, msg.update) {
		m.sparkle++
	}
	return m, waitForMorph(m.cycle.id, m.cycle.ch)
}

// =============================================================================
// RESULTS
// =============================================================================

func (m Model) handleGenerated(msg GeneratedMsg) (tea.Model, tea.Cmd) {
	m.generating = false
	rep := msg.Report
	switch {
	case rep == nil:
	case rep.Discarded:
		m.toasts.AddStatus("generation finished after reset; result discarded")
	case rep.Fallback():
		m.toasts.AddError(generateFailure(rep))
	case rep.Status != fontmap.StatusOK || len(rep.Missing) > 0:
		m.toasts.AddWarning(fmt.Sprintf("%d glyphs (%d cached), missing %s",
			rep.Cached+rep.Generated, rep.Cached, strings.Join(rep.Missing, " ")))
	default:
		m.toasts.AddSuccess(fmt.Sprintf("%s: %d glyphs (%d cached)",
			strings.Join(rep.Styles, " + "), rep.Cached+rep.Generated, rep.Cached))
	}
	return m, nil
}

func generateFailure(rep *play.GenerateReport) string {
	switch rep.Status {
	case fontmap.StatusNoCredential:
		return "no API key: set GEMINI_API_KEY or gemini.api_key"
	case fontmap.StatusNoCharacters:
		return "nothing to generate"
	case fontmap.StatusNoStyles:
		return "no fonts to blend"
	}
	if rep.Err != nil {
		return fmt.Sprintf("generation failed (%s): %v", rep.Status, rep.Err)
	}
	return "generation failed: " + rep.Status.String()
}

func (m Model) handleExported(msg ExportedMsg) (tea.Model, tea.Cmd) {
	m.exporting = false
	verb := "exported"
	if msg.Saved {
		verb = "saved font map to"
	}
	switch {
	case msg.Err != nil && msg.Path == "":
		m.toasts.AddError(fmt.Sprintf("%s export failed: %v", msg.Format, msg.Err))
	case msg.Err != nil:
		m.toasts.AddWarning(fmt.Sprintf("%s %s (not opened: %v)", verb, msg.Path, msg.Err))
	default:
		m.toasts.AddSuccess(verb + " " + msg.Path)
	}
	return m, nil
}

func (m Model) handleReload(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	next := waitForReload(m.reloads)
	if msg.Err != nil {
		m.toasts.AddWarning("config not reloaded: " + msg.Err.Error())
		return m, next
	}
	if msg.Config == nil {
		return m, next
	}
	m.cfg = msg.Config
	// A running cycler keeps its interval; the next hover uses the new one.
	m.cycler = &morph.Cycler{Interval: m.cfg.Interval(), Rand: morph.NewRand(), Delayed: true}
	m.logger.Info("config reloaded", "interval", m.cycler.Interval)
	m.toasts.AddStatus("config reloaded")
	return m, next
}
