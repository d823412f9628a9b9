// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jeranaias/profchat/internal/config"
	"github.com/jeranaias/profchat/internal/logging"
	"github.com/jeranaias/profchat/internal/session"
	"github.com/jeranaias/profchat/internal/ui/components"
	"github.com/jeranaias/profchat/internal/ui/styles"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Directory is the professor list the persona bar shows.
type Directory interface {
	Refresh(ctx context.Context) error
	Names() []string
	Contains(name string) bool
	// Loaded reports whether any refresh has succeeded.
	Loaded() bool
	// Version changes after every successful refresh.
	Version() uint64
}

// =============================================================================
// LAYOUT
// =============================================================================

// DirectoryPosition places the persona bar.
type DirectoryPosition string

const (
	DirectoryTop    DirectoryPosition = "top"
	DirectoryBottom DirectoryPosition = "bottom"
)

// LayoutOptions selects between the screen arrangements.
type LayoutOptions struct {
	DirectoryPosition DirectoryPosition
	ShowIngestForm    bool
}

// LayoutFromConfig builds layout options from the [ui] section.
func LayoutFromConfig(ui config.UIConfig) LayoutOptions {
	pos := DirectoryTop
	if ui.DirectoryPosition == string(DirectoryBottom) {
		pos = DirectoryBottom
	}
	return LayoutOptions{
		DirectoryPosition: pos,
		ShowIngestForm:    ui.ShowIngestForm,
	}
}

type focusArea int

const (
	focusComposer focusArea = iota
	focusPersonas
	focusIngest
)

// =============================================================================
// MODEL
// =============================================================================

// DefaultRequestTimeout bounds directory and ingestion commands.
const DefaultRequestTimeout = 30 * time.Second

// Options configures a Model.
type Options struct {
	Controller *session.Controller
	Directory  Directory
	Layout     LayoutOptions

	// GlamourStyle names the markdown style ("auto" when empty).
	GlamourStyle string
	// WordWrap fixes the transcript wrap width; 0 follows the terminal.
	WordWrap int
	// Host is shown in the header.
	Host string
	// ExportDir receives saved transcripts ("." when empty).
	ExportDir string

	// Context bounds every command the model starts.
	Context        context.Context
	RequestTimeout time.Duration
	Logger         zerolog.Logger

	// ConfigUpdates delivers configuration reloads. OnConfigReload runs
	// for each successful one before the model applies it.
	ConfigUpdates  <-chan ConfigReloadedMsg
	OnConfigReload func(*config.Config)
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctrl *session.Controller
	dir  Directory
	ctx  context.Context
	log  zerolog.Logger

	layout       LayoutOptions
	glamourStyle string
	wordWrap     int
	timeout      time.Duration
	exportDir    string
	configCh     <-chan ConfigReloadedMsg
	onReload     func(*config.Config)

	keys     KeyMap
	theme    *styles.Theme
	md       *components.Markdown
	header   *components.Header
	personas *components.PersonaBar
	composer *components.Composer
	form     *components.IngestForm
	status   *components.StatusBar
	viewport viewport.Model
	spinner  spinner.Model

	focus      focusArea
	run        *streamRun
	loadingDir bool
	dirVersion uint64
	notice     error
	info       string

	width  int
	height int
	ready  bool
}

// New creates the chat model.
func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Layout.DirectoryPosition == "" {
		opts.Layout.DirectoryPosition = DirectoryTop
	}

	theme := styles.NewTheme()
	v := opts.Controller.View()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	m := Model{
		ctrl:         opts.Controller,
		dir:          opts.Directory,
		ctx:          opts.Context,
		log:          logging.For(opts.Logger, logging.UI),
		layout:       opts.Layout,
		glamourStyle: opts.GlamourStyle,
		wordWrap:     opts.WordWrap,
		timeout:      opts.RequestTimeout,
		exportDir:    opts.ExportDir,
		configCh:     opts.ConfigUpdates,
		onReload:     opts.OnConfigReload,
		keys:         DefaultKeyMap(),
		theme:        theme,
		md:           components.NewMarkdown(theme.GlamourStyle(opts.GlamourStyle)),
		header:       components.NewHeader(theme),
		personas:     components.NewPersonaBar(theme),
		composer:     components.NewComposer(theme),
		form:         components.NewIngestForm(theme, v.IngestCollege),
		status:       components.NewStatusBar(theme),
		viewport:     viewport.New(80, 20),
		spinner:      sp,
		width:        80,
		height:       24,
	}
	m.header.Host = opts.Host
	m.loadingDir = true
	m.composer.Focus()
	m.syncDirectory()
	m.refresh()
	return m
}

// Init loads the directory and starts listening for config reloads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		loadDirectoryCmd(m.ctx, m.dir, m.timeout),
		waitForConfigCmd(m.configCh),
	)
}

// reloadDirectory starts a directory refresh.
func (m *Model) reloadDirectory() tea.Cmd {
	m.loadingDir = true
	return loadDirectoryCmd(m.ctx, m.dir, m.timeout)
}

// syncDirectory shows a newer directory in the persona bar. A selected
// professor the directory no longer lists is deselected.
func (m *Model) syncDirectory() {
	v := m.dir.Version()
	if v == m.dirVersion {
		return
	}
	m.dirVersion = v
	m.personas.SetNames(m.dir.Names())

	if p := m.ctrl.Persona(); p != "" && !m.dir.Contains(p) {
		m.ctrl.Select(p)
		m.log.Info().Str("professor", p).Msg("professor left the directory, deselected")
	}
}

// formVisible reports whether the ingestion form is on screen.
func (m Model) formVisible() bool {
	return m.layout.ShowIngestForm && m.ctrl.Persona() == ""
}

// refresh copies controller state into the components and re-lays out the
// screen.
func (m *Model) refresh() {
	v := m.ctrl.View()
	sending := v.State == session.StateSending

	m.header.Persona = v.Persona
	m.personas.Selected = v.Persona
	m.personas.Focused = m.focus == focusPersonas
	m.personas.Loading = m.loadingDir && !m.dir.Loaded()
	m.composer.SetStatus(v.Selected(), sending)
	m.form.SetBusy(v.Ingesting)

	if m.focus == focusIngest && !m.formVisible() {
		m.setFocus(focusComposer)
	}

	m.status.State = v.State.String()
	m.status.Info = m.info
	m.status.Err = v.LastErr
	if m.status.Err == nil {
		m.status.Err = m.notice
	}
	m.status.Spinner = ""
	if sending {
		m.status.Spinner = m.spinner.View()
	}
	m.status.Hints = m.keys.hintsFor(m.focus)

	m.resize()

	atBottom := m.viewport.AtBottom()
	wrap := m.viewport.Width
	if m.wordWrap > 0 && m.wordWrap < wrap {
		wrap = m.wordWrap
	}
	m.viewport.SetContent(components.RenderTranscript(v.Turns, v.Persona, wrap, sending, m.theme, m.md))
	if atBottom || sending {
		m.viewport.GotoBottom()
	}
}

// resize distributes the terminal height between the chrome and the
// transcript viewport.
func (m *Model) resize() {
	m.theme.SetSize(m.width, m.height)
	m.header.Width = m.width
	m.personas.Width = m.width
	m.composer.SetWidth(m.width)
	m.form.SetWidth(m.width)
	m.status.Width = m.width

	chrome := lipgloss.Height(m.header.View()) +
		lipgloss.Height(m.personas.View()) +
		lipgloss.Height(m.composer.View()) +
		lipgloss.Height(m.status.View())
	if m.formVisible() {
		chrome += lipgloss.Height(m.form.View())
	}

	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.personas.Focused = f == focusPersonas

	var cmd tea.Cmd
	switch f {
	case focusComposer:
		m.form.Deactivate()
		cmd = m.composer.Focus()
	case focusPersonas:
		m.form.Deactivate()
		m.composer.Blur()
	case focusIngest:
		m.composer.Blur()
		cmd = m.form.Activate(m.form.Focus())
	}
	m.status.Hints = m.keys.hintsFor(f)
	return cmd
}

// cycleFocus moves focus by delta through the visible areas.
func (m *Model) cycleFocus(delta int) tea.Cmd {
	areas := []focusArea{focusComposer, focusPersonas}
	if m.formVisible() {
		areas = append(areas, focusIngest)
	}
	idx := 0
	for i, a := range areas {
		if a == m.focus {
			idx = i
		}
	}
	idx = ((idx+delta)%len(areas) + len(areas)) % len(areas)
	return m.setFocus(areas[idx])
}
