// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/profchat/internal/session"
	"github.com/jeranaias/profchat/internal/ui/components"
)

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case DirectoryLoadedMsg:
		return m.handleDirectory(msg.Err)

	case IngestDoneMsg:
		return m.handleIngestDone(msg)

	case StreamUpdateMsg:
		if msg.run != m.run {
			return m, nil
		}
		m.refresh()
		return m, msg.run.wait()

	case StreamDoneMsg:
		return m.handleStreamDone(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReload(msg)

	case ExportDoneMsg:
		m.notice, m.info = msg.Err, ""
		if msg.Err == nil {
			m.info = "saved " + msg.Path
			m.log.Info().Str("path", msg.Path).Msg("transcript exported")
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.run == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.status.Spinner = m.spinner.View()
		return m, cmd
	}

	return m.forwardToFocused(msg)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.ctrl.Cancel() {
			m.log.Debug().Msg("reply cancelled")
			m.refresh()
			return m, nil
		}
		if m.focus != focusComposer {
			cmd := m.setFocus(focusComposer)
			m.refresh()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.NextFocus):
		cmd := m.cycleFocus(1)
		m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.PrevFocus):
		cmd := m.cycleFocus(-1)
		m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		cmd := m.reloadDirectory()
		m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.Export):
		return m, exportCmd(m.ctrl, m.header.Host, m.exportDir)
	}

	m.info = ""
	m.status.Info = ""

	switch m.focus {
	case focusPersonas:
		return m.handlePersonaKey(msg)
	case focusIngest:
		return m.handleIngestKey(msg)
	default:
		return m.handleComposerKey(msg)
	}
}

func (m Model) handlePersonaKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.personas.Move(-1)
	case key.Matches(msg, m.keys.Right):
		m.personas.Move(1)
	case key.Matches(msg, m.keys.Submit):
		name := m.personas.Current()
		if name == "" {
			return m, nil
		}
		m.notice = nil
		selected := m.ctrl.Select(name)
		m.log.Info().Str("professor", selected).Msg("persona selected")
		m.refresh()
		m.viewport.GotoTop()
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m Model) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		return m.submit()
	}
	cmd := m.composer.Update(msg)
	m.ctrl.SetDraft(m.composer.Value())
	return m, cmd
}

func (m Model) handleIngestKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		return m, m.form.Next()
	case key.Matches(msg, m.keys.Submit):
		name, college := m.form.Values()
		m.ctrl.SetIngestName(name)
		m.ctrl.SetIngestCollege(college)
		if name == "" || college == "" {
			return m, nil
		}
		m.form.SetBusy(true)
		return m, submitIngestCmd(m.ctx, m.ctrl, m.timeout)
	}
	cmd := m.form.Update(msg)
	name, college := m.form.Values()
	m.ctrl.SetIngestName(name)
	m.ctrl.SetIngestCollege(college)
	return m, cmd
}

func (m Model) forwardToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusComposer:
		return m, m.composer.Update(msg)
	case focusIngest:
		return m, m.form.Update(msg)
	}
	return m, nil
}

// =============================================================================
// ACTIONS
// =============================================================================

// submit sends the composer text. Empty drafts are ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.ctrl.SetDraft(m.composer.Value())
	ex, err := m.ctrl.BeginSend()
	if err != nil {
		if !session.IsNoOp(err) {
			m.notice = err
			m.refresh()
		}
		return m, nil
	}

	m.notice = nil
	m.composer.SetValue("")
	m.run = newStreamRun()
	m.refresh()
	m.log.Debug().Str("professor", ex.Persona).Int("history", len(ex.Request.History)).Msg("message submitted")

	return m, tea.Batch(
		m.run.start(m.ctx, m.ctrl, ex),
		m.run.wait(),
		m.spinner.Tick,
	)
}

func (m Model) handleStreamDone(msg StreamDoneMsg) (tea.Model, tea.Cmd) {
	if msg.run == m.run {
		m.run = nil
	}
	switch {
	case msg.Err == nil:
	case errors.Is(msg.Err, session.ErrSuperseded):
	default:
		m.log.Debug().Err(msg.Err).Str("professor", msg.Persona).Msg("reply ended with error")
	}
	m.refresh()
	return m, nil
}

func (m Model) handleDirectory(err error) (tea.Model, tea.Cmd) {
	m.loadingDir = false
	m.syncDirectory()
	m.notice = err
	if err != nil {
		m.log.Warn().Err(err).Msg("directory refresh failed")
	}
	m.refresh()
	return m, nil
}

func (m Model) handleIngestDone(msg IngestDoneMsg) (tea.Model, tea.Cmd) {
	m.form.SetBusy(false)
	m.syncDirectory()

	v := m.ctrl.View()
	m.form.SetValues(v.IngestName, v.IngestCollege)
	if session.IsNoOp(msg.Err) {
		m.notice = nil
	}
	m.refresh()
	return m, nil
}

func (m Model) handleConfigReload(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	next := waitForConfigCmd(m.configCh)
	if msg.Err != nil {
		m.notice = msg.Err
		m.refresh()
		return m, next
	}

	cfg := msg.Config
	if m.onReload != nil {
		m.onReload(cfg)
	}

	m.notice = nil
	m.layout = LayoutFromConfig(cfg.UI)
	m.wordWrap = cfg.UI.WordWrap
	if cfg.UI.GlamourStyle != m.glamourStyle {
		m.glamourStyle = cfg.UI.GlamourStyle
		m.md = components.NewMarkdown(m.theme.GlamourStyle(cfg.UI.GlamourStyle))
	}

	hostChanged := cfg.Backend.Host != m.header.Host
	m.header.Host = cfg.Backend.Host
	m.log.Info().Str("host", cfg.Backend.Host).Str("directory_position", string(m.layout.DirectoryPosition)).Msg("configuration reloaded")
	m.refresh()

	if hostChanged {
		cmd := m.reloadDirectory()
		m.refresh()
		return m, tea.Batch(next, cmd)
	}
	return m, next
}
