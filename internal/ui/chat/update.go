// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the update logic: keyboard routing and handling of the
// async messages produced by backend commands.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/haven-tui/internal/session"
	"github.com/jeranaias/haven-tui/internal/ui/components"
)

// =============================================================================
// MAIN UPDATE
// =============================================================================

// Update handles messages for the chat interface.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case session.TickMsg:
		return m.handleTick()

	case healthTickMsg:
		return m, m.checkHealthCmd()

	case HealthMsg:
		return m.handleHealth(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case SessionsRefreshedMsg:
		return m.handleSessionsRefreshed(msg)

	case SessionOpenedMsg:
		return m.handleSessionOpened(msg)

	case SessionDeletedMsg:
		if msg.Err != nil {
			return m, m.notice("Delete failed: " + msg.Err.Error())
		}
		m.sessionList.SetSessions(m.sessions.Sessions())
		m.sessionList.SetCurrent(m.sessions.CurrentID())
		return m, m.notice("Chat deleted")

	case SessionRenamedMsg:
		if msg.Err != nil {
			return m, m.notice("Rename failed: " + msg.Err.Error())
		}
		if msg.ID == m.conversation.SessionID {
			m.conversation.SetTitle(msg.Title)
			m.statusBar.SetSession(msg.Title)
		}
		m.sessionList.SetSessions(m.sessions.Sessions())
		return m, nil

	case ModelsRefreshedMsg:
		return m.handleModelsRefreshed(msg)

	case DownloadStartedMsg:
		if msg.Err != nil {
			m.modelPicker.ClearProgress(msg.Name)
			return m, m.notice("Download failed: " + msg.Err.Error())
		}
		m.modelPicker.SetProgress(msg.Name, "starting")
		return m, m.pollDownloadCmd(msg.Name)

	case DownloadProgressMsg:
		return m.handleDownloadProgress(msg)

	case ModelRemovedMsg:
		if msg.Err != nil {
			return m, m.notice("Remove failed: " + msg.Err.Error())
		}
		return m, tea.Batch(m.notice(msg.Name+" removed"), m.refreshModelsCmd())

	case MemoryLoadedMsg:
		if msg.Err != nil {
			return m, m.notice("Could not load memory: " + msg.Err.Error())
		}
		m.memory.SetEntries(msg.Entries)
		return m, nil

	case MemorySavedMsg:
		if msg.Err != nil {
			return m, m.notice("Save failed: " + msg.Err.Error())
		}
		m.memory.MarkSaved()
		return m, m.notice("Memory saved")

	case DropMsg:
		res := m.ingestor.IngestWithErrors(msg.Event.Files, msg.Event.Errors)
		cmd := m.applyIngest(res)
		return m, tea.Batch(cmd, m.listenDropsCmd())

	case DropClosedMsg:
		return m, nil

	case DraftLoadedMsg:
		if msg.Found && msg.SessionID == m.draftKey() && m.input.Value() == "" {
			m.input.SetValue(msg.Input)
			m.input.CursorEnd()
			m.savedDraft = msg.Input
		}
		return m, nil

	case NoticeExpiredMsg:
		if msg.Seq == m.noticeSeq {
			m.statusBar.ClearNotice()
		}
		return m, nil
	}

	// Spinner ticks and other component messages.
	var cmds []tea.Cmd
	if m.spinner.IsActive() {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.overlay == OverlaySettings && m.memory.Editing() {
		cmds = append(cmds, m.memory.Update(msg))
	} else if m.overlay == OverlayNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEYBOARD ROUTING
// =============================================================================

// handleKey routes a key press to the active surface.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.overlay {
	case OverlayModels:
		return m.handleModelsKey(msg)
	case OverlayHistory:
		return m.handleHistoryKey(msg)
	case OverlaySettings:
		return m.handleSettingsKey(msg)
	case OverlayError, OverlayHelp:
		// Any key dismisses.
		m.overlay = OverlayNone
		return m, nil
	}

	return m.handleChatKey(msg)
}

// handleChatKey handles keys on the main conversation surface.
func (m Model) handleChatKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Attachment tray focus captures navigation keys.
	if m.tray.Focused() {
		return m.handleTrayKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp
		return m, nil

	case key.Matches(msg, m.keys.Models):
		m.overlay = OverlayModels
		m.modelPicker.Reload()
		return m, nil

	case key.Matches(msg, m.keys.History):
		m.overlay = OverlayHistory
		m.sessionList.SetSessions(m.sessions.Sessions())
		m.sessionList.SetCurrent(m.sessions.CurrentID())
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.overlay = OverlaySettings
		return m, m.loadMemoryCmd()

	case key.Matches(msg, m.keys.NewChat):
		return m, m.startFreshChat()

	case key.Matches(msg, m.keys.Paste):
		return m, m.handlePaste()

	case key.Matches(msg, m.keys.Attach):
		if v := m.input.Value(); v != "" {
			m.picker.Select(v)
			m.input.Reset()
			return m, m.ingestPicked()
		}
		return m, m.notice("Type file paths, then press C-o to attach")

	case key.Matches(msg, m.keys.Tray):
		if m.tray.Len() > 0 {
			m.tray.SetFocused(true)
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m, m.submitInput()

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleTrayKey handles keys while the attachment tray has focus.
func (m Model) handleTrayKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab":
		m.tray.SetFocused(false)
		return m, nil
	case "left", "up":
		m.tray.Prev()
		return m, nil
	case "right", "down":
		m.tray.Next()
		return m, nil
	case "delete", "backspace", "d", "x":
		idx := m.tray.Selected()
		m.store.RemoveAt(idx)
		m.syncTray()
		if m.store.Len() == 0 {
			m.tray.SetFocused(false)
		}
		if m.ready {
			m.SetSize(m.width, m.height)
		}
		return m, nil
	}
	return m, nil
}

// handleModelsKey handles keys on the model picker overlay.
func (m Model) handleModelsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overlay = OverlayNone
		return m, nil
	case "up", "k":
		m.modelPicker.MoveUp()
		return m, nil
	case "down", "j":
		m.modelPicker.MoveDown()
		return m, nil
	case "r":
		return m, m.refreshModelsCmd()
	case "d":
		info, ok := m.modelPicker.Selected()
		if !ok || !info.Installed {
			return m, nil
		}
		return m, m.removeModelCmd(info.Name)
	case "enter":
		info, ok := m.modelPicker.Selected()
		if !ok {
			return m, nil
		}
		if info.Installed {
			m.SetModelName(info.Name)
			m.overlay = OverlayNone
			return m, m.notice("Switched to " + info.Name)
		}
		if m.inventory.IsPending(info.Name) {
			return m, nil
		}
		return m, m.startDownloadCmd(info.Name)
	}
	return m, nil
}

// handleHistoryKey handles keys on the session list overlay.
func (m Model) handleHistoryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Inline rename captures typing.
	if m.sessionList.Renaming() {
		switch msg.Type {
		case tea.KeyEsc:
			m.sessionList.CancelRename()
			return m, nil
		case tea.KeyEnter:
			title := m.sessionList.FinishRename()
			sel, ok := m.sessionList.Selected()
			if !ok || title == "" {
				return m, nil
			}
			return m, m.renameSessionCmd(sel.ID, title)
		case tea.KeyBackspace:
			m.sessionList.Backspace()
			return m, nil
		case tea.KeyRunes, tea.KeySpace:
			for _, r := range msg.Runes {
				m.sessionList.TypeRune(r)
			}
			if msg.Type == tea.KeySpace {
				m.sessionList.TypeRune(' ')
			}
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.overlay = OverlayNone
		return m, nil
	case "up", "k":
		m.sessionList.MoveUp()
		return m, nil
	case "down", "j":
		m.sessionList.MoveDown()
		return m, nil
	case "n":
		m.overlay = OverlayNone
		return m, m.startFreshChat()
	case "f2":
		m.sessionList.StartRename()
		return m, nil
	case "d":
		sel, ok := m.sessionList.Selected()
		if !ok {
			return m, nil
		}
		if sel.ID == m.conversation.SessionID {
			// Deleting the open chat falls back to a fresh one.
			return m, tea.Batch(m.deleteSessionCmd(sel.ID), m.startFreshChat())
		}
		return m, m.deleteSessionCmd(sel.ID)
	case "enter":
		sel, ok := m.sessionList.Selected()
		if !ok {
			return m, nil
		}
		m.overlay = OverlayNone
		if sel.ID == m.conversation.SessionID {
			return m, nil
		}
		return m, m.openSessionCmd(sel.ID)
	}
	return m, nil
}

// handleSettingsKey handles keys on the settings/memory overlay.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.memory.Editing() {
		switch msg.Type {
		case tea.KeyEsc:
			m.memory.Cancel()
			return m, nil
		case tea.KeyEnter:
			return m, m.memory.Confirm()
		}
		return m, m.memory.Update(msg)
	}

	switch msg.String() {
	case "esc":
		m.overlay = OverlayNone
		return m, nil
	case "up", "k":
		m.memory.MoveUp()
		return m, nil
	case "down", "j":
		m.memory.MoveDown()
		return m, nil
	case "a":
		return m, m.memory.StartAdd()
	case "e":
		return m, m.memory.StartEdit()
	case "d":
		m.memory.Delete()
		return m, nil
	case "s":
		if !m.memory.Dirty() {
			return m, m.notice("No memory changes to save")
		}
		return m, m.saveMemoryCmd(m.memory.Entries())
	}
	return m, nil
}

// =============================================================================
// ASYNC MESSAGE HANDLERS
// =============================================================================

// handleTick persists the input draft when it changed, then drives the
// session manager's auto-save check and reschedules the tick.
func (m Model) handleTick() (Model, tea.Cmd) {
	cmds := []tea.Cmd{m.sessions.HandleTick()}

	if m.cache != nil {
		if v := m.input.Value(); v != m.savedDraft {
			m.savedDraft = v
			key := m.draftKey()
			cache := m.cache
			cmds = append(cmds, func() tea.Msg {
				_ = cache.SaveDraft(key, v)
				return nil
			})
		}
	}

	return m, tea.Batch(cmds...)
}

// handleHealth applies a health probe result and schedules the next one.
func (m Model) handleHealth(msg HealthMsg) (Model, tea.Cmd) {
	wasHealthy := m.healthy
	m.healthy = msg.Healthy
	m.statusBar.SetBackendHealthy(msg.Healthy)

	if msg.Healthy && !wasHealthy {
		m.statusBar.SetStatus(components.StatusReady)
		return m, tea.Batch(healthTickCmd(), m.notice("Backend reconnected"))
	}
	return m, healthTickCmd()
}

// handleReply applies the backend's reply to the pending assistant message.
func (m Model) handleReply(msg ReplyMsg) (Model, tea.Cmd) {
	m.spinner.Stop()

	if msg.SessionID != "" && m.conversation.SessionID == "" {
		m.conversation.SessionID = msg.SessionID
	}

	if msg.Err != nil {
		m.state = StateError
		m.lastErr = msg.Err
		m.conversation.FailPending("No reply. " + msg.Err.Error())
		m.statusBar.SetStatus(components.StatusError)
		m.errorBox = components.NewErrorBox(msg.Err, m.theme)
		m.errorBox.SetWidth(m.width)
		m.overlay = OverlayError
		m.refreshViewport(true)
		return m, nil
	}

	m.state = StateReady
	m.lastErr = nil
	m.conversation.ResolvePending(msg.Response, msg.Model)
	m.statusBar.SetStatus(components.StatusReady)
	m.statusBar.SetSession(m.conversation.GetTitle())
	m.sessions.MarkClean()
	m.refreshViewport(true)

	// A send can create the session server-side; refresh the list so the
	// history overlay sees it.
	return m, m.refreshSessionsCmd()
}

// handleSessionsRefreshed applies a reloaded session list.
func (m Model) handleSessionsRefreshed(msg SessionsRefreshedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m, nil
	}
	sessions := m.sessions.Sessions()
	m.sessionList.SetSessions(sessions)
	m.sessionList.SetCurrent(m.sessions.CurrentID())

	// Mirror summaries for offline listing and prune orphaned drafts.
	if m.cache != nil {
		cache := m.cache
		return m, func() tea.Msg {
			_ = cache.SaveSummaries(sessions)
			_ = cache.PruneDrafts()
			return nil
		}
	}
	return m, nil
}

// handleSessionOpened swaps in a conversation loaded from the backend.
func (m Model) handleSessionOpened(msg SessionOpenedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.errorBox = components.NewErrorBox(msg.Err, m.theme)
		m.errorBox.SetWidth(m.width)
		m.overlay = OverlayError
		return m, nil
	}

	m.conversation = msg.Conversation
	m.state = StateReady
	m.overlay = OverlayNone
	m.statusBar.SetStatus(components.StatusReady)
	m.statusBar.SetSession(m.conversation.GetTitle())
	m.store.Clear()
	m.syncTray()
	m.input.Reset()
	m.savedDraft = ""
	m.refreshViewport(true)

	if m.cache != nil {
		return m, m.loadDraftCmd(m.conversation.SessionID)
	}
	return m, nil
}

// handleModelsRefreshed applies a reloaded model inventory.
func (m Model) handleModelsRefreshed(msg ModelsRefreshedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		if m.overlay == OverlayModels {
			return m, m.notice("Could not load models: " + msg.Err.Error())
		}
		return m, nil
	}
	m.modelPicker.Reload()

	if m.conversation.Model == "" {
		if def, ok := m.inventory.DefaultModel(); ok {
			m.SetModelName(def)
		}
	}
	return m, nil
}

// handleDownloadProgress applies one download status poll.
func (m Model) handleDownloadProgress(msg DownloadProgressMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.modelPicker.ClearProgress(msg.Name)
		m.inventory.CancelPending(msg.Name)
		return m, m.notice("Download failed: " + msg.Err.Error())
	}

	switch msg.Status.Status {
	case "completed":
		m.modelPicker.ClearProgress(msg.Name)
		m.inventory.CancelPending(msg.Name)
		return m, tea.Batch(m.notice(msg.Name+" installed"), m.refreshModelsCmd())
	case "error":
		m.modelPicker.ClearProgress(msg.Name)
		m.inventory.CancelPending(msg.Name)
		return m, m.notice("Download failed for " + msg.Name)
	default:
		progress := msg.Status.Progress
		if progress == "" {
			progress = msg.Status.Status
		}
		m.modelPicker.SetProgress(msg.Name, progress)
		return m, m.pollDownloadCmd(msg.Name)
	}
}
