// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file handles input submission: slash commands, attachment staging,
// and the send pipeline.
package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/haven-tui/internal/attachment"
	"github.com/jeranaias/haven-tui/internal/model"
	"github.com/jeranaias/haven-tui/internal/ui/components"
)

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

// submitInput processes the current input line. Slash commands are handled
// locally; anything else is sent to the backend with the staged attachments.
func (m *Model) submitInput() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())

	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}

	if text == "" && m.store.Len() == 0 {
		return nil
	}
	if m.state == StateSending {
		return m.notice("Still waiting for the previous reply")
	}

	atts := m.store.Items()
	payloads, err := model.PayloadsFor(atts)
	if err != nil {
		m.lastErr = err
		return m.notice("Could not read an attachment: " + err.Error())
	}

	m.conversation.AddUserMessage(text, model.MetaFor(atts))
	pending := m.conversation.AddPendingAssistant()
	req := m.conversation.SendRequest(text, payloads)

	// Sending consumes the staged attachments; the store's removal
	// observer releases their preview resources.
	m.store.Clear()
	m.syncTray()

	m.input.Reset()
	m.state = StateSending
	m.statusBar.SetStatus(components.StatusSending)
	m.sessions.MarkDirty()
	m.refreshViewport(true)

	cmds := []tea.Cmd{
		m.sendCmd(m.conversation.SessionID, pending.ID, req),
		m.spinner.Start(),
	}
	if m.cache != nil {
		m.savedDraft = ""
		key := m.draftKey()
		cache := m.cache
		cmds = append(cmds, func() tea.Msg {
			_ = cache.DeleteDraft(key)
			return nil
		})
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleCommand dispatches a slash command typed at the prompt.
func (m *Model) handleCommand(text string) tea.Cmd {
	parts := strings.Fields(text)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "/help":
		m.input.Reset()
		m.overlay = OverlayHelp
		return nil

	case "/quit", "/exit":
		return tea.Quit

	case "/new":
		m.input.Reset()
		return m.startFreshChat()

	case "/clear":
		m.input.Reset()
		m.conversation.ClearHistory()
		m.sessions.MarkDirty()
		m.refreshViewport(true)
		return m.notice("History cleared")

	case "/model":
		m.input.Reset()
		if len(args) == 0 {
			m.overlay = OverlayModels
			m.modelPicker.Reload()
			return nil
		}
		info, ok := m.inventory.Lookup(args[0])
		if !ok {
			return m.notice("No model matches " + args[0])
		}
		if !info.Installed {
			return m.notice(info.Name + " is not installed; download it from the picker")
		}
		m.SetModelName(info.Name)
		return m.notice("Switched to " + info.Name)

	case "/attach":
		m.input.Reset()
		if len(args) == 0 {
			return m.notice("Usage: /attach <path> [path...]")
		}
		m.picker.Select(strings.TrimSpace(strings.TrimPrefix(text, "/attach")))
		return m.ingestPicked()

	case "/detach":
		m.input.Reset()
		m.store.Clear()
		m.syncTray()
		return m.notice("Attachments removed")

	case "/models":
		m.input.Reset()
		m.overlay = OverlayModels
		m.modelPicker.Reload()
		return nil

	case "/history":
		m.input.Reset()
		m.overlay = OverlayHistory
		m.sessionList.SetSessions(m.sessions.Sessions())
		m.sessionList.SetCurrent(m.sessions.CurrentID())
		return nil

	case "/memory", "/settings":
		m.input.Reset()
		m.overlay = OverlaySettings
		return m.loadMemoryCmd()

	default:
		return m.notice("Unknown command " + cmd + "; try /help")
	}
}

// =============================================================================
// INGESTION SOURCES
// =============================================================================

// ingestPicked drains the picker and runs its selections through ingestion.
func (m *Model) ingestPicked() tea.Cmd {
	refs, errs := m.picker.Take()
	if len(refs) == 0 && len(errs) == 0 {
		return nil
	}
	res := m.ingestor.IngestWithErrors(refs, errs)
	return m.applyIngest(res)
}

// handlePaste routes a paste: file references become attachments, plain
// text goes into the input line.
func (m *Model) handlePaste() tea.Cmd {
	outcome := m.clipboard.Inspect()
	if outcome.Claimed || len(outcome.Errors) > 0 {
		// An unclaimed outcome can still carry an unreadable-clipboard
		// error; it is surfaced the same way as ingestion failures.
		res := m.ingestor.IngestWithErrors(outcome.Files, outcome.Errors)
		return m.applyIngest(res)
	}
	if outcome.Text != "" {
		m.input.SetValue(m.input.Value() + outcome.Text)
		m.input.CursorEnd()
	}
	return nil
}

// applyIngest folds an ingestion result into the UI: tray refresh plus a
// transient summary notice.
func (m *Model) applyIngest(res attachment.Result) tea.Cmd {
	m.syncTray()
	if m.ready {
		m.SetSize(m.width, m.height)
	}

	summary := components.RenderIngestSummary(res)
	if summary == "" {
		return nil
	}
	return m.notice(summary)
}

// notice shows a transient message in the status bar.
func (m *Model) notice(text string) tea.Cmd {
	m.noticeSeq++
	m.statusBar.SetNotice(text)
	return noticeExpiryCmd(m.noticeSeq)
}

// startFreshChat detaches from the current session and opens an empty
// conversation with the same model.
func (m *Model) startFreshChat() tea.Cmd {
	modelName := m.conversation.Model
	m.sessions.Detach()
	m.conversation = model.NewConversationWithModel(modelName)
	m.store.Clear()
	m.syncTray()
	m.state = StateReady
	m.statusBar.SetStatus(components.StatusReady)
	m.statusBar.SetSession("")
	m.refreshViewport(true)
	if m.cache != nil {
		return m.loadDraftCmd("")
	}
	return nil
}
