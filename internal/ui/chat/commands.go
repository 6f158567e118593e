// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the asynchronous commands that talk to the backend.
// Each command runs off the event loop and reports back with a typed message.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/haven-tui/internal/backend"
)

// =============================================================================
// HEALTH
// =============================================================================

// checkHealthCmd probes the backend health endpoint.
func (m Model) checkHealthCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.CheckHealth(context.Background())
		return HealthMsg{Healthy: err == nil, Err: err}
	}
}

// healthTickCmd schedules the next periodic health probe.
func healthTickCmd() tea.Cmd {
	return tea.Tick(15*time.Second, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

type healthTickMsg struct{}

// =============================================================================
// SEND
// =============================================================================

// sendCmd sends a chat message and reports the reply. When the conversation
// has no backend session yet, one is created first; its ID travels back on
// the reply so the conversation can bind to it.
func (m Model) sendCmd(sessionID, pendingID string, req backend.SendMessageRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()

		if sessionID == "" {
			created, err := client.CreateSession(ctx, "")
			if err != nil {
				return ReplyMsg{MessageID: pendingID, Err: err}
			}
			sessionID = created.ID
		}

		resp, err := client.SendMessage(ctx, sessionID, req)
		if err != nil {
			return ReplyMsg{MessageID: pendingID, SessionID: sessionID, Err: err}
		}
		return ReplyMsg{
			MessageID: pendingID,
			SessionID: sessionID,
			Response:  resp.Response,
			Model:     resp.Model,
		}
	}
}

// =============================================================================
// SESSIONS
// =============================================================================

// refreshSessionsCmd reloads the session list.
func (m Model) refreshSessionsCmd() tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		err := sessions.Refresh(context.Background())
		return SessionsRefreshedMsg{Err: err}
	}
}

// openSessionCmd loads a session's history and opens it.
func (m Model) openSessionCmd(id string) tea.Cmd {
	sessions := m.sessions
	modelName := m.conversation.Model
	return func() tea.Msg {
		conv, err := sessions.Open(context.Background(), id, modelName)
		return SessionOpenedMsg{Conversation: conv, Err: err}
	}
}

// deleteSessionCmd deletes a session.
func (m Model) deleteSessionCmd(id string) tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		err := sessions.Delete(context.Background(), id)
		return SessionDeletedMsg{ID: id, Err: err}
	}
}

// renameSessionCmd renames a session.
func (m Model) renameSessionCmd(id, title string) tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		err := sessions.Rename(context.Background(), id, title)
		return SessionRenamedMsg{ID: id, Title: title, Err: err}
	}
}

// =============================================================================
// MODEL INVENTORY
// =============================================================================

// refreshModelsCmd reloads the model inventory.
func (m Model) refreshModelsCmd() tea.Cmd {
	inv := m.inventory
	return func() tea.Msg {
		err := inv.Refresh(context.Background())
		return ModelsRefreshedMsg{Err: err}
	}
}

// startDownloadCmd asks the backend to pull a model.
func (m Model) startDownloadCmd(name string) tea.Cmd {
	inv := m.inventory
	return func() tea.Msg {
		err := inv.StartDownload(context.Background(), name)
		return DownloadStartedMsg{Name: name, Err: err}
	}
}

// pollDownloadCmd polls progress for an in-flight download. The poller
// rate-limits, so chaining this command is safe.
func (m Model) pollDownloadCmd(name string) tea.Cmd {
	poller := m.poller
	return func() tea.Msg {
		status, err := poller.Poll(context.Background(), name)
		return DownloadProgressMsg{Name: name, Status: status, Err: err}
	}
}

// removeModelCmd deletes an installed model.
func (m Model) removeModelCmd(name string) tea.Cmd {
	inv := m.inventory
	return func() tea.Msg {
		err := inv.Remove(context.Background(), name)
		return ModelRemovedMsg{Name: name, Err: err}
	}
}

// =============================================================================
// MEMORY
// =============================================================================

// loadMemoryCmd fetches the persisted memory set.
func (m Model) loadMemoryCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		entries, err := client.GetMemory(context.Background())
		return MemoryLoadedMsg{Entries: entries, Err: err}
	}
}

// saveMemoryCmd saves the whole memory set back.
func (m Model) saveMemoryCmd(entries []backend.MemoryEntry) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.SaveMemory(context.Background(), entries)
		return MemorySavedMsg{Err: err}
	}
}

// =============================================================================
// ATTACHMENTS
// =============================================================================

// listenDropsCmd waits for the next batch from the drop watcher.
func (m Model) listenDropsCmd() tea.Cmd {
	events := m.drops.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return DropClosedMsg{}
		}
		return DropMsg{Event: ev}
	}
}

// =============================================================================
// DRAFTS
// =============================================================================

// loadDraftCmd restores an unsent input draft for the given session.
func (m Model) loadDraftCmd(sessionID string) tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		input, found, err := cache.Draft(sessionID)
		if err != nil {
			return DraftLoadedMsg{SessionID: sessionID}
		}
		return DraftLoadedMsg{SessionID: sessionID, Input: input, Found: found}
	}
}

// noticeExpiryCmd clears a transient status notice after a short delay.
func noticeExpiryCmd(seq int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return NoticeExpiredMsg{Seq: seq}
	})
}
