// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the message types used for async communication between
// backend operations and the UI event loop.
package chat

import (
	"github.com/jeranaias/haven-tui/internal/attachment"
	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/model"
)

// =============================================================================
// SEND MESSAGES
// =============================================================================

// ReplyMsg carries the backend's reply to a sent message, or the failure.
// SessionID is set when the send bound the conversation to a new session.
type ReplyMsg struct {
	MessageID string // pending assistant message to resolve
	SessionID string
	Response  string
	Model     string
	Err       error
}

// =============================================================================
// HEALTH MESSAGES
// =============================================================================

// HealthMsg reports the result of a backend health probe.
type HealthMsg struct {
	Healthy bool
	Err     error
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionsRefreshedMsg signals that the session list was reloaded.
type SessionsRefreshedMsg struct {
	Err error
}

// SessionOpenedMsg carries a conversation loaded from the backend.
type SessionOpenedMsg struct {
	Conversation *model.Conversation
	Err          error
}

// SessionDeletedMsg signals that a session was deleted.
type SessionDeletedMsg struct {
	ID  string
	Err error
}

// SessionRenamedMsg signals that a session title was updated.
type SessionRenamedMsg struct {
	ID    string
	Title string
	Err   error
}

// =============================================================================
// MODEL INVENTORY MESSAGES
// =============================================================================

// ModelsRefreshedMsg signals that the model inventory was reloaded.
type ModelsRefreshedMsg struct {
	Err error
}

// DownloadStartedMsg signals that a model download was requested.
type DownloadStartedMsg struct {
	Name string
	Err  error
}

// DownloadProgressMsg carries one poll of an in-flight download.
type DownloadProgressMsg struct {
	Name   string
	Status *backend.DownloadStatus
	Err    error
}

// ModelRemovedMsg signals that an installed model was deleted.
type ModelRemovedMsg struct {
	Name string
	Err  error
}

// =============================================================================
// MEMORY MESSAGES
// =============================================================================

// MemoryLoadedMsg carries the persisted memory set.
type MemoryLoadedMsg struct {
	Entries []backend.MemoryEntry
	Err     error
}

// MemorySavedMsg signals the outcome of a wholesale memory save.
type MemorySavedMsg struct {
	Err error
}

// =============================================================================
// ATTACHMENT MESSAGES
// =============================================================================

// DropMsg carries files extracted from the drop directory.
type DropMsg struct {
	Event attachment.DropEvent
}

// DropClosedMsg signals that the drop watcher channel closed.
type DropClosedMsg struct{}

// NoticeExpiredMsg clears a transient status bar notice.
type NoticeExpiredMsg struct {
	Seq int // ignore if a newer notice replaced this one
}

// DraftLoadedMsg carries a restored input draft for the current session.
type DraftLoadedMsg struct {
	SessionID string
	Input     string
	Found     bool
}
