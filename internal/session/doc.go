// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages navigation across backend chat sessions.
//
// The backend owns session storage; this package keeps the local list of
// session summaries, tracks which session is open, and drives periodic
// draft auto-save through the bubbletea tick loop. Views interested in
// list changes register a callback with OnChange.
//
// # Key Types
//
//   - Manager: Session list and current-session tracking
//   - TickMsg: Bubble Tea message driving the auto-save loop
//   - AutoSaveMsg: Bubble Tea message signalling a saved draft
//
// # Usage
//
// Create a manager and load the list:
//
//	mgr := session.NewManager(client, session.DefaultConfig())
//	err := mgr.Refresh(ctx)
//
// Open a session:
//
//	conv, err := mgr.Open(ctx, id, "llama3.2:3b")
//
// Opening a different session is a full switch: the caller discards
// transient compose state (input text, staged attachments, previews)
// before loading the new conversation.
package session
