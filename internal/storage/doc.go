// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local cache for haven TUI.
//
// The backend owns chat history; this package keeps a small SQLite
// database so the session list renders instantly on startup (and while
// the backend is down) and so unsent compose drafts survive restarts.
//
// # Key Types
//
//   - Cache: SQLite-backed cache of session summaries and drafts
//
// # Usage
//
// Open the cache and mirror the latest session list:
//
//	cache, err := storage.Open(path)
//	err = cache.SaveSummaries(sessions)
//
// Read it back offline:
//
//	sessions, err := cache.Summaries()
//
// Keep a draft across restarts:
//
//	err = cache.SaveDraft(sessionID, inputText)
//	text, ok, err := cache.Draft(sessionID)
//
// # Storage Location
//
// The database lives at ~/.haven/cache.db.
package storage
