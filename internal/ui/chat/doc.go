// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main conversation screen of the haven TUI.
//
// The chat model owns the active conversation and drives the backend
// services: sending messages, session history, the model inventory, the
// persisted memory set, and the file attachment pipeline (paste, picker,
// and drag-and-drop drop directory). All backend work runs as Bubble Tea
// commands that report back with the typed messages in messages.go.
//
// Layout: a scrolling viewport with the message history, the attachment
// tray when files are staged, a single input line, and a status bar.
// The model picker, session history, settings/memory editor, help, and
// error dialogs render as modal overlays.
package chat
