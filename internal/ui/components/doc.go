// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the haven TUI.

This package contains a collection of styled components built on top of the
Bubble Tea and Lip Gloss libraries. Components take a *styles.Theme and
render to strings; interactive state (selection, focus, text entry) lives on
the component, while backend calls stay in the chat model.

# Display Components

MessageBubble and MessageList (message.go) - Chat messages with Markdown
rendering for assistant replies and attachment chips on user messages.
CodeBlock (codeblock.go) - Syntax-highlighted text previews using Chroma.
StatusBar (statusbar.go) - Bottom bar with backend health, model, session,
and keyboard hints.
Welcome (welcome.go) - Start screen with the connection summary.
ErrorBox (errorbox.go) - Classified backend errors with recovery hints.

# Interactive Components

AttachmentTray (attachments.go) - Staged files with preview states.
ModelPicker (modelpicker.go) - Installed and downloadable model inventory.
SessionList (sessionlist.go) - Saved chats with inline rename.
MemoryEditor (memoryeditor.go) - Persisted memory facts, saved wholesale.

# Feedback

Spinner (spinner.go) - Animated wait indicator with an elapsed timer.
*/
package components
