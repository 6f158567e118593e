// haven TUI - A terminal chat client for a local LLM backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/haven-tui/internal/ui/chat"
	"github.com/jeranaias/haven-tui/internal/ui/components"
)

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// appState selects the top level screen.
type appState int

const (
	stateWelcome appState = iota
	stateChat
)

// appModel is the root Bubble Tea model: a welcome screen that hands off to
// the chat interface. The chat model's background work (health probe,
// inventory and session refresh) starts immediately so the welcome screen
// can show live connection state.
type appModel struct {
	state   appState
	welcome components.Welcome
	chat    chat.Model

	width  int
	height int
}

// Init starts the chat model's background commands.
func (m appModel) Init() tea.Cmd {
	return m.chat.Init()
}

// Update routes messages. Async results always reach the chat model so no
// state is lost while the welcome screen is up; the welcome screen mirrors
// the interesting ones.
func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.welcome.SetSize(msg.Width, msg.Height)
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.state == stateWelcome {
			switch msg.String() {
			case "ctrl+c", "q", "esc":
				return m, tea.Quit
			case "enter":
				m.state = stateChat
				return m, nil
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case chat.HealthMsg:
		m.welcome.SetHealthy(msg.Healthy)

	case chat.SessionsRefreshedMsg:
		// fallthrough to chat; count mirrored below

	case chat.ModelsRefreshedMsg:
		// fallthrough to chat; model mirrored below
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	m.welcome.SetModelName(m.chat.ActiveModel())
	m.welcome.SetSessionCount(m.chat.SessionCount())
	return m, cmd
}

// View renders the active screen.
func (m appModel) View() string {
	if m.state == stateWelcome {
		return m.welcome.View()
	}
	return m.chat.View()
}
