// haven TUI - A terminal chat client for a local LLM backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/haven-tui/internal/attachment"
	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/inventory"
	"github.com/jeranaias/haven-tui/internal/session"
	"github.com/jeranaias/haven-tui/internal/ui/chat"
	"github.com/jeranaias/haven-tui/internal/ui/components"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

func newTestApp(t *testing.T) appModel {
	t.Helper()

	client := backend.NewClient()
	store := attachment.NewStore()
	previews, err := attachment.NewPreviewManager()
	require.NoError(t, err)
	t.Cleanup(func() { previews.Close() })

	theme := styles.NewThemeWithMode("dark")
	chatModel := chat.New(theme, chat.Deps{
		Client:    client,
		Sessions:  session.NewManager(client, session.DefaultConfig()),
		Inventory: inventory.New(client),
		Store:     store,
		Previews:  previews,
		Ingestor:  attachment.NewIngestor(store, previews),
		Clipboard: attachment.NewClipboard(),
		Picker:    attachment.NewPicker(),
		Drag:      &attachment.DragState{},
	})

	return appModel{
		state:   stateWelcome,
		welcome: components.NewWelcome(theme),
		chat:    chatModel,
	}
}

func TestAppStartsOnWelcome(t *testing.T) {
	app := newTestApp(t)

	require.Equal(t, stateWelcome, app.state)
	require.Contains(t, app.View(), "press")
}

func TestAppEnterOpensChat(t *testing.T) {
	app := newTestApp(t)

	next, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got, ok := next.(appModel)
	require.True(t, ok)
	require.Equal(t, stateChat, got.state)
}

func TestAppWindowSizeReachesBothScreens(t *testing.T) {
	app := newTestApp(t)

	next, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	got := next.(appModel)
	require.Equal(t, 100, got.width)

	// The chat screen is laid out even while the welcome screen is up.
	opened, _ := got.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view := opened.(appModel).View()
	require.NotEmpty(t, view)
}

func TestAppHealthMsgUpdatesWelcome(t *testing.T) {
	app := newTestApp(t)

	next, _ := app.Update(chat.HealthMsg{Healthy: false})
	got := next.(appModel)
	require.Contains(t, got.welcome.View(), "unreachable")
}
