// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file renders the chat interface: conversation viewport, attachment
// tray, input line, status bar, and the modal overlays.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/haven-tui/internal/ui/components"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

// =============================================================================
// MAIN VIEW
// =============================================================================

// View renders the chat interface.
func (m Model) View() string {
	if !m.ready {
		return "Starting haven..."
	}

	if overlay := m.renderOverlay(); overlay != "" {
		return overlay
	}

	var b strings.Builder

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.drag != nil && m.drag.Hovering() {
		b.WriteString(components.RenderDropOverlay(m.theme, m.width))
		b.WriteString("\n")
	} else if m.store.Len() > 0 {
		b.WriteString(m.tray.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderInputLine())
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())

	return b.String()
}

// renderInputLine renders the prompt and either the input field or the
// waiting spinner.
func (m Model) renderInputLine() string {
	if m.state == StateSending {
		return m.theme.InputContainer.Width(m.width - 2).Render(m.spinner.View())
	}

	prompt := m.theme.InputPrompt.Render("> ")
	return m.theme.InputContainer.Width(m.width - 2).Render(prompt + m.input.View())
}

// =============================================================================
// OVERLAYS
// =============================================================================

// renderOverlay renders the active modal surface centered over the screen,
// or "" when none is open.
func (m Model) renderOverlay() string {
	var content string

	switch m.overlay {
	case OverlayModels:
		content = m.modelPicker.View()
	case OverlayHistory:
		content = m.sessionList.View()
	case OverlaySettings:
		content = m.memory.View()
	case OverlayError:
		if m.errorBox != nil {
			content = m.errorBox.View()
		}
	case OverlayHelp:
		content = m.renderHelp()
	default:
		return ""
	}

	if content == "" {
		return ""
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderHelp renders the full key binding reference.
func (m Model) renderHelp() string {
	titleStyle := lipgloss.NewStyle().Foreground(styles.Purple).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	sectionStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Bold(true)

	sections := []string{"Navigation", "Composing", "Screens", "App"}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard Reference"))
	b.WriteString("\n")

	for i, group := range m.keys.FullHelp() {
		b.WriteString("\n")
		if i < len(sections) {
			b.WriteString(sectionStyle.Render(sections[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(padKey(h.Key)))
			b.WriteString(" ")
			b.WriteString(descStyle.Render(h.Desc))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Commands"))
	b.WriteString("\n")
	for _, c := range []struct{ cmd, desc string }{
		{"/new", "start a fresh chat"},
		{"/clear", "clear this chat's history"},
		{"/model <name>", "switch model"},
		{"/attach <path>", "attach files by path"},
		{"/detach", "remove all attachments"},
		{"/memory", "edit remembered facts"},
		{"/quit", "exit"},
	} {
		b.WriteString("  ")
		b.WriteString(keyStyle.Render(padKey(c.cmd)))
		b.WriteString(" ")
		b.WriteString(descStyle.Render(c.desc))
		b.WriteString("\n")
	}

	hint := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("press any key to close")
	b.WriteString("\n" + hint)

	return m.theme.SettingsBox.Render(b.String())
}

// padKey pads a key label so descriptions line up.
func padKey(s string) string {
	const width = 15
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
