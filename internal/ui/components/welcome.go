// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the haven TUI.
package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN MODEL
// =============================================================================

// Welcome is the welcome screen component.
type Welcome struct {
	version      string
	modelName    string
	backendURL   string
	sessionCount int
	healthy      bool

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		healthy: true,
		theme:   theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetModelName sets the active model name.
func (w *Welcome) SetModelName(name string) {
	w.modelName = name
}

// SetBackendURL sets the backend address display.
func (w *Welcome) SetBackendURL(url string) {
	w.backendURL = url
}

// SetSessionCount sets the saved session count display.
func (w *Welcome) SetSessionCount(n int) {
	w.sessionCount = n
}

// SetHealthy sets the backend reachability display.
func (w *Welcome) SetHealthy(healthy bool) {
	w.healthy = healthy
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

// View renders the welcome screen.
// Responsive: adapts to terminal size, minimum 80x24 supported.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	boxWidth := 56
	if width < 64 {
		boxWidth = width - 8
	}
	if boxWidth < 40 {
		boxWidth = 40
	}

	content := w.renderLogo()
	content += "\n\n" + w.renderVersion()
	content += "\n\n" + w.renderSystemInfo()
	content += "\n\n" + w.renderPressKey()

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Purple).
		Padding(1, 4).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// renderLogo renders the application wordmark.
func (w Welcome) renderLogo() string {
	logo := "" +
		" _                          \n" +
		"| |__   __ ___   _____ _ __ \n" +
		"| '_ \\ / _` \\ \\ / / _ \\ '_ \\\n" +
		"| | | | (_| |\\ V /  __/ | | |\n" +
		"|_| |_|\\__,_| \\_/ \\___|_| |_|"

	return lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Render(logo)
}

// renderVersion renders the version line.
func (w Welcome) renderVersion() string {
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("local chat " + w.version)
}

// renderSystemInfo renders the connection summary.
func (w Welcome) renderSystemInfo() string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)

	backend := w.backendURL
	if backend == "" {
		backend = "not configured"
	}

	health := styles.RenderSuccess("connected")
	if !w.healthy {
		health = styles.RenderError("unreachable")
	}

	model := w.modelName
	if model == "" {
		model = "none selected"
	}

	lines := []string{
		labelStyle.Render("Backend  ") + valueStyle.Render(backend) + " " + health,
		labelStyle.Render("Model    ") + valueStyle.Render(model),
		labelStyle.Render("Chats    ") + valueStyle.Render(fmtNumber(w.sessionCount)+" saved"),
	}

	return lines[0] + "\n" + lines[1] + "\n" + lines[2]
}

// renderPressKey renders the call to action.
func (w Welcome) renderPressKey() string {
	key := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Render("enter")

	return lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("press " + key + " to start chatting")
}
