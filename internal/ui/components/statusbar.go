// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the haven TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/haven-tui/internal/ui/styles"
	"github.com/jeranaias/haven-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusSending
	StatusLoading
	StatusError
	StatusOffline
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusSending:
		return "Sending..."
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	case StatusOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status.
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusSending, StatusLoading:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusOffline:
		return styles.StatusIndicators.Warning
	default:
		return "?"
	}
}

// StatusBar is the bottom status bar: backend health, active model,
// session state, and keyboard hints.
type StatusBar struct {
	ModelName       string
	SessionTitle    string
	AttachmentCount int
	Dirty           bool // unsaved conversation changes
	BackendHealthy  bool
	Status          Status
	Width           int
	ShowShortcuts   bool
	Notice          string // transient message, e.g. ingest summary
	theme           *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:         StatusReady,
		Width:          80,
		ShowShortcuts:  true,
		BackendHealthy: true,
		theme:          theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus updates the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetModel updates the model name display.
func (s *StatusBar) SetModel(name string) {
	s.ModelName = name
}

// SetSession updates the session title display.
func (s *StatusBar) SetSession(title string) {
	s.SessionTitle = title
}

// SetBackendHealthy updates the backend reachability indicator.
func (s *StatusBar) SetBackendHealthy(healthy bool) {
	s.BackendHealthy = healthy
	if !healthy {
		s.Status = StatusOffline
	}
}

// SetNotice sets a transient notice shown in place of shortcuts.
func (s *StatusBar) SetNotice(notice string) {
	s.Notice = notice
}

// ClearNotice removes the transient notice.
func (s *StatusBar) ClearNotice() {
	s.Notice = ""
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var left []string

	// Backend health indicator
	if s.BackendHealthy {
		left = append(left, s.theme.StatusHealthy.Render("(+)"))
	} else {
		left = append(left, s.theme.StatusOffline.Render("(-)"))
	}

	// Status with icon
	statusStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	if s.Status == StatusError || s.Status == StatusOffline {
		statusStyle = lipgloss.NewStyle().Foreground(styles.Rose)
	}
	left = append(left, statusStyle.Render(s.Status.Icon()+" "+s.Status.String()))

	// Model
	if s.ModelName != "" {
		modelStyle := lipgloss.NewStyle().Foreground(styles.Purple).Bold(true)
		left = append(left, modelStyle.Render(util.TruncateRunes(s.ModelName, 24)))
	}

	// Session title with dirty marker
	if s.SessionTitle != "" {
		title := util.TruncateRunes(s.SessionTitle, 28)
		if s.Dirty {
			title += "*"
		}
		titleStyle := lipgloss.NewStyle().Foreground(styles.Cyan)
		left = append(left, titleStyle.Render(title))
	}

	// Attachment count
	if s.AttachmentCount > 0 {
		attStyle := lipgloss.NewStyle().Foreground(styles.AttachmentChipFg)
		left = append(left, attStyle.Render("[f]"+util.IntToString(s.AttachmentCount)))
	}

	leftSide := strings.Join(left, "  ")

	// Right side: transient notice or keyboard hints
	var rightSide string
	if s.Notice != "" {
		rightSide = s.Notice
	} else if s.ShowShortcuts {
		rightSide = s.renderShortcuts()
	}

	// Fill the gap between the two sides
	gap := s.Width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide) - 2
	if gap < 1 {
		gap = 1
	}

	bar := leftSide + strings.Repeat(" ", gap) + rightSide
	return s.theme.StatusBar.Width(s.Width).Render(bar)
}

// renderShortcuts renders the keyboard hint cluster.
func (s *StatusBar) renderShortcuts() string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"^P", "models"},
		{"^H", "history"},
		{"^O", "attach"},
		{"^S", "settings"},
		{"^C", "quit"},
	}

	var parts []string
	for _, sc := range shortcuts {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.key)+s.theme.ShortcutDesc.Render(" "+sc.desc))
	}
	return strings.Join(parts, "  ")
}
