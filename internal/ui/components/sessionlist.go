// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the haven TUI.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
	"github.com/jeranaias/haven-tui/internal/util"
)

// =============================================================================
// SESSION LIST COMPONENT
// =============================================================================

// SessionList renders the saved chat sessions for browsing and reopening.
type SessionList struct {
	sessions     []backend.SessionSummary
	selected     int
	current      string // session open in the chat view
	renaming     bool
	renameBuffer string
	width        int
	height       int
	theme        *styles.Theme
}

// NewSessionList creates an empty session list.
func NewSessionList(theme *styles.Theme) *SessionList {
	return &SessionList{
		width:  80,
		height: 24,
		theme:  theme,
	}
}

// SetSessions replaces the listed sessions, clamping the selection.
func (l *SessionList) SetSessions(sessions []backend.SessionSummary) {
	l.sessions = sessions
	if l.selected >= len(sessions) {
		l.selected = len(sessions) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// SetCurrent marks the session currently open in the chat view.
func (l *SessionList) SetCurrent(id string) {
	l.current = id
}

// SetSize updates the dimensions.
func (l *SessionList) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Len returns the number of listed sessions.
func (l *SessionList) Len() int {
	return len(l.sessions)
}

// Selected returns the highlighted session, if any.
func (l *SessionList) Selected() (backend.SessionSummary, bool) {
	if l.selected < 0 || l.selected >= len(l.sessions) {
		return backend.SessionSummary{}, false
	}
	return l.sessions[l.selected], true
}

// MoveUp moves the selection up.
func (l *SessionList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the selection down.
func (l *SessionList) MoveDown() {
	if l.selected < len(l.sessions)-1 {
		l.selected++
	}
}

// =============================================================================
// RENAME MODE
// =============================================================================

// StartRename enters inline rename mode seeded with the current title.
func (l *SessionList) StartRename() bool {
	s, ok := l.Selected()
	if !ok {
		return false
	}
	l.renaming = true
	l.renameBuffer = s.Title
	return true
}

// Renaming reports whether inline rename mode is active.
func (l *SessionList) Renaming() bool {
	return l.renaming
}

// RenameBuffer returns the in-progress title text.
func (l *SessionList) RenameBuffer() string {
	return l.renameBuffer
}

// TypeRune appends a rune to the rename buffer.
func (l *SessionList) TypeRune(r rune) {
	if l.renaming {
		l.renameBuffer += string(r)
	}
}

// Backspace removes the last rune from the rename buffer.
func (l *SessionList) Backspace() {
	if !l.renaming || l.renameBuffer == "" {
		return
	}
	runes := []rune(l.renameBuffer)
	l.renameBuffer = string(runes[:len(runes)-1])
}

// FinishRename exits rename mode and returns the edited title.
func (l *SessionList) FinishRename() string {
	l.renaming = false
	title := strings.TrimSpace(l.renameBuffer)
	l.renameBuffer = ""
	return title
}

// CancelRename exits rename mode discarding edits.
func (l *SessionList) CancelRename() {
	l.renaming = false
	l.renameBuffer = ""
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the session list.
func (l *SessionList) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Chat History"))
	b.WriteString("\n\n")

	if len(l.sessions) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
		b.WriteString(emptyStyle.Render("No saved chats yet."))
	}

	for i, s := range l.sessions {
		b.WriteString(l.renderItem(s, i == l.selected))
		b.WriteString("\n")
	}

	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	b.WriteString("\n")
	if l.renaming {
		b.WriteString(hintStyle.Render("enter save title  esc cancel"))
	} else {
		b.WriteString(hintStyle.Render("enter open  n new  F2 rename  d delete  esc close"))
	}

	return l.theme.SessionList.Width(l.boxWidth()).Render(b.String())
}

// renderItem renders one session row.
func (l *SessionList) renderItem(s backend.SessionSummary, selected bool) string {
	itemStyle := l.theme.SessionItem
	if selected {
		itemStyle = l.theme.SessionItemSelected
	}

	title := s.Title
	if title == "" {
		title = "New Chat"
	}

	if selected && l.renaming {
		editStyle := lipgloss.NewStyle().
			Background(styles.SelectionBg).
			Foreground(styles.TextPrimary).
			Padding(0, 1)
		cursor := lipgloss.NewStyle().Foreground(styles.Purple).Blink(true).Render("_")
		return editStyle.Render(l.renameBuffer) + cursor
	}

	marker := "  "
	if s.ID == l.current {
		marker = styles.StatusIndicators.Active + " "
	}

	meta := util.IntToString(s.MessageCount) + " msgs, " + relativeTime(s.UpdatedAt)

	line := marker +
		util.PadRight(util.TruncateRunes(title, 38), 40) +
		l.theme.SessionMeta.Render(meta)

	return itemStyle.Render(line)
}

func (l *SessionList) boxWidth() int {
	w := l.width - 8
	if w < 50 {
		w = 50
	}
	if w > 90 {
		w = 90
	}
	return w
}

// relativeTime formats a timestamp as a short "ago" string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return util.IntToString(int(d.Minutes())) + "m ago"
	case d < 24*time.Hour:
		return util.IntToString(int(d.Hours())) + "h ago"
	default:
		return util.IntToString(int(d.Hours()/24)) + "d ago"
	}
}
