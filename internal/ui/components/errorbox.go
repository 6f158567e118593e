// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the haven TUI.
package components

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BOX COMPONENT
// =============================================================================

// ErrorBox renders a backend or application error with a recovery hint.
type ErrorBox struct {
	Title       string
	Message     string
	Suggestions []string
	Width       int
	theme       *styles.Theme
}

// NewErrorBox creates an error box from any error, deriving the title and
// recovery suggestions from the error's classification.
func NewErrorBox(err error, theme *styles.Theme) *ErrorBox {
	box := &ErrorBox{
		Title:   "Error",
		Message: "Something went wrong.",
		Width:   80,
		theme:   theme,
	}
	if err == nil {
		return box
	}

	box.Message = err.Error()

	var clientErr *backend.ClientError
	if errors.As(err, &clientErr) {
		box.classify(clientErr)
	}

	return box
}

// classify maps a client error to a title and recovery suggestions.
func (b *ErrorBox) classify(err *backend.ClientError) {
	switch {
	case backend.IsUnreachable(err):
		b.Title = "Backend Unreachable"
		b.Suggestions = []string{
			"Check that the haven backend is running",
			"Verify the backend URL in ~/.haven/config.toml",
		}
	case backend.IsTimeout(err):
		b.Title = "Request Timed Out"
		b.Suggestions = []string{
			"The model may still be loading; try again",
			"Large attachments take longer to analyze",
		}
	case backend.IsNotFound(err):
		b.Title = "Not Found"
		b.Suggestions = []string{
			"The session or model may have been removed",
			"Refresh and try again",
		}
	default:
		b.Title = "Backend Error"
		b.Suggestions = []string{
			"Check the backend logs for details",
		}
	}
}

// SetWidth sets the box width.
func (b *ErrorBox) SetWidth(width int) {
	b.Width = width
}

// View renders the error box.
func (b *ErrorBox) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Rose).
		Bold(true)

	msgStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	var parts []string
	parts = append(parts, titleStyle.Render(styles.StatusIndicators.Error+" "+b.Title))
	parts = append(parts, msgStyle.Render(wordWrap(b.Message, b.contentWidth())))

	if len(b.Suggestions) > 0 {
		sugStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			PaddingLeft(2)
		var lines []string
		for _, s := range b.Suggestions {
			lines = append(lines, sugStyle.Render("- "+s))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	content := strings.Join(parts, "\n\n")

	boxWidth := b.Width - 8
	if boxWidth < 40 {
		boxWidth = 40
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Rose).
		Padding(1, 2).
		MaxWidth(boxWidth).
		Render(content)
}

func (b *ErrorBox) contentWidth() int {
	w := b.Width - 16
	if w < 30 {
		w = 30
	}
	return w
}

// RenderErrorLine renders a one-line error for the status bar.
func RenderErrorLine(err error) string {
	if err == nil {
		return ""
	}
	return styles.RenderError(err.Error())
}
