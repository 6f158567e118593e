// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the haven TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jeranaias/haven-tui/internal/attachment"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
	"github.com/jeranaias/haven-tui/internal/util"
)

// =============================================================================
// ATTACHMENT TRAY COMPONENT
// =============================================================================

// AttachmentTray renders the attachments staged in the compose area.
// Selection moves with the keyboard so individual files can be removed
// before sending.
type AttachmentTray struct {
	items    []attachment.Attachment
	previews *attachment.PreviewManager
	selected int
	focused  bool
	width    int
	theme    *styles.Theme
}

// NewAttachmentTray creates an empty tray.
func NewAttachmentTray(theme *styles.Theme, previews *attachment.PreviewManager) *AttachmentTray {
	return &AttachmentTray{
		width:    80,
		previews: previews,
		theme:    theme,
	}
}

// SetItems replaces the displayed attachments, clamping the selection.
func (t *AttachmentTray) SetItems(items []attachment.Attachment) {
	t.items = items
	if t.selected >= len(items) {
		t.selected = len(items) - 1
	}
	if t.selected < 0 {
		t.selected = 0
	}
}

// SetWidth sets the tray width.
func (t *AttachmentTray) SetWidth(width int) {
	t.width = width
}

// SetFocused toggles keyboard focus for the tray.
func (t *AttachmentTray) SetFocused(focused bool) {
	t.focused = focused
}

// Focused reports whether the tray has keyboard focus.
func (t *AttachmentTray) Focused() bool {
	return t.focused
}

// Len returns the number of staged attachments.
func (t *AttachmentTray) Len() int {
	return len(t.items)
}

// Selected returns the index of the highlighted attachment.
func (t *AttachmentTray) Selected() int {
	return t.selected
}

// Next moves the selection right, wrapping at the end.
func (t *AttachmentTray) Next() {
	if len(t.items) == 0 {
		return
	}
	t.selected = (t.selected + 1) % len(t.items)
}

// Prev moves the selection left, wrapping at the start.
func (t *AttachmentTray) Prev() {
	if len(t.items) == 0 {
		return
	}
	t.selected = (t.selected - 1 + len(t.items)) % len(t.items)
}

// View renders the tray. An empty tray renders nothing.
func (t *AttachmentTray) View() string {
	if len(t.items) == 0 {
		return ""
	}

	chipStyle := lipgloss.NewStyle().
		Foreground(styles.AttachmentChipFg).
		Background(styles.AttachmentChipBg).
		Padding(0, 1).
		MarginRight(1)

	selectedStyle := chipStyle.
		Background(styles.SelectionBg).
		Bold(true)

	var chips []string
	for i, a := range t.items {
		marker := "[f]"
		if a.IsImage() {
			marker = "[img]"
		}

		label := marker + " " + util.TruncateRunes(a.Name, 24) + " " + humanize.IBytes(uint64(a.Size))
		if note := t.previewNote(a.Name); note != "" {
			label += " " + note
		}

		style := chipStyle
		if t.focused && i == t.selected {
			style = selectedStyle
		}
		chips = append(chips, style.Render(label))
	}

	countStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	header := countStyle.Render(util.IntToString(len(t.items)) + " attached")

	hint := ""
	if t.focused {
		hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
		hint = "  " + hintStyle.Render("left/right select, x remove, esc back")
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, chips...)
	return header + hint + "\n" + row
}

// previewNote annotates a chip when its preview is not usable.
func (t *AttachmentTray) previewNote(name string) string {
	if t.previews == nil {
		return ""
	}
	h, ok := t.previews.Get(name)
	if !ok {
		return ""
	}
	switch h.State() {
	case attachment.HandleFailed:
		return t.theme.AttachmentError.Render("(preview failed)")
	case attachment.HandleLoading:
		return "(preparing)"
	default:
		return ""
	}
}

// =============================================================================
// DROP OVERLAY
// =============================================================================

// RenderDropOverlay renders the full-width banner shown while a drag hovers
// over the drop directory.
func RenderDropOverlay(theme *styles.Theme, width int) string {
	if width < 20 {
		width = 20
	}

	msg := "Drop files to attach"
	overlay := theme.DropOverlay.Width(width - 4).Render(msg)

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(overlay)
}

// =============================================================================
// INGEST SUMMARY
// =============================================================================

// RenderIngestSummary formats the outcome of one ingestion batch for the
// status line. Clean batches read green, partial failures amber, total
// rejections red.
func RenderIngestSummary(res attachment.Result) string {
	if res.Empty() {
		return ""
	}

	accepted := len(res.Accepted)
	if res.Ok() {
		noun := "files"
		if accepted == 1 {
			noun = "file"
		}
		return styles.RenderSuccess("Attached " + util.IntToString(accepted) + " " + noun)
	}

	summary := res.Summary()
	if accepted > 0 {
		return styles.RenderWarning(util.IntToString(accepted) + " attached; " + summary)
	}
	return styles.RenderError(summary)
}

// RenderRejections lists per-file rejection reasons, one line each.
func RenderRejections(rejected []attachment.Rejection) string {
	if len(rejected) == 0 {
		return ""
	}

	lineStyle := lipgloss.NewStyle().Foreground(styles.Rose)

	var lines []string
	for _, rej := range rejected {
		lines = append(lines, lineStyle.Render(rej.Describe()))
	}
	return strings.Join(lines, "\n")
}
