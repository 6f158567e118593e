// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the haven TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
	"github.com/jeranaias/haven-tui/internal/util"
)

// =============================================================================
// MEMORY EDITOR COMPONENT
// =============================================================================

// editorMode tracks what the memory editor is doing.
type editorMode int

const (
	modeBrowse editorMode = iota
	modeEditKey
	modeEditValue
)

// MemoryEditor renders the persisted memory facts in the settings dialog
// and lets the user add, edit, and delete entries. Edits accumulate locally
// and the whole set is saved back in one operation.
type MemoryEditor struct {
	entries    []backend.MemoryEntry
	selected   int
	mode       editorMode
	input      textinput.Model
	pendingKey string // key typed while adding/editing, held until value entry
	dirty      bool
	width      int
	theme      *styles.Theme
}

// NewMemoryEditor creates an empty memory editor.
func NewMemoryEditor(theme *styles.Theme) *MemoryEditor {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 50

	return &MemoryEditor{
		input: ti,
		width: 80,
		theme: theme,
	}
}

// SetEntries replaces the entries, typically after loading from the backend.
// Loading resets the dirty flag.
func (e *MemoryEditor) SetEntries(entries []backend.MemoryEntry) {
	e.entries = entries
	e.dirty = false
	if e.selected >= len(entries) {
		e.selected = len(entries) - 1
	}
	if e.selected < 0 {
		e.selected = 0
	}
}

// Entries returns the current entry set for wholesale saving.
func (e *MemoryEditor) Entries() []backend.MemoryEntry {
	out := make([]backend.MemoryEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Dirty reports whether edits exist that have not been saved.
func (e *MemoryEditor) Dirty() bool {
	return e.dirty
}

// MarkSaved clears the dirty flag after a successful save.
func (e *MemoryEditor) MarkSaved() {
	e.dirty = false
}

// Editing reports whether a text field is capturing keystrokes.
func (e *MemoryEditor) Editing() bool {
	return e.mode != modeBrowse
}

// SetWidth sets the editor width.
func (e *MemoryEditor) SetWidth(width int) {
	e.width = width
}

// MoveUp moves the selection up.
func (e *MemoryEditor) MoveUp() {
	if e.mode == modeBrowse && e.selected > 0 {
		e.selected--
	}
}

// MoveDown moves the selection down.
func (e *MemoryEditor) MoveDown() {
	if e.mode == modeBrowse && e.selected < len(e.entries)-1 {
		e.selected++
	}
}

// =============================================================================
// EDITING OPERATIONS
// =============================================================================

// StartAdd begins entry of a new memory fact, key first.
func (e *MemoryEditor) StartAdd() tea.Cmd {
	e.mode = modeEditKey
	e.pendingKey = ""
	e.input.SetValue("")
	e.input.Placeholder = "key (e.g. name, preference)"
	return e.input.Focus()
}

// StartEdit begins editing the selected entry's value.
func (e *MemoryEditor) StartEdit() tea.Cmd {
	if e.selected < 0 || e.selected >= len(e.entries) {
		return nil
	}
	entry := e.entries[e.selected]
	e.mode = modeEditValue
	e.pendingKey = entry.Key
	e.input.SetValue(entry.Value)
	e.input.Placeholder = "value"
	return e.input.Focus()
}

// Delete removes the selected entry.
func (e *MemoryEditor) Delete() {
	if e.selected < 0 || e.selected >= len(e.entries) {
		return
	}
	e.entries = append(e.entries[:e.selected], e.entries[e.selected+1:]...)
	if e.selected >= len(e.entries) && e.selected > 0 {
		e.selected--
	}
	e.dirty = true
}

// Confirm accepts the current text field. During key entry it advances to
// value entry; during value entry it commits the entry.
func (e *MemoryEditor) Confirm() tea.Cmd {
	switch e.mode {
	case modeEditKey:
		key := strings.TrimSpace(e.input.Value())
		if key == "" {
			return nil
		}
		e.pendingKey = key
		e.mode = modeEditValue
		e.input.SetValue("")
		e.input.Placeholder = "value"
		return e.input.Focus()

	case modeEditValue:
		value := strings.TrimSpace(e.input.Value())
		if value == "" {
			return nil
		}
		e.commit(e.pendingKey, value)
		e.cancelInput()
	}
	return nil
}

// Cancel aborts the current text entry.
func (e *MemoryEditor) Cancel() {
	e.cancelInput()
}

func (e *MemoryEditor) cancelInput() {
	e.mode = modeBrowse
	e.pendingKey = ""
	e.input.Blur()
	e.input.SetValue("")
}

// commit upserts an entry by key.
func (e *MemoryEditor) commit(key, value string) {
	for i := range e.entries {
		if e.entries[i].Key == key {
			e.entries[i].Value = value
			e.selected = i
			e.dirty = true
			return
		}
	}
	e.entries = append(e.entries, backend.MemoryEntry{Key: key, Value: value, Importance: 5})
	e.selected = len(e.entries) - 1
	e.dirty = true
}

// Update forwards messages to the active text input.
func (e *MemoryEditor) Update(msg tea.Msg) tea.Cmd {
	if e.mode == modeBrowse {
		return nil
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the memory editor.
func (e *MemoryEditor) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Memory"))
	if e.dirty {
		b.WriteString(" " + lipgloss.NewStyle().Foreground(styles.Amber).Render("(unsaved)"))
	}
	b.WriteString("\n\n")

	if len(e.entries) == 0 && e.mode == modeBrowse {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
		b.WriteString(emptyStyle.Render("Nothing remembered yet. Press a to add a fact."))
		b.WriteString("\n")
	}

	for i, entry := range e.entries {
		b.WriteString(e.renderEntry(entry, i == e.selected))
		b.WriteString("\n")
	}

	if e.mode != modeBrowse {
		label := "Value"
		if e.mode == modeEditKey {
			label = "Key"
		}
		labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true)
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(label+": ") + e.input.View())
		b.WriteString("\n")
	}

	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	b.WriteString("\n")
	if e.mode == modeBrowse {
		b.WriteString(hintStyle.Render("a add  e edit  d delete  s save  esc close"))
	} else {
		b.WriteString(hintStyle.Render("enter confirm  esc cancel"))
	}

	return e.theme.SettingsBox.Width(e.boxWidth()).Render(b.String())
}

// renderEntry renders one memory fact row.
func (e *MemoryEditor) renderEntry(entry backend.MemoryEntry, selected bool) string {
	style := e.theme.MemoryEntry
	if selected && e.mode == modeBrowse {
		style = e.theme.MemoryEntryEdit
	}

	key := util.PadRight(util.TruncateRunes(entry.Key, 18), 20)
	value := util.TruncateRunes(entry.Value, 48)

	keyStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	return style.Render(keyStyle.Render(key) + value)
}

func (e *MemoryEditor) boxWidth() int {
	w := e.width - 8
	if w < 50 {
		w = 50
	}
	if w > 90 {
		w = 90
	}
	return w
}
