// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the haven TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/inventory"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
	"github.com/jeranaias/haven-tui/internal/util"
)

// =============================================================================
// MODEL PICKER COMPONENT
// =============================================================================

// ModelPicker renders the model inventory: installed models first, then
// models available for download, with the backend host's hardware below.
type ModelPicker struct {
	inv      *inventory.Inventory
	items    []backend.ModelInfo
	selected int
	active   string            // model currently used for chat
	progress map[string]string // model name -> download progress text
	width    int
	height   int
	theme    *styles.Theme
}

// NewModelPicker creates a picker over the given inventory.
func NewModelPicker(inv *inventory.Inventory, theme *styles.Theme) *ModelPicker {
	return &ModelPicker{
		inv:      inv,
		progress: make(map[string]string),
		width:    80,
		height:   24,
		theme:    theme,
	}
}

// Reload rebuilds the item list from the inventory, preserving the
// selection where possible.
func (p *ModelPicker) Reload() {
	var keep string
	if p.selected >= 0 && p.selected < len(p.items) {
		keep = p.items[p.selected].Name
	}

	p.items = p.items[:0]
	p.items = append(p.items, p.inv.Installed()...)
	p.items = append(p.items, p.inv.Available()...)

	p.selected = 0
	for i, it := range p.items {
		if it.Name == keep {
			p.selected = i
			break
		}
	}
}

// SetActive marks the model currently in use for chat.
func (p *ModelPicker) SetActive(name string) {
	p.active = name
}

// SetProgress records the download progress text for a pending model.
func (p *ModelPicker) SetProgress(name, progress string) {
	p.progress[name] = progress
}

// ClearProgress removes tracked progress for a model.
func (p *ModelPicker) ClearProgress(name string) {
	delete(p.progress, name)
}

// SetSize updates the dimensions.
func (p *ModelPicker) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Len returns the number of listed models.
func (p *ModelPicker) Len() int {
	return len(p.items)
}

// Selected returns the highlighted model, if any.
func (p *ModelPicker) Selected() (backend.ModelInfo, bool) {
	if p.selected < 0 || p.selected >= len(p.items) {
		return backend.ModelInfo{}, false
	}
	return p.items[p.selected], true
}

// MoveUp moves the selection up.
func (p *ModelPicker) MoveUp() {
	if p.selected > 0 {
		p.selected--
	}
}

// MoveDown moves the selection down.
func (p *ModelPicker) MoveDown() {
	if p.selected < len(p.items)-1 {
		p.selected++
	}
}

// View renders the picker.
func (p *ModelPicker) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Models"))
	b.WriteString("\n\n")

	if len(p.items) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
		b.WriteString(emptyStyle.Render("No models reported by the backend."))
	}

	installedCount := len(p.inv.Installed())
	sectionStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true)

	for i, it := range p.items {
		if i == 0 && installedCount > 0 {
			b.WriteString(sectionStyle.Render("Installed"))
			b.WriteString("\n")
		}
		if i == installedCount && i < len(p.items) {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(sectionStyle.Render("Available"))
			b.WriteString("\n")
		}

		b.WriteString(p.renderItem(it, i == p.selected))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.renderSystemInfo())

	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter use/download  d delete  r refresh  esc close"))

	return p.theme.PickerBox.Width(p.boxWidth()).Render(b.String())
}

// renderItem renders one model row with its status and description.
func (p *ModelPicker) renderItem(it backend.ModelInfo, selected bool) string {
	itemStyle := p.theme.PickerItem
	if selected {
		itemStyle = p.theme.PickerItemSelected
	}

	pending := p.inv.IsPending(it.Name)
	label := inventory.StatusLabel(it, pending)

	var statusStyle lipgloss.Style
	switch {
	case pending:
		statusStyle = p.theme.PickerDownloading
	case it.Installed:
		statusStyle = p.theme.PickerInstalled
	default:
		statusStyle = p.theme.PickerModelMeta
	}

	name := it.Name
	if name == p.active {
		name += " " + styles.StatusIndicators.Active
	}

	line := p.theme.PickerModelName.Render(util.PadRight(util.TruncateRunes(name, 28), 30)) +
		statusStyle.Render(util.PadRight(label, 14)) +
		p.theme.PickerModelMeta.Render(inventory.StrengthsLine(it))

	rendered := itemStyle.Render(line)

	if pending {
		if prog, ok := p.progress[it.Name]; ok && prog != "" {
			progStyle := lipgloss.NewStyle().
				Foreground(styles.Amber).
				PaddingLeft(3)
			rendered += "\n" + progStyle.Render(prog)
		}
	}

	return rendered
}

// renderSystemInfo renders the backend host hardware line.
func (p *ModelPicker) renderSystemInfo() string {
	sys := p.inv.System()
	if sys.CPUCount == 0 && sys.MemoryGB == 0 {
		return ""
	}

	infoStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	parts := []string{
		util.IntToString(sys.CPUCount) + " CPUs",
		util.FloatToStringPrec(sys.MemoryGB, 1) + " GB RAM",
	}
	if sys.Platform != "" {
		parts = append(parts, sys.Platform+"/"+sys.Architecture)
	}
	return infoStyle.Render("Host: " + strings.Join(parts, ", "))
}

func (p *ModelPicker) boxWidth() int {
	w := p.width - 8
	if w < 50 {
		w = 50
	}
	if w > 100 {
		w = 100
	}
	return w
}
