// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the haven TUI.
package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// Markdown renders assistant replies as terminal markdown. Renderers are
// cached per wrap width since glamour construction is expensive.
type Markdown struct {
	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown creates a markdown renderer cache.
func NewMarkdown() *Markdown {
	return &Markdown{
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render renders markdown text wrapped to the given width. On renderer
// failure the raw text is returned so a reply is never lost to styling.
func (m *Markdown) Render(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if width < 20 {
		width = 20
	}

	r, err := m.rendererFor(width)
	if err != nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}

	// Glamour pads with leading/trailing blank lines; bubbles supply
	// their own spacing.
	return strings.Trim(out, "\n")
}

func (m *Markdown) rendererFor(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.renderers[width]; ok {
		return r, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	m.renderers[width] = r
	return r, nil
}
