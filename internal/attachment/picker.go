// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// FILE PICKER SOURCE
// =============================================================================

// Picker is the explicit-selection ingestion source: the user types or
// completes one or more paths and the picker resolves them to FileRefs.
//
// The selection buffer is always reset after a read, so selecting the same
// file set twice still triggers a second ingestion event.
type Picker struct {
	selection []string
}

// NewPicker creates an empty picker.
func NewPicker() *Picker {
	return &Picker{}
}

// Select parses a user-typed selection into the buffer. Paths are separated
// by whitespace; quoting is not supported. "~" expands to the home
// directory.
func (p *Picker) Select(input string) {
	for _, field := range strings.Fields(input) {
		p.selection = append(p.selection, expandHome(field))
	}
}

// SelectPaths places explicit paths into the buffer.
func (p *Picker) SelectPaths(paths []string) {
	p.selection = append(p.selection, paths...)
}

// Pending returns how many paths are waiting to be taken.
func (p *Picker) Pending() int {
	return len(p.selection)
}

// Take resolves the buffered selection to FileRefs and resets the buffer.
// The reset happens unconditionally, even when every path fails to resolve,
// so a repeated identical selection produces a fresh ingestion event.
func (p *Picker) Take() ([]FileRef, []error) {
	selection := p.selection
	p.selection = nil

	var refs []FileRef
	var errs []error
	for _, path := range selection {
		ref, err := FileRefFromPath(path)
		if err != nil {
			errs = append(errs, &IngestError{
				Reason:  ReasonExtractionFailed,
				Name:    filepath.Base(path),
				Message: "could not read selected file",
				Cause:   err,
			})
			continue
		}
		refs = append(refs, ref)
	}
	return refs, errs
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
