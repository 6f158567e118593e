// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

// =============================================================================
// MEMORY EDITOR TESTS
// =============================================================================

func editorWithEntries() *MemoryEditor {
	e := NewMemoryEditor(styles.NewThemeWithMode("dark"))
	e.SetEntries([]backend.MemoryEntry{
		{Key: "name", Value: "Sam", Importance: 8},
		{Key: "diet", Value: "vegetarian", Importance: 5},
	})
	return e
}

func TestMemoryEditorLoadClearsDirty(t *testing.T) {
	e := editorWithEntries()
	if e.Dirty() {
		t.Error("freshly loaded entries should not be dirty")
	}
	if len(e.Entries()) != 2 {
		t.Errorf("Entries() = %d, want 2", len(e.Entries()))
	}
}

func TestMemoryEditorAddEntry(t *testing.T) {
	e := editorWithEntries()

	e.StartAdd()
	if !e.Editing() {
		t.Fatal("StartAdd should enter edit mode")
	}

	e.input.SetValue("hobby")
	e.Confirm() // key -> value
	if !e.Editing() {
		t.Fatal("confirming the key should continue to value entry")
	}

	e.input.SetValue("climbing")
	e.Confirm()

	if e.Editing() {
		t.Error("confirming the value should leave edit mode")
	}
	if !e.Dirty() {
		t.Error("adding an entry should mark the set dirty")
	}

	entries := e.Entries()
	last := entries[len(entries)-1]
	if last.Key != "hobby" || last.Value != "climbing" {
		t.Errorf("added entry = %+v", last)
	}
	if last.Importance != 5 {
		t.Errorf("Importance = %d, new entries default to 5", last.Importance)
	}
}

func TestMemoryEditorUpsertByKey(t *testing.T) {
	e := editorWithEntries()

	e.StartAdd()
	e.input.SetValue("diet")
	e.Confirm()
	e.input.SetValue("vegan")
	e.Confirm()

	entries := e.Entries()
	if len(entries) != 2 {
		t.Fatalf("len = %d, re-adding an existing key should overwrite", len(entries))
	}
	if entries[1].Value != "vegan" {
		t.Errorf("value = %q, want vegan", entries[1].Value)
	}
}

func TestMemoryEditorDelete(t *testing.T) {
	e := editorWithEntries()

	e.Delete()
	if len(e.Entries()) != 1 {
		t.Fatalf("len = %d after delete, want 1", len(e.Entries()))
	}
	if !e.Dirty() {
		t.Error("delete should mark the set dirty")
	}
	if e.Entries()[0].Key != "diet" {
		t.Errorf("remaining key = %q, want diet", e.Entries()[0].Key)
	}
}

func TestMemoryEditorCancelDiscards(t *testing.T) {
	e := editorWithEntries()

	e.StartAdd()
	e.input.SetValue("junk")
	e.Cancel()

	if e.Editing() {
		t.Error("Cancel should leave edit mode")
	}
	if e.Dirty() {
		t.Error("a cancelled add should not dirty the set")
	}
	if len(e.Entries()) != 2 {
		t.Errorf("len = %d, cancelled add should not commit", len(e.Entries()))
	}
}

func TestMemoryEditorEmptyKeyRejected(t *testing.T) {
	e := editorWithEntries()

	e.StartAdd()
	e.input.SetValue("   ")
	e.Confirm()

	if !e.Editing() {
		t.Error("blank key should stay in key entry")
	}
}

func TestMemoryEditorViewShowsDirtyMarker(t *testing.T) {
	e := editorWithEntries()
	e.SetWidth(100)

	if strings.Contains(e.View(), "(unsaved)") {
		t.Error("clean set should not show the unsaved marker")
	}

	e.Delete()
	if !strings.Contains(e.View(), "(unsaved)") {
		t.Error("dirty set should show the unsaved marker")
	}

	e.MarkSaved()
	if strings.Contains(e.View(), "(unsaved)") {
		t.Error("MarkSaved should clear the marker")
	}
}
