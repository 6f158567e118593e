// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// PICKER SOURCE TESTS
// =============================================================================

func TestPicker_TakeResolvesAndResets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	os.WriteFile(path, []byte("content"), 0600)

	p := NewPicker()
	p.Select(path)
	if p.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", p.Pending())
	}

	refs, errs := p.Take()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(refs) != 1 || refs[0].Name != "doc.txt" {
		t.Fatalf("refs = %+v", refs)
	}
	if refs[0].Size != 7 {
		t.Errorf("size = %d, want 7", refs[0].Size)
	}

	// The buffer resets on Take so the same selection can re-trigger
	// ingestion later.
	if p.Pending() != 0 {
		t.Errorf("picker not reset after Take: pending=%d", p.Pending())
	}
}

func TestPicker_SameSelectionTriggersFreshEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "again.md")
	os.WriteFile(path, []byte("# hi"), 0600)

	p := NewPicker()

	p.Select(path)
	first, _ := p.Take()

	p.Select(path)
	second, _ := p.Take()

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("reselection did not produce a fresh batch: %d, %d", len(first), len(second))
	}
}

func TestPicker_MissingFileBecomesExtractionError(t *testing.T) {
	p := NewPicker()
	p.Select("/no/such/file.pdf")

	refs, errs := p.Take()
	if len(refs) != 0 {
		t.Errorf("resolved a missing file: %+v", refs)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 extraction error, got %d", len(errs))
	}
	// Failure must still reset the buffer.
	if p.Pending() != 0 {
		t.Errorf("picker kept failed selection: pending=%d", p.Pending())
	}
}

func TestPicker_MultiplePathsKeepOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.json")
	os.WriteFile(a, []byte("x,y"), 0600)
	os.WriteFile(b, []byte("{}"), 0600)

	p := NewPicker()
	p.Select(a + " " + b)

	refs, _ := p.Take()
	if len(refs) != 2 || refs[0].Name != "a.csv" || refs[1].Name != "b.json" {
		t.Errorf("order not preserved: %+v", refs)
	}
}
