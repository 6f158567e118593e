// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"os"
	"testing"
)

// =============================================================================
// PREVIEW LIFECYCLE TESTS
// =============================================================================

// pngBytes is a tiny stand-in payload; the manager copies bytes, it does not
// decode them.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func newTestManager(t *testing.T) *PreviewManager {
	t.Helper()
	m, err := NewPreviewManager()
	if err != nil {
		t.Fatalf("NewPreviewManager failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func imageRef(name string) FileRef {
	return FileRefFromBytes(name, "image/png", pngBytes)
}

func TestPreview_ExactlyOneHandlePerImage(t *testing.T) {
	m := newTestManager(t)
	s := NewStore()
	s.OnRemove(func(a Attachment) { m.Release(a.Name) })
	ing := NewIngestor(s, m)

	ing.Ingest([]FileRef{imageRef("one.png"), imageRef("two.png")})
	if m.Live() != 2 {
		t.Fatalf("expected 2 live handles, got %d", m.Live())
	}

	// Non-image attachments allocate nothing.
	ing.Ingest([]FileRef{ref("doc.pdf", "application/pdf", 10)})
	if m.Live() != 2 {
		t.Errorf("non-image allocated a handle: live=%d", m.Live())
	}
}

func TestPreview_RemovalRevokesExactlyOne(t *testing.T) {
	m := newTestManager(t)
	s := NewStore()
	s.OnRemove(func(a Attachment) { m.Release(a.Name) })
	ing := NewIngestor(s, m)

	ing.Ingest([]FileRef{imageRef("one.png"), imageRef("two.png")})

	h, ok := m.Get("one.png")
	if !ok {
		t.Fatal("no handle for one.png")
	}
	path := h.Path()

	s.RemoveAt(0)
	if m.Live() != 1 {
		t.Fatalf("expected 1 live handle after removal, got %d", m.Live())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("preview file survived release")
	}
	if h.State() != HandleReleased {
		t.Errorf("handle state = %v, want released", h.State())
	}

	// Revoking twice is a safe no-op.
	m.Release("one.png")
	m.Release("one.png")
	if m.Live() != 1 {
		t.Errorf("double release corrupted live count: %d", m.Live())
	}
}

func TestPreview_ClearReleasesAll(t *testing.T) {
	m := newTestManager(t)
	s := NewStore()
	s.OnRemove(func(a Attachment) { m.Release(a.Name) })
	ing := NewIngestor(s, m)

	ing.Ingest([]FileRef{imageRef("a.png"), imageRef("b.png"), imageRef("c.png")})
	if m.Live() != 3 {
		t.Fatalf("expected 3 live handles, got %d", m.Live())
	}

	s.Clear()
	if m.Live() != 0 {
		t.Errorf("handles leaked after Clear: live=%d", m.Live())
	}
}

func TestPreview_ReusedNameRevokesStaleHandle(t *testing.T) {
	m := newTestManager(t)

	a1 := newAttachment(imageRef("same.png"))
	h1, err := m.Allocate(a1)
	if err != nil {
		t.Fatalf("first Allocate failed: %v", err)
	}

	a2 := newAttachment(imageRef("same.png"))
	h2, err := m.Allocate(a2)
	if err != nil {
		t.Fatalf("second Allocate failed: %v", err)
	}

	if h1.State() != HandleReleased {
		t.Errorf("stale handle not revoked: %v", h1.State())
	}
	if h2.State() != HandleLoading {
		t.Errorf("fresh handle state = %v, want loading", h2.State())
	}
	if m.Live() != 1 {
		t.Errorf("expected exactly one live handle per name, got %d", m.Live())
	}
}

func TestPreview_StateMachine(t *testing.T) {
	m := newTestManager(t)

	h, err := m.Allocate(newAttachment(imageRef("pic.png")))
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if h.State() != HandleLoading {
		t.Fatalf("fresh handle state = %v, want loading", h.State())
	}

	m.MarkReady("pic.png")
	if h.State() != HandleReady {
		t.Errorf("state = %v, want ready", h.State())
	}

	// Ready handles don't regress to failed.
	m.MarkFailed("pic.png")
	if h.State() != HandleReady {
		t.Errorf("ready handle regressed to %v", h.State())
	}

	m.Release("pic.png")
	if h.State() != HandleReleased {
		t.Errorf("state = %v, want released", h.State())
	}
}

func TestPreview_TeardownLeavesNothing(t *testing.T) {
	m, err := NewPreviewManager()
	if err != nil {
		t.Fatalf("NewPreviewManager failed: %v", err)
	}

	for _, name := range []string{"a.png", "b.png"} {
		if _, err := m.Allocate(newAttachment(imageRef(name))); err != nil {
			t.Fatalf("Allocate(%s) failed: %v", name, err)
		}
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if m.Live() != 0 {
		t.Errorf("handles survived teardown: %d", m.Live())
	}
	if _, err := os.Stat(m.dir); !os.IsNotExist(err) {
		t.Error("scratch directory survived teardown")
	}
}
