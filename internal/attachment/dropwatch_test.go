// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// DROP WATCHER TESTS
// =============================================================================

// failingReader errs after returning a partial chunk, like a file going
// away mid-read.
type failingReader struct {
	data []byte
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errors.New("input/output error")
	}
	r.done = true
	n := copy(p, r.data)
	return n, nil
}

func (r *failingReader) Close() error { return nil }

func TestPinBytes_ReadErrorRejectsFile(t *testing.T) {
	ref := NewFileRef("doc.txt", "text/plain", 64, func() (io.ReadCloser, error) {
		return &failingReader{data: []byte("partial con")}, nil
	})

	_, err := pinBytes(ref)
	if err == nil {
		t.Fatal("a mid-read failure should reject the file, not stage partial content")
	}
	var ierr *IngestError
	if !errors.As(err, &ierr) || ierr.Reason != ReasonExtractionFailed {
		t.Errorf("err = %v, want IngestError with ReasonExtractionFailed", err)
	}
}

func TestPinBytes_OpenErrorRejectsFile(t *testing.T) {
	ref := NewFileRef("doc.txt", "text/plain", 0, func() (io.ReadCloser, error) {
		return nil, errors.New("permission denied")
	})

	_, err := pinBytes(ref)
	var ierr *IngestError
	if !errors.As(err, &ierr) || ierr.Reason != ReasonExtractionFailed {
		t.Errorf("err = %v, want IngestError with ReasonExtractionFailed", err)
	}
}

func TestPinBytes_CopiesContent(t *testing.T) {
	ref := FileRefFromBytes("notes.md", "text/markdown", []byte("# hello"))

	pinned, err := pinBytes(ref)
	if err != nil {
		t.Fatalf("pinBytes: %v", err)
	}
	src, err := pinned.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "# hello" {
		t.Errorf("content = %q, want original bytes", data)
	}
}

func TestExtract_ConsumesDroppedFile(t *testing.T) {
	dir := t.TempDir()
	var drag DragState
	w, err := NewDropWatcher(dir, &drag)
	if err != nil {
		t.Fatalf("NewDropWatcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(path, []byte("contents"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ref, err := w.extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if ref.Name != "report.txt" {
		t.Errorf("Name = %q, want report.txt", ref.Name)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("extract should remove the dropped file from the directory")
	}
}

func TestExtract_MissingFileReportsError(t *testing.T) {
	dir := t.TempDir()
	var drag DragState
	w, err := NewDropWatcher(dir, &drag)
	if err != nil {
		t.Fatalf("NewDropWatcher: %v", err)
	}
	defer w.Close()

	_, err = w.extract(filepath.Join(dir, "gone.txt"))
	var ierr *IngestError
	if !errors.As(err, &ierr) || ierr.Reason != ReasonExtractionFailed {
		t.Errorf("err = %v, want IngestError with ReasonExtractionFailed", err)
	}
}
