// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"strings"
	"testing"
)

// =============================================================================
// ACCEPT PATH TESTS
// =============================================================================

func TestIngest_DuplicateAgainstStore(t *testing.T) {
	s := NewStore()
	ing := NewIngestor(s, nil)

	ing.Ingest([]FileRef{ref("a.pdf", "application/pdf", 100)})

	// Exact triple match is a duplicate.
	res := ing.Ingest([]FileRef{ref("a.pdf", "application/pdf", 100)})
	if len(res.Accepted) != 0 || len(res.Duplicates) != 1 {
		t.Fatalf("expected duplicate drop, got accepted=%d duplicates=%d", len(res.Accepted), len(res.Duplicates))
	}
	if s.Len() != 1 {
		t.Errorf("store grew on duplicate: len=%d", s.Len())
	}
}

func TestIngest_AnyFieldChangeIsNotDuplicate(t *testing.T) {
	base := ref("a.pdf", "application/pdf", 100)
	variants := []struct {
		name string
		file FileRef
	}{
		{"different name", ref("b.pdf", "application/pdf", 100)},
		{"different size", ref("a.pdf", "application/pdf", 101)},
		{"different type", ref("a.pdf", "application/x-pdf", 100)},
	}

	for _, tt := range variants {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			ing := NewIngestor(s, nil)
			ing.Ingest([]FileRef{base})

			res := ing.Ingest([]FileRef{tt.file})
			if len(res.Accepted) != 1 {
				t.Errorf("expected acceptance, got duplicates=%d rejected=%d", len(res.Duplicates), len(res.Rejected))
			}
			if s.Len() != 2 {
				t.Errorf("expected 2 staged attachments, got %d", s.Len())
			}
		})
	}
}

func TestIngest_BatchInternalDuplicatesFiltered(t *testing.T) {
	// Two identical files in one paste: first occurrence wins.
	s := NewStore()
	ing := NewIngestor(s, nil)

	res := ing.Ingest([]FileRef{
		ref("a.pdf", "application/pdf", 100),
		ref("a.pdf", "application/pdf", 100),
	})

	if len(res.Accepted) != 1 {
		t.Errorf("expected 1 accepted, got %d", len(res.Accepted))
	}
	if len(res.Duplicates) != 1 {
		t.Errorf("expected 1 batch-internal duplicate, got %d", len(res.Duplicates))
	}
}

func TestIngest_PartialBatchAppendsAcceptedSubsetInOrder(t *testing.T) {
	s := NewStore()
	ing := NewIngestor(s, nil)

	res := ing.Ingest([]FileRef{
		ref("one.pdf", "application/pdf", 1),
		ref("bad.bin", "application/octet-stream", 1),
		ref("two.md", "text/markdown", 1),
	})

	if len(res.Accepted) != 2 || len(res.Rejected) != 1 {
		t.Fatalf("accepted=%d rejected=%d", len(res.Accepted), len(res.Rejected))
	}
	items := s.Items()
	if items[0].Name != "one.pdf" || items[1].Name != "two.md" {
		t.Errorf("accepted subset out of order: %q, %q", items[0].Name, items[1].Name)
	}
}

func TestIngest_TotalRejectionChangesNothing(t *testing.T) {
	s := NewStore()
	ing := NewIngestor(s, nil)

	res := ing.Ingest([]FileRef{
		ref("a.bin", "application/octet-stream", 1),
		ref("b.exe", "application/x-msdownload", 1),
	})

	if len(res.Accepted) != 0 {
		t.Errorf("expected no acceptances, got %d", len(res.Accepted))
	}
	if s.Len() != 0 {
		t.Errorf("store changed on total rejection: len=%d", s.Len())
	}
}

func TestIngest_EmptyBatch(t *testing.T) {
	ing := NewIngestor(NewStore(), nil)
	res := ing.Ingest(nil)
	if !res.Empty() {
		t.Errorf("empty batch produced a non-empty result: %+v", res)
	}
}

func TestResult_SummaryCollectsEverything(t *testing.T) {
	s := NewStore()
	ing := NewIngestor(s, nil)
	ing.Ingest([]FileRef{ref("a.pdf", "application/pdf", 100)})

	res := ing.IngestWithErrors(
		[]FileRef{
			ref("a.pdf", "application/pdf", 100),             // duplicate
			ref("big.bin", "application/zip", MaxFileSize+1), // both rules
		},
		[]error{&IngestError{Reason: ReasonExtractionFailed, Name: "ghost.png", Message: "could not be read"}},
	)

	summary := res.Summary()
	for _, want := range []string{"a.pdf", "big.bin", "ghost.png"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q: %s", want, summary)
		}
	}
	if res.Ok() {
		t.Error("result with rejections reported Ok")
	}
}
