// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"testing"
)

// =============================================================================
// VALIDATOR TESTS
// =============================================================================

func ref(name, mimeType string, size int64) FileRef {
	return NewFileRef(name, mimeType, size, nil)
}

func TestValidate_TypeRule(t *testing.T) {
	tests := []struct {
		name     string
		file     FileRef
		accepted bool
	}{
		{"pdf allowed", ref("report.pdf", "application/pdf", 100), true},
		{"docx allowed", ref("notes.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 100), true},
		{"markdown allowed", ref("README.md", "text/plain", 100), true},
		{"csv allowed", ref("data.csv", "text/csv", 100), true},
		{"json allowed", ref("payload.json", "application/json", 100), true},
		{"xml allowed", ref("feed.xml", "application/xml", 100), true},
		{"html allowed", ref("page.html", "text/html", 100), true},
		{"htm allowed", ref("page.htm", "text/html", 100), true},
		{"txt allowed", ref("log.txt", "text/plain", 100), true},
		{"case insensitive extension", ref("REPORT.PDF", "application/pdf", 100), true},
		{"image by mime despite odd extension", ref("shot.screenshot", "image/png", 100), true},
		{"image with no extension", ref("clipboard", "image/jpeg", 100), true},
		{"executable rejected", ref("setup.exe", "application/x-msdownload", 100), false},
		{"archive rejected", ref("bundle.zip", "application/zip", 100), false},
		{"no extension non-image rejected", ref("Makefile", "text/x-makefile", 100), false},
		{"final segment decides", ref("archive.pdf.zip", "application/zip", 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted, rejected := Validate([]FileRef{tt.file})
			if tt.accepted {
				if len(accepted) != 1 || len(rejected) != 0 {
					t.Fatalf("expected accept, got accepted=%d rejected=%d", len(accepted), len(rejected))
				}
				return
			}
			if len(rejected) != 1 || len(accepted) != 0 {
				t.Fatalf("expected reject, got accepted=%d rejected=%d", len(accepted), len(rejected))
			}
			if !rejected[0].Has(ReasonUnsupportedType) {
				t.Errorf("expected ReasonUnsupportedType, got %v", rejected[0].Reasons)
			}
		})
	}
}

func TestValidate_SizeBoundary(t *testing.T) {
	// 10 MiB exactly is accepted; one byte over is rejected.
	atLimit := ref("big.pdf", "application/pdf", 10*1024*1024)
	overLimit := ref("huge.pdf", "application/pdf", 10*1024*1024+1)

	accepted, rejected := Validate([]FileRef{atLimit, overLimit})

	if len(accepted) != 1 || accepted[0].Name != "big.pdf" {
		t.Fatalf("expected exactly big.pdf accepted, got %v", accepted)
	}
	if len(rejected) != 1 || !rejected[0].Has(ReasonTooLarge) {
		t.Fatalf("expected huge.pdf rejected with ReasonTooLarge, got %v", rejected)
	}
}

func TestValidate_RulesAreIndependent(t *testing.T) {
	// A file failing both rules reports both reasons so the UI can surface
	// everything at once.
	f := ref("dump.bin", "application/octet-stream", MaxFileSize+5)

	_, rejected := Validate([]FileRef{f})
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(rejected))
	}
	if !rejected[0].Has(ReasonUnsupportedType) || !rejected[0].Has(ReasonTooLarge) {
		t.Errorf("expected both reasons, got %v", rejected[0].Reasons)
	}
}

func TestValidate_OversizedImageStillTypeChecked(t *testing.T) {
	// Image passes the type rule regardless of size; only TooLarge reported.
	f := ref("photo.png", "image/png", MaxFileSize+1)

	_, rejected := Validate([]FileRef{f})
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(rejected))
	}
	if rejected[0].Has(ReasonUnsupportedType) {
		t.Error("image should not be rejected for type")
	}
	if !rejected[0].Has(ReasonTooLarge) {
		t.Error("expected ReasonTooLarge")
	}
}

func TestValidate_NoSideEffects(t *testing.T) {
	batch := []FileRef{
		ref("a.pdf", "application/pdf", 1),
		ref("b.bin", "application/octet-stream", 1),
	}
	Validate(batch)
	Validate(batch)

	accepted, rejected := Validate(batch)
	if len(accepted) != 1 || len(rejected) != 1 {
		t.Errorf("repeated validation changed results: accepted=%d rejected=%d", len(accepted), len(rejected))
	}
}

func TestFileRef_Ext(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"report.PDF", "pdf"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"trailingdot.", ""},
		{".hidden", "hidden"},
	}
	for _, tt := range tests {
		if got := ref(tt.name, "", 0).Ext(); got != tt.want {
			t.Errorf("Ext(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
