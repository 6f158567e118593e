// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// =============================================================================
// LIMITS AND ALLOW-LIST
// =============================================================================

// MaxFileSize is the per-file attachment ceiling (10 MiB, boundary inclusive).
// Enforced client-side only; the backend enforces its own limit.
const MaxFileSize int64 = 10 * 1024 * 1024

// allowedExtensions is the document/data format allow-list. Image files are
// admitted by MIME type instead, so image extensions are not listed here.
var allowedExtensions = map[string]bool{
	"docx": true,
	"pdf":  true,
	"txt":  true,
	"md":   true,
	"csv":  true,
	"json": true,
	"xml":  true,
	"html": true,
	"htm":  true,
}

// SupportedExtensions returns the allow-list as a sorted-ish display string.
func SupportedExtensions() []string {
	return []string{"docx", "pdf", "txt", "md", "csv", "json", "xml", "html", "htm"}
}

// =============================================================================
// REJECTION REASONS
// =============================================================================

// Reason categorizes why a candidate file was rejected or dropped.
type Reason int

const (
	ReasonUnsupportedType Reason = iota
	ReasonTooLarge
	ReasonDuplicate
	ReasonExtractionFailed
)

// String returns the machine-readable reason name.
func (r Reason) String() string {
	switch r {
	case ReasonUnsupportedType:
		return "unsupported_type"
	case ReasonTooLarge:
		return "too_large"
	case ReasonDuplicate:
		return "duplicate"
	case ReasonExtractionFailed:
		return "extraction_failed"
	default:
		return "unknown"
	}
}

// Describe returns a user-facing description for a rejected file.
func (r Reason) Describe(f FileRef) string {
	switch r {
	case ReasonUnsupportedType:
		return f.Name + ": unsupported file type (" + f.MimeType + ")"
	case ReasonTooLarge:
		return f.Name + ": too large (" + humanize.IBytes(uint64(f.Size)) + ", limit " + humanize.IBytes(uint64(MaxFileSize)) + ")"
	case ReasonDuplicate:
		return f.Name + ": already attached"
	case ReasonExtractionFailed:
		return f.Name + ": could not be read"
	default:
		return f.Name + ": rejected"
	}
}

// IngestError is a typed error for extraction failures at the ingestion
// boundary (unreadable clipboard item, vanished dropped file, and so on).
// Validation failures are reported as Rejections, not errors.
type IngestError struct {
	Reason  Reason
	Name    string
	Message string
	Cause   error
}

func (e *IngestError) Error() string {
	msg := e.Name + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *IngestError) Unwrap() error {
	return e.Cause
}

// Rejection pairs a candidate with every rule it failed. Rules are evaluated
// independently so the UI can surface all reasons at once.
type Rejection struct {
	File    FileRef
	Reasons []Reason
}

// Has reports whether the rejection includes the given reason.
func (r Rejection) Has(reason Reason) bool {
	for _, got := range r.Reasons {
		if got == reason {
			return true
		}
	}
	return false
}

// Describe returns a single-line user-facing summary of the rejection.
func (r Rejection) Describe() string {
	parts := make([]string, 0, len(r.Reasons))
	for _, reason := range r.Reasons {
		parts = append(parts, reason.Describe(r.File))
	}
	return strings.Join(parts, "; ")
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate partitions candidates into accepted files and rejections.
// Each file is checked against the type rule and the size rule; both rules
// run even when the first has already failed, so a rejection carries the
// complete set of reasons. Validate has no side effects.
func Validate(candidates []FileRef) (accepted []FileRef, rejected []Rejection) {
	for _, f := range candidates {
		var reasons []Reason

		if !typeAllowed(f) {
			reasons = append(reasons, ReasonUnsupportedType)
		}
		if f.Size > MaxFileSize {
			reasons = append(reasons, ReasonTooLarge)
		}

		if len(reasons) > 0 {
			rejected = append(rejected, Rejection{File: f, Reasons: reasons})
			continue
		}
		accepted = append(accepted, f)
	}
	return accepted, rejected
}

// typeAllowed applies the type rule: the extension must be on the document
// allow-list OR the declared MIME type must be an image type.
func typeAllowed(f FileRef) bool {
	if f.IsImage() {
		return true
	}
	return allowedExtensions[f.Ext()]
}
