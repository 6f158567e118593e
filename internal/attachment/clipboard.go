// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"encoding/base64"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

// =============================================================================
// CLIPBOARD PASTE SOURCE
// =============================================================================

// PasteOutcome is the result of inspecting the clipboard on paste.
//
// When Claimed is false the paste carried no supported file content and the
// default behavior (plain text insertion of Text into the input) must
// proceed unobstructed. When Claimed is true, Files and Errors feed the
// ingest accept path and the default insertion is suppressed.
type PasteOutcome struct {
	Claimed bool
	Files   []FileRef
	Errors  []error
	Text    string
}

// Clipboard is the paste ingestion source. The read function is injectable
// for tests; the default reads the system clipboard.
type Clipboard struct {
	read func() (string, error)

	// now is injectable so synthesized filenames are deterministic in tests.
	now func() time.Time
}

// NewClipboard creates a clipboard source backed by the system clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{read: clipboard.ReadAll, now: time.Now}
}

// NewClipboardFromReader creates a clipboard source with a custom read
// function, for tests and alternate clipboard providers.
func NewClipboardFromReader(read func() (string, error)) *Clipboard {
	return &Clipboard{read: read, now: time.Now}
}

// Inspect reads the clipboard and decides whether this paste carries
// supported file content.
//
// Recognized content, in order:
//   - a data URI with raw image bytes: a file is synthesized with a
//     generated name, since raw clipboard image data carries none
//   - one or more lines that each name an existing file: the files are
//     extracted; unreadable entries become extraction errors
//
// Anything else leaves the paste unclaimed so plain text insertion works.
// A paste is claimed only when at least one usable candidate or a claimed
// extraction error was found.
func (c *Clipboard) Inspect() PasteOutcome {
	text, err := c.read()
	if err != nil {
		// An unreadable clipboard is reported, but the paste stays
		// unclaimed so typing flow is never blocked.
		return PasteOutcome{
			Errors: []error{&IngestError{Reason: ReasonExtractionFailed, Name: "clipboard", Message: "could not read clipboard", Cause: err}},
		}
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return PasteOutcome{Text: text}
	}

	if ref, err, ok := c.imageFromDataURI(trimmed); ok {
		out := PasteOutcome{Claimed: true}
		if err != nil {
			out.Errors = append(out.Errors, err)
		} else {
			out.Files = append(out.Files, ref)
		}
		return out
	}

	if files, errs, ok := filesFromPathList(trimmed); ok {
		return PasteOutcome{Claimed: true, Files: files, Errors: errs}
	}

	return PasteOutcome{Text: text}
}

// imageFromDataURI synthesizes a FileRef from "data:image/...;base64,..."
// clipboard content. Returns ok=false when the text is not an image URI.
func (c *Clipboard) imageFromDataURI(text string) (FileRef, error, bool) {
	if !strings.HasPrefix(text, "data:image/") {
		return FileRef{}, nil, false
	}

	meta, payload, found := strings.Cut(text, ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return FileRef{}, &IngestError{Reason: ReasonExtractionFailed, Name: "clipboard image", Message: "unsupported data URI encoding"}, true
	}

	mimeType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return FileRef{}, &IngestError{Reason: ReasonExtractionFailed, Name: "clipboard image", Message: "invalid base64 payload", Cause: err}, true
	}

	name := "pasted-" + c.now().Format("20060102-150405") + extensionForImage(mimeType)
	return FileRefFromBytes(name, mimeType, data), nil, true
}

// filesFromPathList treats the clipboard text as a newline-separated list of
// paths, the form most terminals produce when files are dropped or copied.
// Returns ok=false unless every non-empty line points at an existing file,
// so ordinary prose is never mistaken for a file list.
func filesFromPathList(text string) ([]FileRef, []error, bool) {
	lines := strings.Split(text, "\n")

	var paths []string
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "file://"))
		if line == "" {
			continue
		}
		if strings.ContainsAny(line, "\t ") && !fileExists(line) {
			return nil, nil, false
		}
		paths = append(paths, line)
	}
	if len(paths) == 0 {
		return nil, nil, false
	}

	var files []FileRef
	var errs []error
	usable := 0
	for _, path := range paths {
		if !fileExists(path) {
			return nil, nil, false
		}
		usable++
		ref, err := FileRefFromPath(path)
		if err != nil {
			errs = append(errs, &IngestError{Reason: ReasonExtractionFailed, Name: path, Message: "could not read pasted file", Cause: err})
			continue
		}
		files = append(files, ref)
	}
	if usable == 0 {
		return nil, nil, false
	}
	return files, errs, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// extensionForImage maps common clipboard image types to an extension for
// the synthesized filename.
func extensionForImage(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".img"
	}
}
