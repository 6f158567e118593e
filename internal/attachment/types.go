// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// FILE REFERENCE
// =============================================================================

// FileRef describes a candidate file before it enters the store.
// The byte source is deferred: content is not materialized until the
// attachment is actually sent or previewed.
type FileRef struct {
	// Name is the display and dedup key (base name, NFC-normalized).
	Name string

	// MimeType is the declared or sniffed MIME type.
	MimeType string

	// Size in bytes.
	Size int64

	open func() (io.ReadCloser, error)
}

// NewFileRef creates a FileRef with an explicit deferred byte source.
func NewFileRef(name, mimeType string, size int64, open func() (io.ReadCloser, error)) FileRef {
	return FileRef{
		Name:     norm.NFC.String(name),
		MimeType: mimeType,
		Size:     size,
		open:     open,
	}
}

// FileRefFromPath builds a FileRef for a file on disk, sniffing its MIME type.
func FileRefFromPath(path string) (FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileRef{}, err
	}
	if info.IsDir() {
		return FileRef{}, &IngestError{Reason: ReasonExtractionFailed, Name: path, Message: "is a directory"}
	}

	mt, err := mimetype.DetectFile(path)
	mimeType := "application/octet-stream"
	if err == nil {
		// mimetype appends parameters like "; charset=utf-8"; keep the bare type
		mimeType = strings.SplitN(mt.String(), ";", 2)[0]
	}

	return NewFileRef(filepath.Base(path), mimeType, info.Size(), func() (io.ReadCloser, error) {
		return os.Open(path)
	}), nil
}

// FileRefFromBytes builds a FileRef backed by an in-memory payload.
// Used when clipboard data carries raw image bytes with no filename.
func FileRefFromBytes(name, mimeType string, data []byte) FileRef {
	return NewFileRef(name, mimeType, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// Open returns a reader over the file content. Callers own the Close.
func (f FileRef) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, &IngestError{Reason: ReasonExtractionFailed, Name: f.Name, Message: "no byte source"}
	}
	return f.open()
}

// IsImage reports whether the declared MIME type is an image type.
func (f FileRef) IsImage() bool {
	return strings.HasPrefix(f.MimeType, "image/")
}

// Ext returns the lowercase extension derived from the final '.'-delimited
// segment of the name, without the dot. Empty if the name has no extension.
func (f FileRef) Ext() string {
	idx := strings.LastIndex(f.Name, ".")
	if idx < 0 || idx == len(f.Name)-1 {
		return ""
	}
	return strings.ToLower(f.Name[idx+1:])
}

// SameFile reports whether two refs are duplicates under the dedup rule:
// name, size, and declared type all match exactly.
func (f FileRef) SameFile(other FileRef) bool {
	return f.Name == other.Name && f.Size == other.Size && f.MimeType == other.MimeType
}

// =============================================================================
// ATTACHMENT
// =============================================================================

// Attachment is a file staged for sending. It is created when a FileRef is
// accepted by the validator and destroyed on removal, send, or teardown.
type Attachment struct {
	FileRef

	// ID is a stable identity for UI bookkeeping; dedup still keys on
	// name/size/type per the duplicate rule.
	ID string

	AddedAt time.Time
}

// newAttachment wraps an accepted FileRef.
func newAttachment(ref FileRef) Attachment {
	return Attachment{
		FileRef: ref,
		ID:      uuid.NewString(),
		AddedAt: time.Now(),
	}
}
