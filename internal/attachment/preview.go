// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// HANDLE STATE MACHINE
// =============================================================================

// HandleState tracks a preview handle through its lifecycle.
type HandleState int

const (
	HandleUnallocated HandleState = iota
	HandleLoading                 // resource created, renderer has not confirmed
	HandleReady                   // renderer decoded the preview successfully
	HandleFailed                  // renderer reported a decode/render error
	HandleReleased                // resource revoked
)

// String returns the state name for display and logging.
func (s HandleState) String() string {
	switch s {
	case HandleUnallocated:
		return "unallocated"
	case HandleLoading:
		return "loading"
	case HandleReady:
		return "ready"
	case HandleFailed:
		return "failed"
	case HandleReleased:
		return "released"
	default:
		return "unknown"
	}
}

// PreviewHandle is a revocable reference to a renderable copy of an image
// attachment's bytes. The manager owns the handle; the UI borrows it by
// attachment name for the duration of a render.
type PreviewHandle struct {
	name  string
	path  string
	state HandleState
}

// Name returns the attachment name this handle belongs to.
func (h *PreviewHandle) Name() string { return h.name }

// Path returns the on-disk location of the preview copy.
// Invalid once the handle is released.
func (h *PreviewHandle) Path() string { return h.path }

// State returns the current lifecycle state.
func (h *PreviewHandle) State() HandleState { return h.state }

// =============================================================================
// PREVIEW MANAGER
// =============================================================================

// PreviewManager allocates and revokes preview resources for image
// attachments. Each handle is backed by a temp file copy of the image bytes,
// a finite process-external resource that must be reconciled on teardown:
// the set of allocated-but-unreleased handles must reach empty when the
// owning compose surface goes away.
//
// At most one handle exists per attachment name; allocating for a reused
// name revokes the stale handle first.
type PreviewManager struct {
	mu      sync.Mutex
	dir     string
	handles map[string]*PreviewHandle
	closed  bool
}

// NewPreviewManager creates a manager with a private scratch directory.
func NewPreviewManager() (*PreviewManager, error) {
	dir, err := os.MkdirTemp("", "haven-previews-")
	if err != nil {
		return nil, err
	}
	return &PreviewManager{
		dir:     dir,
		handles: make(map[string]*PreviewHandle),
	}, nil
}

// Allocate creates a preview handle for an image attachment, copying its
// bytes into the scratch directory. Non-image attachments are a no-op.
// If a handle already exists for the same name, the stale one is revoked
// before the new one is created.
func (m *PreviewManager) Allocate(a Attachment) (*PreviewHandle, error) {
	if !a.IsImage() {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, &IngestError{Reason: ReasonExtractionFailed, Name: a.Name, Message: "preview manager closed"}
	}

	if stale, ok := m.handles[a.Name]; ok {
		m.releaseLocked(stale)
	}

	h := &PreviewHandle{
		name:  a.Name,
		path:  filepath.Join(m.dir, uuid.NewString()),
		state: HandleLoading,
	}

	if err := m.copyBytes(a.FileRef, h.path); err != nil {
		h.state = HandleFailed
		m.handles[a.Name] = h
		return h, err
	}

	m.handles[a.Name] = h
	return h, nil
}

// copyBytes materializes the deferred byte source into the preview file.
func (m *PreviewManager) copyBytes(ref FileRef, dst string) error {
	src, err := ref.Open()
	if err != nil {
		return &IngestError{Reason: ReasonExtractionFailed, Name: ref.Name, Message: "open failed", Cause: err}
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// Get returns the live handle for an attachment name, if any.
// Released handles are not returned.
func (m *PreviewManager) Get(name string) (*PreviewHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[name]
	return h, ok
}

// MarkReady records that the renderer decoded the preview successfully.
func (m *PreviewManager) MarkReady(name string) {
	m.setState(name, HandleReady)
}

// MarkFailed records a decode/render error. The handle stays live for
// cleanup; the UI shows a failure state instead of a thumbnail.
func (m *PreviewManager) MarkFailed(name string) {
	m.setState(name, HandleFailed)
}

func (m *PreviewManager) setState(name string, state HandleState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.handles[name]; ok && h.state == HandleLoading {
		h.state = state
	}
}

// Release revokes the handle for an attachment name. Releasing a name with
// no live handle, or releasing twice, is a no-op.
func (m *PreviewManager) Release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.handles[name]; ok {
		m.releaseLocked(h)
	}
}

// releaseLocked revokes a handle and drops it from the live set.
// Idempotent: a released handle is never revoked twice.
func (m *PreviewManager) releaseLocked(h *PreviewHandle) {
	if h.state == HandleReleased {
		return
	}
	os.Remove(h.path)
	h.state = HandleReleased
	delete(m.handles, h.name)
}

// Live returns the number of allocated-but-unreleased handles.
func (m *PreviewManager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

// ReleaseAll revokes every live handle. Safe to call repeatedly.
func (m *PreviewManager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.handles {
		m.releaseLocked(h)
	}
}

// Close revokes all handles and removes the scratch directory.
// This is the deterministic teardown hook for the compose surface; after
// Close returns no preview resource survives.
func (m *PreviewManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.handles {
		m.releaseLocked(h)
	}
	m.closed = true
	return os.RemoveAll(m.dir)
}
