// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// DROP DIRECTORY SOURCE
// =============================================================================

// DropEvent carries the files extracted from one settled drop, plus any
// extraction errors for files that vanished or could not be read.
type DropEvent struct {
	Files  []FileRef
	Errors []error
}

// DropWatcher is the drag-and-drop ingestion source: a watched drop
// directory. Files appearing there are picked up, settled, and delivered as
// DropEvents; the watcher consumes the file (removes it from the directory
// after extraction) so nothing else acts on it.
//
// Watcher events drive the DragState counter: a created file is an enter, a
// file disappearing before it settles is a leave, and a settled extraction
// is a drop, which resets the counter.
type DropWatcher struct {
	dir     string
	watcher *fsnotify.Watcher
	drag    *DragState
	events  chan DropEvent
	settle  time.Duration

	mu      sync.Mutex
	pending map[string]time.Time // path -> last write
	cancel  context.CancelFunc
}

// NewDropWatcher creates a watcher over dir, creating it when missing.
// DragState mutations happen on the watcher goroutine; the owning surface
// reads hover state through the same DragState it passed in.
func NewDropWatcher(dir string, drag *DragState) (*DropWatcher, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &DropWatcher{
		dir:     dir,
		watcher: watcher,
		drag:    drag,
		events:  make(chan DropEvent, 4),
		settle:  250 * time.Millisecond,
		pending: make(map[string]time.Time),
	}, nil
}

// Events returns the channel of settled drops.
func (w *DropWatcher) Events() <-chan DropEvent {
	return w.events
}

// Start begins processing filesystem events until Close or ctx cancellation.
func (w *DropWatcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	go w.processEvents(ctx)
	go w.processPending(ctx)
}

// Close stops the watcher. The events channel is closed by processEvents.
func (w *DropWatcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	return w.watcher.Close()
}

func (w *DropWatcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			switch {
			case ev.Has(fsnotify.Create):
				w.drag.Enter()
				w.touch(ev.Name)
			case ev.Has(fsnotify.Write):
				w.touch(ev.Name)
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				// The file left before settling; unwind the enter.
				if w.forget(ev.Name) {
					w.drag.Leave()
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the drop directory keeps working
			// for subsequent events.
		}
	}
}

// processPending flushes files whose writes have settled.
func (w *DropWatcher) processPending(ctx context.Context) {
	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.flushSettled()
		}
	}
}

func (w *DropWatcher) flushSettled() {
	w.mu.Lock()
	var ready []string
	now := time.Now()
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(ready) == 0 {
		return
	}

	var event DropEvent
	for _, path := range ready {
		ref, err := w.extract(path)
		if err != nil {
			event.Errors = append(event.Errors, err)
			continue
		}
		event.Files = append(event.Files, ref)
	}

	// Drop completed: reset the counter unconditionally.
	w.drag.Drop()

	select {
	case w.events <- event:
	default:
		// Receiver gone or slow; drop state was still reconciled.
	}
}

// extract copies the dropped file into memory-backed staging and removes it
// from the drop directory, so the drop has no default side effect.
func (w *DropWatcher) extract(path string) (FileRef, error) {
	ref, err := FileRefFromPath(path)
	if err != nil {
		return FileRef{}, &IngestError{
			Reason:  ReasonExtractionFailed,
			Name:    filepath.Base(path),
			Message: "dropped file could not be read",
			Cause:   err,
		}
	}

	pinned, err := pinBytes(ref)
	if err != nil {
		return FileRef{}, err
	}
	os.Remove(path)

	return pinned, nil
}

// pinBytes materializes a FileRef into memory before its source file is
// consumed. A read error rejects the whole file; partial content is never
// staged.
func pinBytes(ref FileRef) (FileRef, error) {
	src, err := ref.Open()
	if err != nil {
		return FileRef{}, &IngestError{Reason: ReasonExtractionFailed, Name: ref.Name, Message: "dropped file could not be opened", Cause: err}
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return FileRef{}, &IngestError{Reason: ReasonExtractionFailed, Name: ref.Name, Message: "dropped file could not be read", Cause: err}
	}
	return FileRefFromBytes(ref.Name, ref.MimeType, data), nil
}

func (w *DropWatcher) touch(path string) {
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *DropWatcher) forget(path string) bool {
	w.mu.Lock()
	_, ok := w.pending[path]
	delete(w.pending, path)
	w.mu.Unlock()
	return ok
}
