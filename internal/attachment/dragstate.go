// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import "sync"

// =============================================================================
// DRAG STATE
// =============================================================================

// DragState tracks nested enter/leave events over the drop target as a
// non-negative counter. The hover flag is derived: true iff the counter is
// greater than zero. The counter never goes negative; unmatched leaves are
// clamped at zero.
//
// The watcher goroutines mutate the counter while the UI goroutine reads
// hover state on every render, so access is mutex-guarded. The zero value
// is ready to use.
type DragState struct {
	mu      sync.Mutex
	counter int
}

// Enter records a drag entering the target or one of its descendants.
func (d *DragState) Enter() {
	d.mu.Lock()
	d.counter++
	d.mu.Unlock()
}

// Leave records a drag leaving; clamped so the counter never goes negative.
func (d *DragState) Leave() {
	d.mu.Lock()
	if d.counter > 0 {
		d.counter--
	}
	d.mu.Unlock()
}

// Drop resets the counter and hover flag unconditionally.
func (d *DragState) Drop() {
	d.mu.Lock()
	d.counter = 0
	d.mu.Unlock()
}

// Hovering reports whether a file is currently over the drop target.
func (d *DragState) Hovering() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counter > 0
}

// Depth returns the current nesting counter. Mostly useful in tests.
func (d *DragState) Depth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counter
}
