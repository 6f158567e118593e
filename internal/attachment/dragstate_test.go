// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"sync"
	"testing"
)

// =============================================================================
// DRAG STATE TESTS
// =============================================================================

func TestDragState_NestedEnterLeave(t *testing.T) {
	var d DragState

	d.Enter()
	if !d.Hovering() || d.Depth() != 1 {
		t.Fatalf("after enter: hovering=%v depth=%d", d.Hovering(), d.Depth())
	}

	d.Enter()
	if d.Depth() != 2 {
		t.Fatalf("after nested enter: depth=%d", d.Depth())
	}

	d.Leave()
	if !d.Hovering() {
		t.Error("hover dropped while still nested")
	}

	d.Leave()
	if d.Hovering() || d.Depth() != 0 {
		t.Errorf("after matched leaves: hovering=%v depth=%d", d.Hovering(), d.Depth())
	}
}

func TestDragState_NeverNegative(t *testing.T) {
	var d DragState

	d.Leave()
	d.Leave()
	if d.Depth() != 0 {
		t.Errorf("counter went negative: %d", d.Depth())
	}
	if d.Hovering() {
		t.Error("hovering true on empty counter")
	}

	d.Enter()
	d.Leave()
	d.Leave() // unmatched
	if d.Depth() != 0 {
		t.Errorf("clamp failed: depth=%d", d.Depth())
	}
}

func TestDragState_DropResetsUnconditionally(t *testing.T) {
	var d DragState
	d.Enter()
	d.Enter()
	d.Enter()

	d.Drop()
	if d.Hovering() || d.Depth() != 0 {
		t.Errorf("after drop: hovering=%v depth=%d", d.Hovering(), d.Depth())
	}

	// Drop on an idle target is also fine.
	d.Drop()
	if d.Depth() != 0 {
		t.Errorf("idle drop corrupted counter: %d", d.Depth())
	}
}

// Watcher goroutines mutate the counter while the render loop reads it.
// Run with -race.
func TestDragState_ConcurrentAccess(t *testing.T) {
	var d DragState
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			d.Enter()
			d.Leave()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			d.Drop()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			d.Hovering()
		}
	}()
	wg.Wait()

	if d.Depth() < 0 {
		t.Errorf("counter went negative: %d", d.Depth())
	}
}
