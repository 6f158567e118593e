// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

// =============================================================================
// ATTACHMENT STORE
// =============================================================================

// Store holds the ordered working set of staged attachments.
// Insertion order is display order is send order.
//
// The store is owned by a single compose surface and mutated only from the
// UI event loop, so it carries no locking. Removal observers are registered
// explicitly by the owner rather than broadcast through any global channel.
type Store struct {
	items []Attachment

	// onRemove fires once per attachment leaving the store, whether by
	// RemoveAt or Clear. The preview manager registers here to release
	// handles in lockstep with attachment lifetime.
	onRemove []func(Attachment)
}

// NewStore creates an empty attachment store.
func NewStore() *Store {
	return &Store{}
}

// OnRemove registers an observer invoked for every attachment that leaves
// the store. Registration is owned by the compose surface; there is no
// global signal.
func (s *Store) OnRemove(fn func(Attachment)) {
	if fn != nil {
		s.onRemove = append(s.onRemove, fn)
	}
}

// Len returns the number of staged attachments.
func (s *Store) Len() int {
	return len(s.items)
}

// Items returns the staged attachments in insertion order.
// The returned slice is a copy; mutating it does not affect the store.
func (s *Store) Items() []Attachment {
	out := make([]Attachment, len(s.items))
	copy(out, s.items)
	return out
}

// At returns the attachment at index, and whether the index was in bounds.
func (s *Store) At(index int) (Attachment, bool) {
	if index < 0 || index >= len(s.items) {
		return Attachment{}, false
	}
	return s.items[index], true
}

// Contains reports whether the store already holds a duplicate of ref
// (exact match on name, size, and declared type).
func (s *Store) Contains(ref FileRef) bool {
	for _, a := range s.items {
		if a.SameFile(ref) {
			return true
		}
	}
	return false
}

// append adds already-validated, already-deduplicated attachments to the end,
// preserving the batch's relative order. Only the ingest accept path calls
// this; direct appends would bypass validation and dedup.
func (s *Store) append(atts []Attachment) {
	s.items = append(s.items, atts...)
}

// RemoveAt removes the attachment at index and notifies removal observers.
// Out-of-bounds indices are a silent no-op.
func (s *Store) RemoveAt(index int) {
	if index < 0 || index >= len(s.items) {
		return
	}
	removed := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.notifyRemoved(removed)
}

// Clear empties the store (used after a successful send) and notifies
// removal observers for every evicted attachment.
func (s *Store) Clear() {
	evicted := s.items
	s.items = nil
	for _, a := range evicted {
		s.notifyRemoved(a)
	}
}

func (s *Store) notifyRemoved(a Attachment) {
	for _, fn := range s.onRemove {
		fn(a)
	}
}
