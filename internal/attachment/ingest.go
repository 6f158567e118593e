// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"strings"
)

// =============================================================================
// INGEST RESULT
// =============================================================================

// Result summarizes one ingestion batch. Validation failures, duplicates,
// and extraction errors are collected here and surfaced to the user as a
// single summary; none of them interrupt the rest of the batch.
type Result struct {
	// Accepted attachments, in the batch's original relative order.
	Accepted []Attachment

	// Rejected candidates with every rule each one failed.
	Rejected []Rejection

	// Duplicates silently dropped from the accepted set: candidates that
	// matched an attachment already in the store, or an earlier candidate
	// in the same batch.
	Duplicates []FileRef

	// Errors from source extraction (unreadable clipboard item, vanished
	// dropped file). Kept separate from validation rejections.
	Errors []error
}

// Ok reports whether the batch produced no problems at all.
func (r Result) Ok() bool {
	return len(r.Rejected) == 0 && len(r.Duplicates) == 0 && len(r.Errors) == 0
}

// Empty reports whether the batch changed nothing and reported nothing.
func (r Result) Empty() bool {
	return len(r.Accepted) == 0 && r.Ok()
}

// Summary returns the single user-facing line describing what happened to
// the batch, or "" when there is nothing to report.
func (r Result) Summary() string {
	var parts []string
	for _, rej := range r.Rejected {
		parts = append(parts, rej.Describe())
	}
	for _, dup := range r.Duplicates {
		parts = append(parts, ReasonDuplicate.Describe(dup))
	}
	for _, err := range r.Errors {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

// =============================================================================
// INGESTOR (SHARED ACCEPT PATH)
// =============================================================================

// Ingestor is the accept path every ingestion source funnels into:
// candidates -> validate -> dedup against the store -> append -> previews.
//
// A batch is atomic from the caller's perspective: it either appends its
// accepted subset in one update or, on total rejection, changes nothing.
type Ingestor struct {
	store    *Store
	previews *PreviewManager
}

// NewIngestor wires the accept path to a store and preview manager.
func NewIngestor(store *Store, previews *PreviewManager) *Ingestor {
	return &Ingestor{store: store, previews: previews}
}

// Ingest runs one candidate batch through the accept path.
//
// Dedup compares each validated candidate against the resident store and
// against earlier accepted candidates in the same batch (first occurrence
// wins). For every accepted image attachment exactly one preview handle is
// allocated; an allocation failure leaves the attachment staged with its
// handle in the failed state.
func (ing *Ingestor) Ingest(candidates []FileRef) Result {
	var res Result
	if len(candidates) == 0 {
		return res
	}

	accepted, rejected := Validate(candidates)
	res.Rejected = rejected

	var fresh []Attachment
	for _, ref := range accepted {
		if ing.store.Contains(ref) || containsRef(fresh, ref) {
			res.Duplicates = append(res.Duplicates, ref)
			continue
		}
		fresh = append(fresh, newAttachment(ref))
	}

	// Single visible update: nothing is appended until the whole batch is
	// validated and deduplicated.
	ing.store.append(fresh)
	res.Accepted = fresh

	if ing.previews != nil {
		for _, a := range fresh {
			if _, err := ing.previews.Allocate(a); err != nil {
				res.Errors = append(res.Errors, err)
			}
		}
	}

	return res
}

// IngestWithErrors runs a batch whose source already produced extraction
// errors, folding them into the result alongside validation outcomes.
func (ing *Ingestor) IngestWithErrors(candidates []FileRef, extractionErrs []error) Result {
	res := ing.Ingest(candidates)
	res.Errors = append(extractionErrs, res.Errors...)
	return res
}

func containsRef(atts []Attachment, ref FileRef) bool {
	for _, a := range atts {
		if a.SameFile(ref) {
			return true
		}
	}
	return false
}
