// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package inventory tracks the model catalog reported by the backend.
//
// The backend owns the truth about which models are installed and which
// can be downloaded; this package caches the latest snapshot, layers the
// set of downloads the user has started on top of it, and notifies
// registered observers whenever either changes. Interested views register
// a callback with OnChange rather than polling the inventory.
package inventory
