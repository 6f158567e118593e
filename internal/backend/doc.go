// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the Haven chat backend:
// session CRUD, model inventory and download management, memory entries,
// and message sending. The backend owns all persistence; this client is a
// thin request/response wrapper with a typed error taxonomy.
package backend
