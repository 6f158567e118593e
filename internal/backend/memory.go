// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
)

// =============================================================================
// MEMORY OPERATIONS
// =============================================================================

// GetMemory retrieves all memory entries.
func (c *Client) GetMemory(ctx context.Context) ([]MemoryEntry, error) {
	var resp memoryResponse
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/api/memory", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// SaveMemory replaces all memory entries wholesale. The backend has no
// partial-update protocol; the settings dialog always writes the full set.
func (c *Client) SaveMemory(ctx context.Context, entries []MemoryEntry) error {
	req := memoryRequest{Entries: entries}
	return c.doJSON(ctx, c.httpClient, http.MethodPost, "/api/memory", req, nil)
}
