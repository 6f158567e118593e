// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// =============================================================================
// MODEL INVENTORY OPERATIONS
// =============================================================================

// AvailableModels retrieves the full inventory: installed models, available
// models with recommendation metadata, and the backend host's system info.
func (c *Client) AvailableModels(ctx context.Context) (*ModelsResponse, error) {
	var resp ModelsResponse
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/api/models/available", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadModel asks the backend to pull a model. The call returns once the
// backend has accepted the download; completion is observed by polling
// DownloadStatus or refreshing the inventory.
func (c *Client) DownloadModel(ctx context.Context, name string) error {
	req := modelDownloadRequest{ModelName: name}
	var resp statusResponse
	if err := c.doJSON(ctx, c.httpClient, http.MethodPost, "/api/models/download", req, &resp); err != nil {
		return err
	}
	if resp.Status == "error" {
		return &ClientError{Type: ErrTypeServer, Message: resp.Message}
	}
	return nil
}

// RemoveModel removes an installed model from the backend.
func (c *Client) RemoveModel(ctx context.Context, name string) error {
	err := c.doJSON(ctx, c.httpClient, http.MethodDelete, "/api/models/"+url.PathEscape(name), nil, nil)
	if IsNotFound(err) {
		return ErrModelNotFound
	}
	return err
}

// GetDownloadStatus reports progress for one in-flight download.
func (c *Client) GetDownloadStatus(ctx context.Context, name string) (*DownloadStatus, error) {
	var resp DownloadStatus
	err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/api/models/download-status/"+url.PathEscape(name), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// STATUS POLLER
// =============================================================================

// StatusPoller rate-limits download-status polling so a long pull does not
// hammer the backend. One poller serves all pending downloads.
type StatusPoller struct {
	client  *Client
	limiter *rate.Limiter
}

// NewStatusPoller creates a poller allowing one status request per second
// with a small burst.
func NewStatusPoller(client *Client) *StatusPoller {
	return &StatusPoller{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(1), 2),
	}
}

// Poll fetches the status for one model, waiting for limiter capacity.
func (p *StatusPoller) Poll(ctx context.Context, name string) (*DownloadStatus, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "status poll cancelled", Cause: err}
	}
	return p.client.GetDownloadStatus(ctx, name)
}
