// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// ListSessions retrieves all chat sessions, newest first.
func (c *Client) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	var resp sessionListResponse
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/api/chat-sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// CreateSession creates a new chat session. An empty title lets the backend
// pick its default ("New Chat").
func (c *Client) CreateSession(ctx context.Context, title string) (*Session, error) {
	var resp createSessionResponse
	req := createSessionRequest{Title: title}
	if err := c.doJSON(ctx, c.httpClient, http.MethodPost, "/api/chat-sessions", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

// GetSession retrieves a session with its messages.
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	var resp Session
	err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/api/chat-sessions/"+url.PathEscape(id), nil, &resp)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &resp, nil
}

// RenameSession updates a session's title.
func (c *Client) RenameSession(ctx context.Context, id, title string) error {
	req := renameSessionRequest{Title: title}
	err := c.doJSON(ctx, c.httpClient, http.MethodPut, "/api/chat-sessions/"+url.PathEscape(id)+"/title", req, nil)
	if IsNotFound(err) {
		return ErrSessionNotFound
	}
	return err
}

// DeleteSession removes a session and its messages.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	err := c.doJSON(ctx, c.httpClient, http.MethodDelete, "/api/chat-sessions/"+url.PathEscape(id), nil, nil)
	if IsNotFound(err) {
		return ErrSessionNotFound
	}
	return err
}

// GetMessages retrieves a page of messages from a session.
func (c *Client) GetMessages(ctx context.Context, id string, limit, offset int) ([]SessionMessage, error) {
	path := "/api/chat-sessions/" + url.PathEscape(id) + "/messages" +
		"?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)

	var resp messagesResponse
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, path, nil, &resp); err != nil {
		if IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return resp.Messages, nil
}

// SendMessage sends a user message (with any staged attachments) to a
// session and returns the assistant reply. This call waits on model
// generation and uses the longer send timeout.
func (c *Client) SendMessage(ctx context.Context, id string, req SendMessageRequest) (*SendMessageResponse, error) {
	var resp SendMessageResponse
	err := c.doJSON(ctx, c.sendClient, http.MethodPost, "/api/chat-sessions/"+url.PathEscape(id)+"/send-message", req, &resp)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &resp, nil
}
