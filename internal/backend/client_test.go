// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestClient wires a client against a stub backend.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
}

func TestCheckHealth(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))

	if err := client.CheckHealth(context.Background()); err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
}

func TestCheckHealth_Unreachable(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: url})
	err := client.CheckHealth(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable backend")
	}
	if !IsUnreachable(err) {
		t.Errorf("expected unreachable error, got %v", err)
	}
}

func TestListSessions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/chat-sessions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(sessionListResponse{
			Sessions: []SessionSummary{
				{ID: "s1", Title: "First chat", MessageCount: 4},
				{ID: "s2", Title: "Second chat", MessageCount: 0},
			},
		})
	}))

	sessions, err := client.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "s1" || sessions[0].MessageCount != 4 {
		t.Errorf("unexpected first session: %+v", sessions[0])
	}
}

func TestCreateSession(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var req createSessionRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Title != "Plans" {
			t.Errorf("expected title %q, got %q", "Plans", req.Title)
		}
		json.NewEncoder(w).Encode(createSessionResponse{
			Status:  "success",
			Session: Session{ID: "new-id", Title: "Plans"},
		})
	}))

	session, err := client.CreateSession(context.Background(), "Plans")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.ID != "new-id" {
		t.Errorf("expected session ID %q, got %q", "new-id", session.ID)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Chat session not found"})
	}))

	_, err := client.GetSession(context.Background(), "missing")
	if err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRenameSession(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		var req renameSessionRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Title != "Renamed" {
			t.Errorf("expected title %q, got %q", "Renamed", req.Title)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))

	if err := client.RenameSession(context.Background(), "s1", "Renamed"); err != nil {
		t.Fatalf("RenameSession failed: %v", err)
	}
	if gotPath != "/api/chat-sessions/s1/title" {
		t.Errorf("unexpected path %q", gotPath)
	}
}

func TestDeleteSession(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))

	if err := client.DeleteSession(context.Background(), "s1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
}

func TestGetMessages_Pagination(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "50" || q.Get("offset") != "100" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(messagesResponse{
			Messages: []SessionMessage{{ID: "m1", UserID: "user", Message: "hi"}},
			Total:    101,
			HasMore:  false,
		})
	}))

	msgs, err := client.GetMessages(context.Background(), "s1", 50, 100)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Message != "hi" {
		t.Errorf("unexpected messages: %+v", msgs)
	}
}

func TestSendMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SendMessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Message != "describe this" {
			t.Errorf("unexpected message %q", req.Message)
		}
		if len(req.Attachments) != 1 || req.Attachments[0].Name != "photo.png" {
			t.Errorf("unexpected attachments: %+v", req.Attachments)
		}
		json.NewEncoder(w).Encode(SendMessageResponse{Response: "a photo", Model: "llama3.2:3b"})
	}))

	resp, err := client.SendMessage(context.Background(), "s1", SendMessageRequest{
		Message: "describe this",
		Model:   "llama3.2:3b",
		Attachments: []AttachmentPayload{
			{Name: "photo.png", MimeType: "image/png", Size: 42, Data: "aGk="},
		},
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if resp.Response != "a photo" {
		t.Errorf("unexpected response %q", resp.Response)
	}
}

func TestSendMessage_ServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "model crashed"})
	}))

	_, err := client.SendMessage(context.Background(), "s1", SendMessageRequest{Message: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "model crashed" {
		t.Errorf("expected backend detail in error, got %q", err.Error())
	}
}

func TestAvailableModels(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ModelsResponse{
			InstalledModels: []ModelInfo{{Name: "llama3.2:3b", Installed: true}},
			AvailableModels: []ModelInfo{{Name: "mistral:7b", Recommended: true}},
			SystemInfo:      SystemInfo{CPUCount: 8, MemoryGB: 16},
		})
	}))

	resp, err := client.AvailableModels(context.Background())
	if err != nil {
		t.Fatalf("AvailableModels failed: %v", err)
	}
	if len(resp.InstalledModels) != 1 || !resp.InstalledModels[0].Installed {
		t.Errorf("unexpected installed models: %+v", resp.InstalledModels)
	}
	if resp.SystemInfo.CPUCount != 8 {
		t.Errorf("unexpected system info: %+v", resp.SystemInfo)
	}
}

func TestDownloadModel_BackendError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(statusResponse{Status: "error", Message: "disk full"})
	}))

	err := client.DownloadModel(context.Background(), "mistral:7b")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "disk full" {
		t.Errorf("unexpected error %q", err.Error())
	}
}

func TestRemoveModel_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Model not found"})
	}))

	err := client.RemoveModel(context.Background(), "ghost:1b")
	if err != ErrModelNotFound {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	var saved []MemoryEntry
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(memoryResponse{Entries: saved})
		case http.MethodPost:
			var req memoryRequest
			json.NewDecoder(r.Body).Decode(&req)
			saved = req.Entries
			json.NewEncoder(w).Encode(map[string]string{"status": "success"})
		}
	}))

	entries := []MemoryEntry{{Key: "name", Value: "Jesse", Importance: 5}}
	if err := client.SaveMemory(context.Background(), entries); err != nil {
		t.Fatalf("SaveMemory failed: %v", err)
	}

	got, err := client.GetMemory(context.Background())
	if err != nil {
		t.Fatalf("GetMemory failed: %v", err)
	}
	if len(got) != 1 || got[0].Value != "Jesse" {
		t.Errorf("unexpected entries: %+v", got)
	}
}

func TestStatusPoller_RateLimits(t *testing.T) {
	var calls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(DownloadStatus{Status: "downloading", Progress: "40%"})
	}))

	poller := NewStatusPoller(client)

	// Burst capacity allows the first polls through immediately.
	start := time.Now()
	for i := 0; i < 2; i++ {
		if _, err := poller.Poll(context.Background(), "mistral:7b"); err != nil {
			t.Fatalf("Poll failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("burst polls took too long: %v", elapsed)
	}
	if calls != 2 {
		t.Errorf("expected 2 backend calls, got %d", calls)
	}
}

func TestStatusPoller_Cancelled(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(DownloadStatus{Status: "downloading"})
	}))

	poller := NewStatusPoller(client)
	// Drain the burst so the next poll must wait.
	poller.Poll(context.Background(), "m")
	poller.Poll(context.Background(), "m")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := poller.Poll(ctx, "m"); err == nil {
		t.Fatal("expected error from cancelled poll")
	}
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{})
	cfg := client.GetConfig()
	if cfg.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("unexpected default base URL %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second || cfg.SendTimeout != 120*time.Second {
		t.Errorf("unexpected default timeouts: %+v", cfg)
	}

	nilClient := NewClientWithConfig(nil)
	if nilClient.BaseURL() != "http://127.0.0.1:8000" {
		t.Errorf("nil config did not get defaults")
	}
}
