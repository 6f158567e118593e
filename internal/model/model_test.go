// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/haven-tui/internal/attachment"
	"github.com/jeranaias/haven-tui/internal/backend"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	meta := []AttachmentMeta{{Name: "report.pdf", MimeType: "application/pdf", Size: 1024}}
	msg := NewUserMessage("check this", meta)

	if msg.Role != RoleUser {
		t.Errorf("Role = %v, want %v", msg.Role, RoleUser)
	}
	if msg.Content != "check this" {
		t.Errorf("Content = %q", msg.Content)
	}
	if !msg.HasAttachments() {
		t.Error("expected message to carry attachments")
	}
	if msg.ID == "" || !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("unexpected ID %q", msg.ID)
	}
}

func TestMessage_ResolvePending(t *testing.T) {
	msg := NewPendingAssistantMessage()
	if !msg.Pending {
		t.Fatal("new placeholder should be pending")
	}

	msg.Resolve("hello there", "llama3.2:3b")
	if msg.Pending {
		t.Error("resolved message should not be pending")
	}
	if msg.Content != "hello there" || msg.Model != "llama3.2:3b" {
		t.Errorf("unexpected resolved message: %+v", msg)
	}

	// Resolving again is a no-op.
	msg.Resolve("overwritten", "other")
	if msg.Content != "hello there" {
		t.Error("second resolve should not overwrite content")
	}
}

func TestMessage_Fail(t *testing.T) {
	msg := NewPendingAssistantMessage()
	msg.Fail("backend is not reachable")

	if msg.Pending {
		t.Error("failed message should not be pending")
	}
	if !msg.Failed {
		t.Error("failed message should be marked failed")
	}
	if msg.Content != "backend is not reachable" {
		t.Errorf("Content = %q", msg.Content)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewMessage(RoleUser, "short")
	if got := msg.Preview(50); got != "short" {
		t.Errorf("Preview = %q", got)
	}

	long := NewMessage(RoleUser, strings.Repeat("a", 100))
	got := long.Preview(10)
	if len([]rune(got)) != 10 {
		t.Errorf("Preview length = %d, want 10", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Preview = %q, want ellipsis suffix", got)
	}

	// Unicode content must truncate on rune boundaries.
	unicode := NewMessage(RoleUser, strings.Repeat("日本語", 20))
	if got := unicode.Preview(10); !strings.HasSuffix(got, "...") {
		t.Errorf("Preview = %q", got)
	}
}

func TestFromSessionMessage(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	user := FromSessionMessage(backend.SessionMessage{
		ID: "m1", UserID: "user", Message: "hi", Timestamp: ts,
	})
	if user.Role != RoleUser || user.Content != "hi" || !user.Timestamp.Equal(ts) {
		t.Errorf("unexpected user message: %+v", user)
	}

	assistant := FromSessionMessage(backend.SessionMessage{
		ID: "m2", UserID: "assistant", Message: "hello", Model: "mistral:7b",
	})
	if assistant.Role != RoleAssistant || assistant.Model != "mistral:7b" {
		t.Errorf("unexpected assistant message: %+v", assistant)
	}
}

// =============================================================================
// ATTACHMENT CONVERSION TESTS
// =============================================================================

func TestPayloadsFor(t *testing.T) {
	ref := attachment.FileRefFromBytes("notes.txt", "text/plain", []byte("hello world"))
	store := attachment.NewStore()
	ing := attachment.NewIngestor(store, nil)
	res := ing.Ingest([]attachment.FileRef{ref})
	if len(res.Accepted) != 1 {
		t.Fatalf("expected 1 accepted attachment, got %d", len(res.Accepted))
	}

	payloads, err := PayloadsFor(store.Items())
	if err != nil {
		t.Fatalf("PayloadsFor failed: %v", err)
	}
	if len(payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(payloads))
	}

	p := payloads[0]
	if p.Name != "notes.txt" || p.MimeType != "text/plain" || p.Size != 11 {
		t.Errorf("unexpected payload metadata: %+v", p)
	}
	decoded, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		t.Fatalf("payload data is not valid base64: %v", err)
	}
	if string(decoded) != "hello world" {
		t.Errorf("decoded payload = %q", decoded)
	}
}

func TestPayloadsFor_Empty(t *testing.T) {
	payloads, err := PayloadsFor(nil)
	if err != nil {
		t.Fatalf("PayloadsFor(nil) failed: %v", err)
	}
	if payloads != nil {
		t.Errorf("expected nil payloads, got %v", payloads)
	}
}

func TestMetaFor(t *testing.T) {
	ref := attachment.FileRefFromBytes("shot.png", "image/png", []byte{0x89, 0x50})
	store := attachment.NewStore()
	attachment.NewIngestor(store, nil).Ingest([]attachment.FileRef{ref})

	meta := MetaFor(store.Items())
	if len(meta) != 1 {
		t.Fatalf("expected 1 meta entry, got %d", len(meta))
	}
	if meta[0].Name != "shot.png" || !meta[0].Image {
		t.Errorf("unexpected meta: %+v", meta[0])
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AddAndResolve(t *testing.T) {
	conv := NewConversationWithModel("llama3.2:3b")

	conv.AddUserMessage("hello", nil)
	placeholder := conv.AddPendingAssistant()

	if !conv.HasPending() {
		t.Fatal("expected a pending reply")
	}
	if conv.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", conv.MessageCount())
	}

	if !conv.ResolvePending("hi!", "llama3.2:3b") {
		t.Fatal("ResolvePending returned false")
	}
	if conv.HasPending() {
		t.Error("pending flag should clear after resolve")
	}
	if placeholder.Content != "hi!" {
		t.Errorf("placeholder content = %q", placeholder.Content)
	}

	// No placeholder left to resolve.
	if conv.ResolvePending("again", "m") {
		t.Error("expected ResolvePending to return false with nothing pending")
	}
}

func TestConversation_FailPending(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("hello", nil)
	conv.AddPendingAssistant()

	if !conv.FailPending("request timed out") {
		t.Fatal("FailPending returned false")
	}
	last := conv.GetLastMessage()
	if !last.Failed || last.Content != "request timed out" {
		t.Errorf("unexpected failed message: %+v", last)
	}
}

func TestConversation_TitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation()
	if conv.GetTitle() != "New Chat" {
		t.Errorf("default title = %q", conv.GetTitle())
	}

	conv.AddSystemMessage("connected")
	conv.AddUserMessage("plan my week", nil)
	if conv.Title != "plan my week" {
		t.Errorf("auto title = %q", conv.Title)
	}

	conv.AddUserMessage("something else", nil)
	if conv.Title != "plan my week" {
		t.Error("title should not change after first user message")
	}

	conv.SetTitle("Weekly planning")
	if conv.GetTitle() != "Weekly planning" {
		t.Errorf("manual title = %q", conv.GetTitle())
	}
}

func TestFromSession(t *testing.T) {
	session := &backend.Session{
		ID:    "s1",
		Title: "Saved chat",
		Messages: []backend.SessionMessage{
			{ID: "m1", UserID: "user", Message: "hi"},
			{ID: "m2", UserID: "assistant", Message: "hello", Model: "mistral:7b"},
		},
	}

	conv := FromSession(session, "mistral:7b")
	if conv.SessionID != "s1" || conv.Title != "Saved chat" {
		t.Errorf("unexpected conversation: %+v", conv)
	}
	if conv.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d", conv.MessageCount())
	}
	if conv.Messages[0].Role != RoleUser || conv.Messages[1].Role != RoleAssistant {
		t.Error("roles not mapped from stored messages")
	}
}

func TestConversation_Prune(t *testing.T) {
	conv := NewConversation()
	conv.AddSystemMessage("connected")
	for i := 0; i < MaxMessages+10; i++ {
		conv.AddMessage(NewMessage(RoleUser, "m"))
	}

	if conv.MessageCount() != MaxMessages+1 {
		t.Errorf("MessageCount = %d, want %d", conv.MessageCount(), MaxMessages+1)
	}
	if conv.Messages[0].Role != RoleSystem {
		t.Error("system notice should survive pruning")
	}
}

func TestConversation_Clone(t *testing.T) {
	conv := NewConversationWithModel("llama3.2:3b")
	conv.AddUserMessage("original", nil)

	clone := conv.Clone()
	clone.Messages[0].Content = "mutated"

	if conv.Messages[0].Content != "original" {
		t.Error("mutating clone affected the original")
	}
}

func TestConversation_SendRequest(t *testing.T) {
	conv := NewConversationWithModel("mistral:7b")
	req := conv.SendRequest("describe", []backend.AttachmentPayload{{Name: "a.png"}})

	if req.Message != "describe" || req.Model != "mistral:7b" {
		t.Errorf("unexpected request: %+v", req)
	}
	if len(req.Attachments) != 1 {
		t.Errorf("attachments not carried: %+v", req.Attachments)
	}
}
