// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jeranaias/haven-tui/internal/attachment"
	"github.com/jeranaias/haven-tui/internal/backend"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// ATTACHMENT METADATA
// =============================================================================

// AttachmentMeta is a lightweight record of a file sent with a message.
// The bytes themselves are not retained once the message is sent.
type AttachmentMeta struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Image    bool   `json:"image"`
}

// DisplaySize returns a human-readable size string.
func (a AttachmentMeta) DisplaySize() string {
	return humanize.IBytes(uint64(a.Size))
}

// MetaFor converts staged attachments into message metadata.
func MetaFor(atts []attachment.Attachment) []AttachmentMeta {
	if len(atts) == 0 {
		return nil
	}
	meta := make([]AttachmentMeta, len(atts))
	for i, att := range atts {
		meta[i] = AttachmentMeta{
			Name:     att.Name,
			MimeType: att.MimeType,
			Size:     att.Size,
			Image:    att.IsImage(),
		}
	}
	return meta
}

// PayloadsFor reads staged attachments and encodes them for transmission.
// A file that cannot be read fails the whole batch; a partial upload would
// silently drop content the user believes they sent.
func PayloadsFor(atts []attachment.Attachment) ([]backend.AttachmentPayload, error) {
	if len(atts) == 0 {
		return nil, nil
	}
	payloads := make([]backend.AttachmentPayload, 0, len(atts))
	for _, att := range atts {
		rc, err := att.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, backend.AttachmentPayload{
			Name:     att.Name,
			MimeType: att.MimeType,
			Size:     att.Size,
			Data:     base64.StdEncoding.EncodeToString(data),
		})
	}
	return payloads, nil
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Model that produced the message (assistant messages)
	Model string `json:"model,omitempty"`

	// Files sent with the message (user messages)
	Attachments []AttachmentMeta `json:"attachments,omitempty"`

	// Pending marks an assistant message whose reply has not arrived yet.
	// Not persisted; a reload drops pending placeholders.
	Pending bool `json:"-"`

	// Failed marks an assistant placeholder whose request errored.
	Failed bool `json:"-"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message carrying attachment metadata.
func NewUserMessage(content string, atts []AttachmentMeta) *Message {
	msg := NewMessage(RoleUser, content)
	msg.Attachments = atts
	return msg
}

// NewPendingAssistantMessage creates a placeholder for a reply in flight.
func NewPendingAssistantMessage() *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		Pending:   true,
	}
}

// NewSystemMessage creates a system notice shown inline in the transcript.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// FromSessionMessage converts a stored backend message.
func FromSessionMessage(sm backend.SessionMessage) *Message {
	role := RoleAssistant
	if sm.UserID == "user" {
		role = RoleUser
	}
	return &Message{
		ID:        sm.ID,
		Role:      role,
		Content:   sm.Message,
		Model:     sm.Model,
		Timestamp: sm.Timestamp,
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Resolve fills in a pending assistant placeholder with the reply.
func (m *Message) Resolve(content, modelName string) {
	if !m.Pending {
		return
	}
	m.Content = content
	m.Model = modelName
	m.Pending = false
}

// Fail marks a pending assistant placeholder as errored, keeping the
// notice as its content.
func (m *Message) Fail(notice string) {
	if !m.Pending {
		return
	}
	m.Content = notice
	m.Pending = false
	m.Failed = true
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// HasAttachments reports whether files were sent with the message.
func (m *Message) HasAttachments() bool {
	return len(m.Attachments) > 0
}

// EstimateTokens gives a rough estimate of token count.
// Uses the approximation of ~4 characters per token.
func (m *Message) EstimateTokens() int {
	return (len(m.Content) + 3) / 4
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
