// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "time"

// =============================================================================
// SESSION TYPES
// =============================================================================

// SessionSummary describes a chat session in list responses.
type SessionSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionMessage is one stored message within a session.
type SessionMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"` // "user" or "assistant"
	Message   string    `json:"message"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a full session with its messages.
type Session struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Messages []SessionMessage `json:"messages"`
}

type sessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

type createSessionRequest struct {
	Title string `json:"title,omitempty"`
}

type createSessionResponse struct {
	Status  string  `json:"status"`
	Session Session `json:"session"`
}

type renameSessionRequest struct {
	Title string `json:"title"`
}

type messagesResponse struct {
	Messages []SessionMessage `json:"messages"`
	Total    int              `json:"total"`
	HasMore  bool             `json:"has_more"`
}

// =============================================================================
// SEND MESSAGE
// =============================================================================

// AttachmentPayload is one staged file transmitted with a message.
// Content travels base64-encoded; the backend decodes and analyzes it.
type AttachmentPayload struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Data     string `json:"data"` // base64
}

// SendMessageRequest carries one outgoing user message.
type SendMessageRequest struct {
	Message     string              `json:"message"`
	Model       string              `json:"model"`
	Attachments []AttachmentPayload `json:"attachments,omitempty"`
}

// SendMessageResponse is the assistant's reply.
type SendMessageResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
}

// =============================================================================
// MODEL TYPES
// =============================================================================

// ModelInfo describes one model in the inventory, with the backend's
// hardware-aware recommendation metadata.
type ModelInfo struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	BestFor        []string `json:"best_for"`
	RecommendedFor string   `json:"recommended_for"`
	Recommended    bool     `json:"recommended"`
	Installed      bool     `json:"installed"`
}

// SystemInfo is the backend host's hardware profile, used to contextualize
// model recommendations.
type SystemInfo struct {
	CPUCount     int     `json:"cpu_count"`
	MemoryGB     float64 `json:"memory_gb"`
	Platform     string  `json:"platform"`
	Architecture string  `json:"architecture"`
}

// ModelsResponse is the full inventory: what is installed, what could be,
// and the hardware it would run on.
type ModelsResponse struct {
	InstalledModels []ModelInfo `json:"installed_models"`
	AvailableModels []ModelInfo `json:"available_models"`
	SystemInfo      SystemInfo  `json:"system_info"`
}

type modelDownloadRequest struct {
	ModelName string `json:"model_name"`
}

// DownloadStatus reports progress for an in-flight model download.
type DownloadStatus struct {
	Status   string `json:"status"`
	Progress string `json:"progress"`
}

// =============================================================================
// MEMORY TYPES
// =============================================================================

// MemoryEntry is one persisted memory fact shown in the settings dialog.
type MemoryEntry struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	Importance int    `json:"importance,omitempty"`
}

type memoryResponse struct {
	Entries []MemoryEntry `json:"entries"`
}

type memoryRequest struct {
	Entries []MemoryEntry `json:"entries"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
