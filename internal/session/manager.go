// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/model"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager tracks the session list and the currently open session.
type Manager struct {
	mu sync.Mutex

	client *backend.Client

	// Session list, newest first, as last reported by the backend
	sessions []backend.SessionSummary
	loaded   bool

	// Currently open session ("" when on a fresh unsaved chat)
	currentID string

	// Draft auto-save
	autoSaveEnabled  bool
	autoSaveInterval time.Duration
	lastAutoSave     time.Time
	isDirty          bool
	onAutoSave       func() error

	onChange []func()
}

// Config holds configuration for the session manager.
type Config struct {
	// AutoSaveEnabled enables periodic draft saving
	AutoSaveEnabled bool

	// AutoSaveInterval is how often to save drafts (default: 30 seconds)
	AutoSaveInterval time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		AutoSaveEnabled:  true,
		AutoSaveInterval: 30 * time.Second,
	}
}

// NewManager creates a new session manager.
func NewManager(client *backend.Client, cfg Config) *Manager {
	return &Manager{
		client:           client,
		autoSaveEnabled:  cfg.AutoSaveEnabled,
		autoSaveInterval: cfg.AutoSaveInterval,
		lastAutoSave:     time.Now(),
	}
}

// OnChange registers a callback invoked after every session-list change.
// Callbacks run synchronously and must not call back into the manager.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	m.onChange = append(m.onChange, fn)
	m.mu.Unlock()
}

func (m *Manager) notify() {
	m.mu.Lock()
	observers := make([]func(), len(m.onChange))
	copy(observers, m.onChange)
	m.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// =============================================================================
// SESSION LIST
// =============================================================================

// Refresh fetches the session list from the backend.
func (m *Manager) Refresh(ctx context.Context) error {
	sessions, err := m.client.ListSessions(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.sessions = sessions
	m.loaded = true
	m.mu.Unlock()

	m.notify()
	return nil
}

// Sessions returns the latest session list.
func (m *Manager) Sessions() []backend.SessionSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]backend.SessionSummary, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// Loaded reports whether the list has been fetched at least once.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Count returns the number of known sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CurrentID returns the open session's ID, or "" for a fresh chat.
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// Open loads a session and makes it current.
func (m *Manager) Open(ctx context.Context, id, modelName string) (*model.Conversation, error) {
	session, err := m.client.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.currentID = id
	m.isDirty = false
	m.mu.Unlock()

	return model.FromSession(session, modelName), nil
}

// Create makes a new backend session and opens it.
func (m *Manager) Create(ctx context.Context, title, modelName string) (*model.Conversation, error) {
	session, err := m.client.CreateSession(ctx, title)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.currentID = session.ID
	m.sessions = append([]backend.SessionSummary{{
		ID:        session.ID,
		Title:     session.Title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}}, m.sessions...)
	m.mu.Unlock()

	m.notify()
	return model.FromSession(session, modelName), nil
}

// Rename updates a session title on the backend and in the local list.
func (m *Manager) Rename(ctx context.Context, id, title string) error {
	if err := m.client.RenameSession(ctx, id, title); err != nil {
		return err
	}

	m.mu.Lock()
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions[i].Title = title
			m.sessions[i].UpdatedAt = time.Now()
			break
		}
	}
	m.mu.Unlock()

	m.notify()
	return nil
}

// Delete removes a session. Deleting the open session leaves no session
// current; the caller starts a fresh chat.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.client.DeleteSession(ctx, id); err != nil {
		return err
	}

	m.mu.Lock()
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			break
		}
	}
	if m.currentID == id {
		m.currentID = ""
	}
	m.mu.Unlock()

	m.notify()
	return nil
}

// Detach clears the current session without touching the backend,
// used when starting a fresh chat.
func (m *Manager) Detach() {
	m.mu.Lock()
	m.currentID = ""
	m.isDirty = false
	m.mu.Unlock()
}

// =============================================================================
// DRAFT TRACKING
// =============================================================================

// MarkDirty indicates the compose draft has unsaved changes.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = true
}

// MarkClean indicates the draft has been saved.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = false
	m.lastAutoSave = time.Now()
}

// IsDirty returns whether the draft has unsaved changes.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDirty
}

// SetAutoSaveCallback sets the function called to persist the draft.
func (m *Manager) SetAutoSaveCallback(fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAutoSave = fn
}

// ShouldAutoSave returns true if a draft save is due.
func (m *Manager) ShouldAutoSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.autoSaveEnabled || !m.isDirty {
		return false
	}

	return time.Since(m.lastAutoSave) >= m.autoSaveInterval
}

// Check runs a due auto-save, if any. Returns true if a save happened.
func (m *Manager) Check() bool {
	m.mu.Lock()
	due := m.autoSaveEnabled && m.isDirty &&
		time.Since(m.lastAutoSave) >= m.autoSaveInterval
	onAutoSave := m.onAutoSave
	m.mu.Unlock()

	if !due || onAutoSave == nil {
		return false
	}
	if err := onAutoSave(); err != nil {
		return false
	}
	m.MarkClean()
	return true
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to drive draft auto-save.
type TickMsg struct {
	Time time.Time
}

// AutoSaveMsg indicates a draft save just happened.
type AutoSaveMsg struct{}

// TickCmd returns a command that ticks periodically.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick processes a tick and returns appropriate messages.
func (m *Manager) HandleTick() tea.Cmd {
	var cmds []tea.Cmd

	if m.Check() {
		cmds = append(cmds, func() tea.Msg {
			return AutoSaveMsg{}
		})
	}

	cmds = append(cmds, TickCmd())

	return tea.Batch(cmds...)
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetAutoSaveEnabled enables or disables draft auto-save.
func (m *Manager) SetAutoSaveEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoSaveEnabled = enabled
}

// SetAutoSaveInterval updates the auto-save interval.
func (m *Manager) SetAutoSaveInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoSaveInterval = d
}
