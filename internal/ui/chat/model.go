// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the main chat model: state, dependencies, and
// initialization. Message handling lives in update.go, rendering in view.go,
// input submission in input.go, and backend commands in commands.go.
package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/haven-tui/internal/attachment"
	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/inventory"
	"github.com/jeranaias/haven-tui/internal/model"
	"github.com/jeranaias/haven-tui/internal/session"
	"github.com/jeranaias/haven-tui/internal/storage"
	"github.com/jeranaias/haven-tui/internal/ui/components"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

// =============================================================================
// STATE DEFINITIONS
// =============================================================================

// State represents the current state of the chat interface.
type State int

const (
	// StateReady means the interface is ready for input.
	StateReady State = iota
	// StateSending means a message is in flight and a reply is pending.
	StateSending
	// StateError means the last operation failed.
	StateError
)

// Overlay identifies which modal surface is open over the conversation.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayModels
	OverlayHistory
	OverlaySettings
	OverlayError
	OverlayHelp
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Deps bundles the services the chat model drives. All fields except Cache
// and Drops are required.
type Deps struct {
	Client    *backend.Client
	Sessions  *session.Manager
	Inventory *inventory.Inventory
	Cache     *storage.Cache

	Store     *attachment.Store
	Previews  *attachment.PreviewManager
	Ingestor  *attachment.Ingestor
	Clipboard *attachment.Clipboard
	Picker    *attachment.Picker
	Drag      *attachment.DragState
	Drops     *attachment.DropWatcher
}

// Model is the main chat interface model.
type Model struct {
	// Services
	client    *backend.Client
	sessions  *session.Manager
	inventory *inventory.Inventory
	cache     *storage.Cache
	poller    *backend.StatusPoller

	// Attachment pipeline
	store     *attachment.Store
	previews  *attachment.PreviewManager
	ingestor  *attachment.Ingestor
	clipboard *attachment.Clipboard
	picker    *attachment.Picker
	drag      *attachment.DragState
	drops     *attachment.DropWatcher

	// Conversation state
	conversation *model.Conversation
	state        State
	overlay      Overlay
	lastErr      error
	healthy      bool

	// Components
	keys        KeyMap
	viewport    viewport.Model
	input       textinput.Model
	spinner     components.Spinner
	messageList *components.MessageList
	tray        *components.AttachmentTray
	modelPicker *components.ModelPicker
	sessionList *components.SessionList
	memory      *components.MemoryEditor
	statusBar   *components.StatusBar
	errorBox    *components.ErrorBox

	// Layout
	width  int
	height int
	ready  bool

	// Transient notice bookkeeping. Seq guards against a stale expiry
	// clearing a newer notice.
	noticeSeq int

	// Last draft text persisted, to skip redundant writes on ticks.
	savedDraft string

	theme *styles.Theme
}

// New creates a chat model wired to the given services.
func New(theme *styles.Theme, deps Deps) Model {
	input := textinput.New()
	input.Placeholder = "Type a message, or /help for commands..."
	input.CharLimit = 8000
	input.Width = 70
	input.Focus()

	vp := viewport.New(80, 20)

	m := Model{
		client:    deps.Client,
		sessions:  deps.Sessions,
		inventory: deps.Inventory,
		cache:     deps.Cache,
		poller:    backend.NewStatusPoller(deps.Client),

		store:     deps.Store,
		previews:  deps.Previews,
		ingestor:  deps.Ingestor,
		clipboard: deps.Clipboard,
		picker:    deps.Picker,
		drag:      deps.Drag,
		drops:     deps.Drops,

		conversation: model.NewConversation(),
		state:        StateReady,
		healthy:      true,

		keys:        DefaultKeyMap(),
		viewport:    vp,
		input:       input,
		spinner:     components.NewWaitingSpinner(),
		messageList: components.NewMessageList(theme),
		tray:        components.NewAttachmentTray(theme, deps.Previews),
		modelPicker: components.NewModelPicker(deps.Inventory, theme),
		sessionList: components.NewSessionList(theme),
		memory:      components.NewMemoryEditor(theme),
		statusBar:   components.NewStatusBar(theme),

		theme: theme,
	}

	// Removing an attachment releases its preview resources. Registered
	// here so every removal path (remove key, clear, send) is covered.
	if deps.Store != nil && deps.Previews != nil {
		deps.Store.OnRemove(func(a attachment.Attachment) {
			deps.Previews.Release(a.Name)
		})
	}

	if def, ok := deps.Inventory.DefaultModel(); ok {
		m.conversation.Model = def
	}
	m.statusBar.SetModel(m.conversation.Model)
	m.modelPicker.SetActive(m.conversation.Model)

	return m
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Conversation returns the active conversation.
func (m *Model) Conversation() *model.Conversation {
	return m.conversation
}

// State returns the current interface state.
func (m *Model) State() State {
	return m.state
}

// SetDisplayOptions applies the configured display toggles. Compact mode
// drops the status bar shortcut hints.
func (m *Model) SetDisplayOptions(showTimestamps, showModelNames, compact bool) {
	m.messageList.ShowTimestamps = showTimestamps
	m.messageList.ShowModelNames = showModelNames
	m.statusBar.ShowShortcuts = !compact
}

// SessionCount returns the number of saved sessions.
func (m *Model) SessionCount() int {
	return m.sessions.Count()
}

// ActiveModel returns the model name used for the next send.
func (m *Model) ActiveModel() string {
	return m.conversation.Model
}

// SetModelName sets the model used for the next send.
func (m *Model) SetModelName(name string) {
	m.conversation.Model = name
	m.statusBar.SetModel(name)
	m.modelPicker.SetActive(name)
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the background work: health probe, inventory and session
// refresh, drop watching, and the draft auto-save tick.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.checkHealthCmd(),
		m.refreshModelsCmd(),
		m.refreshSessionsCmd(),
		session.TickCmd(),
	}
	if m.drops != nil {
		cmds = append(cmds, m.listenDropsCmd())
	}
	if m.cache != nil {
		cmds = append(cmds, m.loadDraftCmd(m.sessions.CurrentID()))
	}
	return tea.Batch(cmds...)
}

// SetSize updates the layout for a new terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	m.theme.SetSize(width, height)

	// Fixed rows: input line, status bar, spacing.
	chrome := 4
	if m.store.Len() > 0 {
		chrome += m.store.Len() + 2
	}
	vpHeight := height - chrome
	if vpHeight < 3 {
		vpHeight = 3
	}

	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.input.Width = width - 6
	m.messageList.SetWidth(width)
	m.tray.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.modelPicker.SetSize(width, height)
	m.sessionList.SetSize(width, height)
	m.memory.SetWidth(width)

	m.refreshViewport(false)
}

// refreshViewport re-renders the conversation into the viewport.
func (m *Model) refreshViewport(toBottom bool) {
	m.messageList.SetMessages(m.conversation.GetHistory())
	m.viewport.SetContent(m.messageList.View())
	if toBottom {
		m.viewport.GotoBottom()
	}
}

// syncTray pushes the store contents into the tray and status bar.
func (m *Model) syncTray() {
	m.tray.SetItems(m.store.Items())
	m.statusBar.AttachmentCount = m.store.Len()
}

// draftKey returns the draft slot for the open session.
func (m *Model) draftKey() string {
	return m.conversation.SessionID
}
