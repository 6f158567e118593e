// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/haven-tui/internal/model"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE TESTS
// =============================================================================

func bubbleFor(msg *model.Message) *MessageBubble {
	b := NewMessageBubble(msg, styles.NewThemeWithMode("dark"), NewMarkdown())
	b.SetWidth(100)
	return b
}

func TestUserBubbleShowsContent(t *testing.T) {
	msg := model.NewUserMessage("hello there", nil)
	view := bubbleFor(msg).View()

	if !strings.Contains(view, "hello there") {
		t.Error("user bubble should contain the message text")
	}
}

func TestUserBubbleShowsAttachmentChips(t *testing.T) {
	msg := model.NewUserMessage("see attached", []model.AttachmentMeta{
		{Name: "report.pdf", Size: 2048, MimeType: "application/pdf"},
		{Name: "photo.png", Size: 4096, MimeType: "image/png", Image: true},
	})
	view := bubbleFor(msg).View()

	if !strings.Contains(view, "report.pdf") {
		t.Error("bubble should list the document attachment")
	}
	if !strings.Contains(view, "photo.png") {
		t.Error("bubble should list the image attachment")
	}
	if !strings.Contains(view, "[img]") {
		t.Error("image attachments carry the [img] marker")
	}
}

func TestAssistantBubbleRendersReply(t *testing.T) {
	msg := model.NewMessage(model.RoleAssistant, "Here is the answer.")
	view := bubbleFor(msg).View()

	if !strings.Contains(view, "Here is the answer.") {
		t.Error("assistant bubble should contain the reply")
	}
}

func TestPendingBubble(t *testing.T) {
	msg := model.NewPendingAssistantMessage()
	view := bubbleFor(msg).View()

	if !strings.Contains(view, "thinking") {
		t.Errorf("pending bubble should show the thinking indicator, got %q", view)
	}
}

func TestFailedBubble(t *testing.T) {
	msg := model.NewPendingAssistantMessage()
	msg.Fail("No reply. connection refused")
	view := bubbleFor(msg).View()

	if !strings.Contains(view, "No reply") {
		t.Error("failed bubble should show the failure notice")
	}
}

func TestSystemBubble(t *testing.T) {
	msg := model.NewSystemMessage("History cleared")
	view := bubbleFor(msg).View()

	if !strings.Contains(view, "History cleared") {
		t.Error("system bubble should contain the notice")
	}
}

// =============================================================================
// MESSAGE LIST TESTS
// =============================================================================

func TestMessageListEmptyState(t *testing.T) {
	list := NewMessageList(styles.NewThemeWithMode("dark"))
	list.SetWidth(100)

	if !strings.Contains(list.View(), "No messages yet") {
		t.Error("empty list should show the empty state")
	}
}

func TestMessageListRendersConversation(t *testing.T) {
	conv := model.NewConversation()
	conv.AddUserMessage("what is Go?", nil)
	conv.AddMessage(model.NewMessage(model.RoleAssistant, "A programming language."))

	list := NewMessageList(styles.NewThemeWithMode("dark"))
	list.SetWidth(100)
	list.SetMessages(conv.GetHistory())

	view := list.View()
	if !strings.Contains(view, "what is Go?") {
		t.Error("list should render the user message")
	}
	if !strings.Contains(view, "A programming language.") {
		t.Error("list should render the assistant reply")
	}
}

// =============================================================================
// MARKDOWN TESTS
// =============================================================================

func TestMarkdownRenderFallsBackOnTinyWidth(t *testing.T) {
	md := NewMarkdown()
	out := md.Render("plain text", 50)
	if !strings.Contains(out, "plain text") {
		t.Errorf("rendered output should contain the source text, got %q", out)
	}
}

func TestMarkdownCachesRenderers(t *testing.T) {
	md := NewMarkdown()
	_ = md.Render("# one", 80)
	_ = md.Render("# two", 80)
	_ = md.Render("# three", 60)

	if len(md.renderers) != 2 {
		t.Errorf("renderer cache size = %d, want one per width", len(md.renderers))
	}
}
