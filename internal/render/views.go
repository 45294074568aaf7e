// Package render turns conversations into the views shown in the browser.
package render

import (
	"html/template"

	"parley/internal/domain/models/chat"
)

// CSS classes for message bubbles
const (
	ClassUser      = "user-message"
	ClassAssistant = "assistant-message"
)

// MessageView is a single rendered chat bubble
type MessageView struct {
	Role    chat.Role     `json:"role"`
	Class   string        `json:"class"`
	Content string        `json:"content"`
	HTML    template.HTML `json:"html"`
}

// ConversationView is a conversation ready for display
type ConversationView struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []MessageView `json:"messages"`
}

// SidebarEntry is one saved conversation in the sidebar
type SidebarEntry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// Renderer builds views and pages.
type Renderer struct {
	markdown *Markdown
	page     *template.Template
}

// NewRenderer parses the embedded page template.
func NewRenderer() (*Renderer, error) {
	page, err := parsePage()
	if err != nil {
		return nil, err
	}
	return &Renderer{markdown: NewMarkdown(), page: page}, nil
}

// RenderConversation renders every non-system message in order.
func (r *Renderer) RenderConversation(conv *chat.Conversation) ConversationView {
	return ConversationView{
		ID:       conv.ID,
		Title:    conv.Title,
		Messages: r.RenderMessages(conv.Messages),
	}
}

// RenderMessages renders a slice of messages, skipping system messages.
func (r *Renderer) RenderMessages(msgs []chat.Message) []MessageView {
	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == chat.RoleSystem {
			continue
		}
		views = append(views, MessageView{
			Role:    m.Role,
			Class:   classFor(m.Role),
			Content: m.Content,
			HTML:    r.markdown.ToHTML(m.Content),
		})
	}
	return views
}

// Sidebar marks the active entry. Order is preserved.
func (r *Renderer) Sidebar(summaries []chat.Summary, activeID string) []SidebarEntry {
	entries := make([]SidebarEntry, 0, len(summaries))
	for _, s := range summaries {
		entries = append(entries, SidebarEntry{
			ID:     s.ID,
			Title:  s.Title,
			Active: s.ID == activeID,
		})
	}
	return entries
}

func classFor(role chat.Role) string {
	if role == chat.RoleUser {
		return ClassUser
	}
	return ClassAssistant
}
