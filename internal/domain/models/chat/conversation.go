package chat

import (
	"strings"
	"time"
)

// Role tags who authored a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged text message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is one named chat thread.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is the sidebar view of a saved conversation.
type Summary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Clone returns a deep copy; callers outside the repository never share
// the backing message slice.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	out.Messages = append([]Message(nil), c.Messages...)
	return &out
}

// Summary returns the sidebar entry for the conversation.
func (c *Conversation) Summary() Summary {
	return Summary{ID: c.ID, Title: c.Title}
}

// FirstUserMessage returns the first user message with non-blank content.
func (c *Conversation) FirstUserMessage() (Message, bool) {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && strings.TrimSpace(msg.Content) != "" {
			return msg, true
		}
	}
	return Message{}, false
}
