package chat

import (
	"context"

	"parley/internal/domain/models/chat"
)

// ConversationService manages the set of conversation threads and which one is active.
type ConversationService interface {
	// Current returns the active conversation.
	Current(ctx context.Context) (*chat.Conversation, error)

	// Get returns any known conversation by ID.
	Get(ctx context.Context, id string) (*chat.Conversation, error)

	// List returns sidebar summaries of saved conversations in save order.
	List(ctx context.Context) ([]chat.Summary, error)

	// StartNew saves the active conversation if it has user content and
	// replaces it with a freshly seeded one, which is returned.
	StartNew(ctx context.Context) (*chat.Conversation, error)

	// Switch makes a saved conversation active.
	// Unknown IDs leave the active conversation unchanged.
	Switch(ctx context.Context, id string) (*chat.Conversation, error)

	// Rename sets a conversation title. Blank titles become "Untitled Chat".
	Rename(ctx context.Context, id string, req *RenameRequest) (*chat.Conversation, error)
}

// TurnService runs one user turn against the completion endpoint.
type TurnService interface {
	// Send appends the user message and the assistant reply (or a refusal)
	// to the conversation and returns the messages added by this turn.
	Send(ctx context.Context, req *SendRequest) (*SendResult, error)

	// Busy reports whether a reply is still pending for the conversation.
	Busy(conversationID string) bool
}

// RenameRequest is the DTO for renaming a conversation
type RenameRequest struct {
	Title string `json:"title"`
}

// SendRequest is the DTO for sending a message
type SendRequest struct {
	ConversationID string `json:"-"` // Set by handler from the path
	Content        string `json:"content"`
}

// SendResult is what a turn appended.
type SendResult struct {
	ConversationID string         `json:"conversation_id"`
	Added          []chat.Message `json:"added"`
	// Refused is true when the scope guard answered without calling the model.
	Refused bool `json:"refused"`
}
