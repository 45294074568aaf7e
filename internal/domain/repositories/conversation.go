package repositories

import (
	"context"

	"parley/internal/domain/models/chat"
)

// ConversationRepository holds conversation records and the sidebar order.
// Implementations return copies; mutating a returned conversation has no
// effect on stored state.
type ConversationRepository interface {
	// Create stores a new, unsaved conversation.
	Create(ctx context.Context, conv *chat.Conversation) error

	// Get returns a conversation by ID (saved or not).
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*chat.Conversation, error)

	// DeleteIfUnchanged drops an unsaved conversation that still holds at most
	// maxMessages messages. The check and the delete are atomic, so a message
	// appended concurrently keeps the conversation alive. Reports whether it was deleted.
	DeleteIfUnchanged(ctx context.Context, id string, maxMessages int) (bool, error)

	// AppendMessages appends messages in order and returns the updated conversation.
	AppendMessages(ctx context.Context, id string, msgs ...chat.Message) (*chat.Conversation, error)

	// UpdateTitle replaces the title and returns the updated conversation.
	UpdateTitle(ctx context.Context, id, title string) (*chat.Conversation, error)

	// MarkSaved appends the conversation to the sidebar order.
	// Returns false if it was already saved.
	MarkSaved(ctx context.Context, id string) (bool, error)

	// IsSaved reports whether the conversation is in the sidebar.
	IsSaved(ctx context.Context, id string) (bool, error)

	// ListSaved returns saved conversations in save order.
	ListSaved(ctx context.Context) ([]chat.Conversation, error)
}
