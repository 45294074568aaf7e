package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"parley/internal/domain"
	"parley/internal/domain/models/chat"
	"parley/internal/domain/repositories"
)

// ConversationRepository keeps conversations in process memory.
// Nothing survives a restart.
//
// Thread-safe for concurrent access.
type ConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string]*chat.Conversation
	saved         []string // sidebar order
	savedSet      map[string]struct{}
	now           func() time.Time
}

var _ repositories.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates an empty repository.
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		conversations: make(map[string]*chat.Conversation),
		savedSet:      make(map[string]struct{}),
		now:           time.Now,
	}
}

func (r *ConversationRepository) Create(ctx context.Context, conv *chat.Conversation) error {
	if conv == nil || conv.ID == "" {
		return fmt.Errorf("%w: conversation id is required", domain.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conversations[conv.ID]; exists {
		return fmt.Errorf("%w: conversation %s already exists", domain.ErrValidation, conv.ID)
	}

	stored := conv.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	stored.UpdatedAt = stored.CreatedAt
	r.conversations[stored.ID] = stored
	return nil
}

func (r *ConversationRepository) Get(ctx context.Context, id string) (*chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, notFound(id)
	}
	return conv.Clone(), nil
}

func (r *ConversationRepository) DeleteIfUnchanged(ctx context.Context, id string, maxMessages int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return false, notFound(id)
	}
	if _, saved := r.savedSet[id]; saved {
		return false, nil
	}
	if len(conv.Messages) > maxMessages {
		return false, nil
	}
	delete(r.conversations, id)
	return true, nil
}

func (r *ConversationRepository) AppendMessages(ctx context.Context, id string, msgs ...chat.Message) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, notFound(id)
	}
	conv.Messages = append(conv.Messages, msgs...)
	conv.UpdatedAt = r.now()
	return conv.Clone(), nil
}

func (r *ConversationRepository) UpdateTitle(ctx context.Context, id, title string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, notFound(id)
	}
	conv.Title = title
	conv.UpdatedAt = r.now()
	return conv.Clone(), nil
}

func (r *ConversationRepository) MarkSaved(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conversations[id]; !ok {
		return false, notFound(id)
	}
	if _, saved := r.savedSet[id]; saved {
		return false, nil
	}
	r.savedSet[id] = struct{}{}
	r.saved = append(r.saved, id)
	return true, nil
}

func (r *ConversationRepository) IsSaved(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.conversations[id]; !ok {
		return false, notFound(id)
	}
	_, saved := r.savedSet[id]
	return saved, nil
}

func (r *ConversationRepository) ListSaved(ctx context.Context) ([]chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]chat.Conversation, 0, len(r.saved))
	for _, id := range r.saved {
		out = append(out, *r.conversations[id].Clone())
	}
	return out, nil
}

func notFound(id string) error {
	return fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
}
