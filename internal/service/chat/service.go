package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"parley/internal/config"
	"parley/internal/domain"
	chatModels "parley/internal/domain/models/chat"
	"parley/internal/domain/repositories"
	chatSvc "parley/internal/domain/services/chat"
	"parley/internal/persona"
)

// Service implements the ConversationService interface.
// It owns the pointer to the active conversation; the repository owns the records.
type Service struct {
	repo    repositories.ConversationRepository
	persona *persona.Persona
	logger  *slog.Logger

	// mu serialises state transitions (new chat, switch) so the
	// save-then-replace sequence is atomic with respect to other requests.
	mu       sync.Mutex
	activeID string
}

var _ chatSvc.ConversationService = (*Service)(nil)

// NewService creates the conversation service with a freshly seeded active conversation.
func NewService(
	ctx context.Context,
	repo repositories.ConversationRepository,
	p *persona.Persona,
	logger *slog.Logger,
) (*Service, error) {
	s := &Service{
		repo:    repo,
		persona: p,
		logger:  logger,
	}

	conv, err := s.createSeeded(ctx)
	if err != nil {
		return nil, err
	}
	s.activeID = conv.ID

	return s, nil
}

// Current returns the active conversation
func (s *Service) Current(ctx context.Context) (*chatModels.Conversation, error) {
	s.mu.Lock()
	id := s.activeID
	s.mu.Unlock()

	return s.repo.Get(ctx, id)
}

// Get returns a conversation by ID
func (s *Service) Get(ctx context.Context, id string) (*chatModels.Conversation, error) {
	return s.repo.Get(ctx, id)
}

// List returns sidebar summaries in save order
func (s *Service) List(ctx context.Context) ([]chatModels.Summary, error) {
	saved, err := s.repo.ListSaved(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]chatModels.Summary, 0, len(saved))
	for i := range saved {
		summaries = append(summaries, saved[i].Summary())
	}
	return summaries, nil
}

// StartNew saves the active conversation (when it has content beyond the seed)
// and replaces it with a freshly seeded one.
func (s *Service) StartNew(ctx context.Context) (*chatModels.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.retireActive(ctx); err != nil {
		return nil, err
	}

	conv, err := s.createSeeded(ctx)
	if err != nil {
		return nil, err
	}
	s.activeID = conv.ID

	s.logger.Info("conversation started", "id", conv.ID)

	return conv, nil
}

// Switch makes a saved conversation active.
func (s *Service) Switch(ctx context.Context, id string) (*chatModels.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if id == s.activeID {
		return target, nil
	}

	saved, err := s.repo.IsSaved(ctx, id)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, fmt.Errorf("conversation %s is not in the sidebar: %w", id, domain.ErrNotFound)
	}

	if err := s.retireActive(ctx); err != nil {
		return nil, err
	}
	s.activeID = id

	s.logger.Info("conversation switched", "id", id)

	return target, nil
}

// Rename sets a conversation's title
func (s *Service) Rename(ctx context.Context, id string, req *chatSvc.RenameRequest) (*chatModels.Conversation, error) {
	req = &chatSvc.RenameRequest{Title: strings.TrimSpace(req.Title)}
	if err := s.validateRenameRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	title := req.Title
	if title == "" {
		title = UntitledTitle
	}

	conv, err := s.repo.UpdateTitle(ctx, id, title)
	if err != nil {
		return nil, err
	}

	s.logger.Info("conversation renamed",
		"id", id,
		"title", title,
	)

	return conv, nil
}

// retireActive keeps the active conversation in the sidebar if it grew past its
// seed messages, and otherwise drops it. Caller holds s.mu.
func (s *Service) retireActive(ctx context.Context) error {
	deleted, err := s.repo.DeleteIfUnchanged(ctx, s.activeID, len(s.persona.SeedMessages()))
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}

	active, err := s.repo.Get(ctx, s.activeID)
	if err != nil {
		return err
	}

	if active.Title == "" {
		if _, err := s.repo.UpdateTitle(ctx, active.ID, GenerateTitle(active)); err != nil {
			return err
		}
	}

	added, err := s.repo.MarkSaved(ctx, active.ID)
	if err != nil {
		return err
	}
	if added {
		s.logger.Debug("conversation saved", "id", active.ID)
	}
	return nil
}

func (s *Service) createSeeded(ctx context.Context) (*chatModels.Conversation, error) {
	conv := &chatModels.Conversation{
		ID:       uuid.NewString(),
		Messages: s.persona.SeedMessages(),
	}
	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return s.repo.Get(ctx, conv.ID)
}

// Validation methods

func (s *Service) validateRenameRequest(req *chatSvc.RenameRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.RuneLength(0, config.MaxConversationTitleLength),
		),
	)
}
