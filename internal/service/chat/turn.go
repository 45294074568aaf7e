package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"parley/internal/config"
	"parley/internal/domain"
	chatModels "parley/internal/domain/models/chat"
	"parley/internal/domain/repositories"
	chatSvc "parley/internal/domain/services/chat"
	llmSvc "parley/internal/domain/services/llm"
	"parley/internal/persona"
)

// NoReplyMessage is appended when the endpoint answers without any content.
const NoReplyMessage = "Sorry, I didn't receive a valid response from the model."

// TurnController implements the TurnService interface.
type TurnController struct {
	repo     repositories.ConversationRepository
	persona  *persona.Persona
	provider llmSvc.Provider
	model    string
	timeout  time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

var _ chatSvc.TurnService = (*TurnController)(nil)

// NewTurnController creates a turn controller bound to one provider and model.
// A zero timeout leaves the completion call bounded only by the provider client.
func NewTurnController(
	repo repositories.ConversationRepository,
	p *persona.Persona,
	provider llmSvc.Provider,
	model string,
	timeout time.Duration,
	logger *slog.Logger,
) *TurnController {
	return &TurnController{
		repo:     repo,
		persona:  p,
		provider: provider,
		model:    model,
		timeout:  timeout,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// Send runs one turn. The completion call is detached from the caller's
// cancellation: once the user message is appended, an assistant message
// always follows.
func (t *TurnController) Send(ctx context.Context, req *chatSvc.SendRequest) (*chatSvc.SendResult, error) {
	content := strings.TrimSpace(req.Content)
	if err := validateContent(content); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Existence check before taking the in-flight slot
	if _, err := t.repo.Get(ctx, req.ConversationID); err != nil {
		return nil, err
	}

	if !t.acquire(req.ConversationID) {
		return nil, &domain.BusyError{ConversationID: req.ConversationID}
	}
	defer t.release(req.ConversationID)

	if t.persona.IsOutOfScope(content) {
		refusal := chatModels.Message{Role: chatModels.RoleAssistant, Content: t.persona.Refusal}
		if _, err := t.repo.AppendMessages(ctx, req.ConversationID, refusal); err != nil {
			return nil, err
		}

		t.logger.Info("turn refused",
			"conversation_id", req.ConversationID,
		)

		return &chatSvc.SendResult{
			ConversationID: req.ConversationID,
			Added:          []chatModels.Message{refusal},
			Refused:        true,
		}, nil
	}

	userMsg := chatModels.Message{Role: chatModels.RoleUser, Content: content}
	conv, err := t.repo.AppendMessages(ctx, req.ConversationID, userMsg)
	if err != nil {
		return nil, err
	}

	reply := t.complete(context.WithoutCancel(ctx), conv)

	assistantMsg := chatModels.Message{Role: chatModels.RoleAssistant, Content: reply}
	if _, err := t.repo.AppendMessages(context.WithoutCancel(ctx), req.ConversationID, assistantMsg); err != nil {
		return nil, err
	}

	return &chatSvc.SendResult{
		ConversationID: req.ConversationID,
		Added:          []chatModels.Message{userMsg, assistantMsg},
	}, nil
}

// complete calls the provider once and turns every outcome into assistant text.
func (t *TurnController) complete(ctx context.Context, conv *chatModels.Conversation) string {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	history := BuildHistory(conv, t.persona.SystemPrompt)
	start := time.Now()

	resp, err := t.provider.Complete(ctx, &llmSvc.CompletionRequest{
		Model:    t.model,
		Messages: history,
	})
	if err != nil {
		t.logger.Error("completion failed",
			"conversation_id", conv.ID,
			"provider", t.provider.Name(),
			"model", t.model,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return ErrorReply(err)
	}

	t.logger.Info("turn completed",
		"conversation_id", conv.ID,
		"provider", t.provider.Name(),
		"model", resp.Model,
		"messages", len(history),
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if strings.TrimSpace(resp.Content) == "" {
		return NoReplyMessage
	}
	return resp.Content
}

// ErrorReply renders a failed completion as the literal text shown in the chat.
func ErrorReply(err error) string {
	var providerErr *llmSvc.ProviderError
	if errors.As(err, &providerErr) {
		if strings.TrimSpace(providerErr.Message) == "" {
			return "Error: Unknown error"
		}
		return "Error: " + providerErr.Message
	}
	return "Error: " + err.Error()
}

func (t *TurnController) acquire(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.inFlight[id]; busy {
		return false
	}
	t.inFlight[id] = struct{}{}
	return true
}

func (t *TurnController) release(id string) {
	t.mu.Lock()
	delete(t.inFlight, id)
	t.mu.Unlock()
}

// Busy reports whether a send is in flight for the conversation.
func (t *TurnController) Busy(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, busy := t.inFlight[id]
	return busy
}

func validateContent(content string) error {
	return validation.Validate(content,
		validation.Required.Error("content is required"),
		validation.RuneLength(1, config.MaxMessageLength),
	)
}
