package llm

import (
	"context"
	"fmt"

	"parley/internal/domain/models/chat"
)

// Provider is a hosted completion endpoint.
// One call is one HTTP request/response; no retries, no streaming.
type Provider interface {
	// Complete sends the full message history and returns the assistant reply.
	// Endpoint-reported failures are returned as *ProviderError; anything else
	// is a transport failure.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "openrouter", "anthropic")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

// CompletionRequest contains the parameters for a completion call.
type CompletionRequest struct {
	// Model is the provider-local model identifier
	Model string

	// Messages is the ordered history, system prompt first.
	Messages []chat.Message
}

// CompletionResponse contains the provider's reply.
type CompletionResponse struct {
	// Content is the assistant text; empty when the endpoint returned no choice
	Content string

	// Model is the model that was used (may differ from request if aliased)
	Model string

	InputTokens  int
	OutputTokens int
}

// ProviderError is an error object returned by the completion endpoint itself.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}
