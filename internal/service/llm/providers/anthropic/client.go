package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	llmSvc "parley/internal/domain/services/llm"
)

const defaultMaxTokens = 4096

// Provider implements the completion Provider interface for Anthropic (Claude) models.
type Provider struct {
	client *anthropic.Client
}

// NewProvider creates a new Anthropic provider with the given API key.
// SDK retries are off: each Complete call sends exactly one request.
// Extra request options (base URL, HTTP client) are passed through to the SDK.
func NewProvider(apiKey string, opts ...option.RequestOption) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	client := anthropic.NewClient(append(base, opts...)...)

	return &Provider{
		client: &client,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// SupportsModel returns true if this provider supports the given model.
// Anthropic models start with "claude-"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "claude-")
}

// Complete sends the conversation to the Messages API and returns the text reply.
func (p *Provider) Complete(ctx context.Context, req *llmSvc.CompletionRequest) (*llmSvc.CompletionResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", req.Model)
	}

	params, err := buildParams(req)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, toProviderError(err)
	}

	return convertFromAnthropicResponse(message), nil
}

// toProviderError lifts API error responses into a ProviderError so the
// caller can surface the endpoint's own message. Transport failures pass through.
func toProviderError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("anthropic API call failed: %w", err)
	}
	return &llmSvc.ProviderError{
		Provider:   "anthropic",
		StatusCode: apiErr.StatusCode,
		Message:    errorMessage(apiErr.RawJSON()),
	}
}

// errorMessage pulls error.message out of an Anthropic error body.
func errorMessage(body string) string {
	return gjson.Get(body, "error.message").String()
}
