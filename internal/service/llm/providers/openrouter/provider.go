// Package openrouter talks to OpenRouter's OpenAI-compatible chat completions endpoint.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"

	"parley/internal/domain/models/chat"
	llmSvc "parley/internal/domain/services/llm"
)

// Options configures the OpenRouter client.
type Options struct {
	APIKey  string
	BaseURL string // e.g. https://openrouter.ai/api/v1
	SiteURL string // sent as HTTP-Referer, optional
	AppName string // sent as X-Title, optional
}

// Provider implements the completion Provider interface for OpenRouter.
type Provider struct {
	client *openai.Client
}

// NewProvider creates an OpenRouter provider.
func NewProvider(opts Options) (*Provider, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	cfg.HTTPClient = &http.Client{
		Transport: &attributionTransport{
			base:    &errorBodyTransport{base: http.DefaultTransport},
			siteURL: opts.SiteURL,
			appName: opts.AppName,
		},
	}

	return &Provider{client: openai.NewClientWithConfig(cfg)}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "openrouter"
}

// SupportsModel accepts any vendor/model slug.
func (p *Provider) SupportsModel(model string) bool {
	return strings.Contains(model, "/")
}

// Complete posts the full message array and returns the first choice.
// A response with no choices yields empty content.
func (p *Provider) Complete(ctx context.Context, req *llmSvc.CompletionRequest) (*llmSvc.CompletionResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by OpenRouter provider", req.Model)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: toOpenAIMessages(req.Messages),
	})
	if err != nil {
		return nil, toProviderError(err)
	}

	out := &llmSvc.CompletionResponse{
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
	}
	return out, nil
}

func toOpenAIMessages(messages []chat.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}

// toProviderError maps an error object in the response body to a ProviderError.
// Anything else (network failure, undecodable body) is returned wrapped.
func toProviderError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &llmSvc.ProviderError{
			Provider:   "openrouter",
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
		}
	}
	return err
}

// attributionTransport adds OpenRouter's optional app attribution headers.
type attributionTransport struct {
	base    http.RoundTripper
	siteURL string
	appName string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.siteURL == "" && t.appName == "" {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	if t.siteURL != "" {
		req.Header.Set("HTTP-Referer", t.siteURL)
	}
	if t.appName != "" {
		req.Header.Set("X-Title", t.appName)
	}
	return t.base.RoundTrip(req)
}

// errorBodyTransport turns a 2xx response carrying an {"error": {...}} object
// into a failure status, so the client reports it as an APIError instead of
// an empty choice list. OpenRouter does this for upstream rate limits.
type errorBodyTransport struct {
	base http.RoundTripper
}

func (t *errorBodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read openrouter response: %w", err)
	}

	if errObj := gjson.GetBytes(body, "error"); errObj.IsObject() {
		status := int(errObj.Get("code").Int())
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		body, err = json.Marshal(map[string]any{
			"error": map[string]any{
				"message": errObj.Get("message").String(),
				"code":    status,
			},
		})
		if err != nil {
			return nil, err
		}
		resp.StatusCode = status
		resp.Status = fmt.Sprintf("%d %s", status, http.StatusText(status))
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Del("Content-Length")
	return resp, nil
}
