package anthropic

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"parley/internal/domain/models/chat"
	llmSvc "parley/internal/domain/services/llm"
)

func conversation() []chat.Message {
	return []chat.Message{
		{Role: chat.RoleSystem, Content: "You find cooking classes."},
		{Role: chat.RoleAssistant, Content: "Hi!"},
		{Role: chat.RoleUser, Content: "Sushi in Lisbon?"},
	}
}

func TestBuildParams_HoistsSystemMessages(t *testing.T) {
	params, err := buildParams(&llmSvc.CompletionRequest{Model: "claude-haiku-4-5", Messages: conversation()})
	require.NoError(t, err)

	require.Len(t, params.System, 1)
	assert.Equal(t, "You find cooking classes.", params.System[0].Text)
	require.Len(t, params.Messages, 2)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, params.Messages[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleUser, params.Messages[1].Role)
	assert.Equal(t, int64(defaultMaxTokens), params.MaxTokens)
}

func TestBuildParams_UnknownRole(t *testing.T) {
	_, err := buildParams(&llmSvc.CompletionRequest{
		Model:    "claude-haiku-4-5",
		Messages: []chat.Message{{Role: "tool", Content: "x"}},
	})
	assert.Error(t, err)
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewProvider("test-key", option.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return p
}

func TestComplete(t *testing.T) {
	var body []byte
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "Try the market tour."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 5}
		}`)
	})

	resp, err := p.Complete(context.Background(), &llmSvc.CompletionRequest{Model: "claude-haiku-4-5", Messages: conversation()})
	require.NoError(t, err)
	assert.Equal(t, "Try the market tour.", resp.Content)
	assert.Equal(t, 12, resp.InputTokens)
	assert.Equal(t, 5, resp.OutputTokens)

	assert.Equal(t, "You find cooking classes.", gjson.GetBytes(body, "system.0.text").String())
	assert.Equal(t, int64(2), gjson.GetBytes(body, "messages.#").Int())
}

func TestComplete_APIErrorBecomesProviderError(t *testing.T) {
	var hits atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	})

	_, err := p.Complete(context.Background(), &llmSvc.CompletionRequest{Model: "claude-haiku-4-5", Messages: conversation()})
	var perr *llmSvc.ProviderError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, perr.StatusCode)
	assert.Equal(t, "invalid x-api-key", perr.Message)
	assert.Equal(t, int32(1), hits.Load())
}

func TestSupportsModel(t *testing.T) {
	p, err := NewProvider("k")
	require.NoError(t, err)
	assert.True(t, p.SupportsModel("claude-sonnet-4-5"))
	assert.False(t, p.SupportsModel("lorem-fast"))

	_, err = NewProvider("")
	assert.Error(t, err)
}
