package anthropic

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"parley/internal/domain/models/chat"
	llmSvc "parley/internal/domain/services/llm"
)

// buildParams converts a completion request to Anthropic SDK format.
// System messages are hoisted into the top-level system field since the
// Messages API only accepts user and assistant turns.
func buildParams(req *llmSvc.CompletionRequest) (anthropic.MessageNewParams, error) {
	var system []anthropic.TextBlockParam
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))

	for i, msg := range req.Messages {
		switch msg.Role {
		case chat.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case chat.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case chat.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	return anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: defaultMaxTokens,
		Messages:  messages,
		System:    system,
	}, nil
}

// convertFromAnthropicResponse joins the text blocks of a reply.
// Thinking and tool blocks are ignored.
func convertFromAnthropicResponse(msg *anthropic.Message) *llmSvc.CompletionResponse {
	var sb strings.Builder
	for _, content := range msg.Content {
		if content.Type != "text" {
			continue
		}
		sb.WriteString(content.Text)
	}

	return &llmSvc.CompletionResponse{
		Content:      sb.String(),
		Model:        string(msg.Model),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}
}
