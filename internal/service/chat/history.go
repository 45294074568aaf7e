package chat

import (
	chatModels "parley/internal/domain/models/chat"
)

// BuildHistory assembles the messages sent to the completion endpoint:
// the whole conversation in order, guaranteed to open with the system prompt.
// Blank messages are dropped; providers reject empty content.
func BuildHistory(conv *chatModels.Conversation, systemPrompt string) []chatModels.Message {
	history := make([]chatModels.Message, 0, len(conv.Messages)+1)

	if len(conv.Messages) == 0 || conv.Messages[0].Role != chatModels.RoleSystem {
		if systemPrompt != "" {
			history = append(history, chatModels.Message{Role: chatModels.RoleSystem, Content: systemPrompt})
		}
	}

	for _, msg := range conv.Messages {
		if msg.Content == "" {
			continue
		}
		history = append(history, msg)
	}

	return history
}
