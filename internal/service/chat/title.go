package chat

import (
	"strings"

	"parley/internal/config"
	chatModels "parley/internal/domain/models/chat"
)

// UntitledTitle names conversations without usable user text.
const UntitledTitle = "Untitled Chat"

var markdownMarkers = strings.NewReplacer("#", "", "_", "", "*", "")

// GenerateTitle derives a sidebar title from the first non-blank user message:
// markdown markers stripped, trimmed, and cut to TitlePreviewLength characters
// with a trailing ellipsis.
func GenerateTitle(conv *chatModels.Conversation) string {
	msg, ok := conv.FirstUserMessage()
	if !ok {
		return UntitledTitle
	}

	title := strings.TrimSpace(markdownMarkers.Replace(msg.Content))
	if title == "" {
		return UntitledTitle
	}

	runes := []rune(title)
	if len(runes) > config.TitlePreviewLength {
		return string(runes[:config.TitlePreviewLength]) + "..."
	}
	return title
}
