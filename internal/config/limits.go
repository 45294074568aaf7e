package config

const (
	// MaxConversationTitleLength is the maximum length for conversation titles
	// set through rename. Generated titles are always much shorter.
	MaxConversationTitleLength = 255

	// TitlePreviewLength is how many characters of the first user message
	// are kept when generating a conversation title.
	TitlePreviewLength = 50

	// MaxMessageLength caps a single user message. Anything longer is
	// rejected before reaching the completion endpoint.
	MaxMessageLength = 32000

	// MaxRequestBodyBytes limits JSON and form request bodies.
	MaxRequestBodyBytes = 1 << 20
)
