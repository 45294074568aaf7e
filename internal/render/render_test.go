package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/internal/domain/models/chat"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestRenderConversation_SkipsSystemMessages(t *testing.T) {
	r := newTestRenderer(t)
	conv := &chat.Conversation{
		ID:    "c1",
		Title: "Pasta",
		Messages: []chat.Message{
			{Role: chat.RoleSystem, Content: "secret prompt"},
			{Role: chat.RoleAssistant, Content: "Hello!"},
			{Role: chat.RoleUser, Content: "**pasta** please"},
		},
	}

	view := r.RenderConversation(conv)
	require.Len(t, view.Messages, 2)
	assert.Equal(t, ClassAssistant, view.Messages[0].Class)
	assert.Equal(t, ClassUser, view.Messages[1].Class)
	assert.Contains(t, string(view.Messages[1].HTML), "<strong>pasta</strong>")
	assert.Equal(t, "**pasta** please", view.Messages[1].Content)
	for _, m := range view.Messages {
		assert.NotContains(t, string(m.HTML), "secret prompt")
	}
}

func TestMarkdown_ToHTML(t *testing.T) {
	md := NewMarkdown()

	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "list and table",
			src:      "- one\n- two\n\n| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<li>one</li>", "<table>"},
		},
		{
			name:     "script stripped",
			src:      "hi <script>alert(1)</script>",
			excludes: []string{"<script"},
		},
		{
			name:     "javascript link stripped",
			src:      "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
		{
			name:     "hard wraps",
			src:      "line one\nline two",
			contains: []string{"<br"},
		},
		{
			name:     "strikethrough",
			src:      "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(md.ToHTML(tt.src))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSidebar(t *testing.T) {
	r := newTestRenderer(t)
	entries := r.Sidebar([]chat.Summary{{ID: "a", Title: "First"}, {ID: "b", Title: "Second"}}, "b")

	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.False(t, entries[0].Active)
	assert.True(t, entries[1].Active)
}

func TestPage(t *testing.T) {
	r := newTestRenderer(t)
	conv := &chat.Conversation{
		ID: "c1",
		Messages: []chat.Message{
			{Role: chat.RoleAssistant, Content: "Welcome <b onclick=x>chef</b>"},
		},
	}

	var buf bytes.Buffer
	err := r.Page(&buf, &PageData{
		AssistantName: "Home Cooking Class Finder",
		Conversation:  r.RenderConversation(conv),
		Sidebar:       r.Sidebar([]chat.Summary{{ID: "s1", Title: strings.Repeat("t", 80)}}, "c1"),
		Notice:        "A reply is already in progress",
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<title>Home Cooking Class Finder</title>")
	assert.Contains(t, html, `class="chat-message assistant-message"`)
	assert.Contains(t, html, `action="/chat/s1/activate"`)
	assert.Contains(t, html, `name="conversation_id" value="c1"`)
	assert.Contains(t, html, "A reply is already in progress")
	assert.NotContains(t, html, "onclick")
	assert.Contains(t, html, strings.Repeat("t", 60)+"</button>", "sidebar titles are truncated")
}

func TestPage_EmptySidebar(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, &PageData{Conversation: ConversationView{ID: "x"}}))
	assert.Contains(t, buf.String(), "No saved chats yet")
	assert.Contains(t, buf.String(), "<title>Chat</title>")
}
