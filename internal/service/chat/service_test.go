package chat

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/internal/domain"
	chatModels "parley/internal/domain/models/chat"
	chatSvc "parley/internal/domain/services/chat"
	"parley/internal/persona"
	"parley/internal/repository/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPersona(t *testing.T) *persona.Persona {
	t.Helper()
	p, err := persona.Default()
	require.NoError(t, err)
	return p
}

func newTestService(t *testing.T) (*Service, *memory.ConversationRepository) {
	t.Helper()
	repo := memory.NewConversationRepository()
	svc, err := NewService(context.Background(), repo, testPersona(t), testLogger())
	require.NoError(t, err)
	return svc, repo
}

func addUserMessage(t *testing.T, repo *memory.ConversationRepository, id, content string) {
	t.Helper()
	_, err := repo.AppendMessages(context.Background(), id, chatModels.Message{Role: chatModels.RoleUser, Content: content})
	require.NoError(t, err)
}

func TestNewService_SeedsActiveConversation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	require.Len(t, current.Messages, 2)
	assert.Equal(t, chatModels.RoleSystem, current.Messages[0].Role)
	assert.Equal(t, chatModels.RoleAssistant, current.Messages[1].Role)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "the active conversation is not in the sidebar until saved")
}

func TestStartNew_DiscardsUntouchedConversation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	first, err := svc.Current(ctx)
	require.NoError(t, err)

	second, err := svc.StartNew(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = repo.Get(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStartNew_SavesConversationWithTitle(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	first, err := svc.Current(ctx)
	require.NoError(t, err)
	addUserMessage(t, repo, first.ID, "## Italian *pasta* classes near me")

	_, err = svc.StartNew(ctx)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "Italian pasta classes near me", list[0].Title)
}

func TestStartNew_DoesNotDuplicateSavedConversation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	first, err := svc.Current(ctx)
	require.NoError(t, err)
	addUserMessage(t, repo, first.ID, "bread baking")
	_, err = svc.StartNew(ctx)
	require.NoError(t, err)

	// Back to the saved one, continue it, then start another new chat
	_, err = svc.Switch(ctx, first.ID)
	require.NoError(t, err)
	addUserMessage(t, repo, first.ID, "and sourdough?")
	_, err = svc.StartNew(ctx)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSwitch(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	first, err := svc.Current(ctx)
	require.NoError(t, err)
	addUserMessage(t, repo, first.ID, "first chat")
	second, err := svc.StartNew(ctx)
	require.NoError(t, err)
	addUserMessage(t, repo, second.ID, "second chat")

	switched, err := svc.Switch(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, switched.ID)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)

	// The conversation we left had user content, so it is now in the sidebar
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestSwitch_UnknownLeavesActiveUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	before, err := svc.Current(ctx)
	require.NoError(t, err)

	_, err = svc.Switch(ctx, "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	after, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
}

func TestSwitch_ToActiveIsNoop(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	current, err := svc.Current(ctx)
	require.NoError(t, err)

	got, err := svc.Switch(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, current.ID, got.ID)
}

func TestRename(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	current, err := svc.Current(ctx)
	require.NoError(t, err)

	tests := []struct {
		name      string
		title     string
		wantTitle string
		wantErr   error
	}{
		{name: "trimmed", title: "  Knife skills  ", wantTitle: "Knife skills"},
		{name: "blank becomes untitled", title: "   ", wantTitle: UntitledTitle},
		{name: "padding does not count toward the limit", title: "   " + strings.Repeat("a", 255) + "   ", wantTitle: strings.Repeat("a", 255)},
		{name: "too long", title: strings.Repeat("a", 256), wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := svc.Rename(ctx, current.ID, &chatSvc.RenameRequest{Title: tt.title})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, conv.Title)
		})
	}
}

func TestRename_KeptWhenSaved(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	addUserMessage(t, repo, current.ID, "something long enough to title")
	_, err = svc.Rename(ctx, current.ID, &chatSvc.RenameRequest{Title: "Mine"})
	require.NoError(t, err)

	_, err = svc.StartNew(ctx)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mine", list[0].Title)
}

func TestRename_Unknown(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Rename(context.Background(), "nope", &chatSvc.RenameRequest{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateTitle(t *testing.T) {
	tests := []struct {
		name     string
		messages []chatModels.Message
		want     string
	}{
		{
			name:     "no user message",
			messages: []chatModels.Message{{Role: chatModels.RoleAssistant, Content: "hi"}},
			want:     UntitledTitle,
		},
		{
			name: "skips blank user message",
			messages: []chatModels.Message{
				{Role: chatModels.RoleUser, Content: "   "},
				{Role: chatModels.RoleUser, Content: "Thai curry"},
			},
			want: "Thai curry",
		},
		{
			name:     "strips markdown markers",
			messages: []chatModels.Message{{Role: chatModels.RoleUser, Content: "# __bold__ *move*"}},
			want:     "bold move",
		},
		{
			name:     "only markers",
			messages: []chatModels.Message{{Role: chatModels.RoleUser, Content: "***"}},
			want:     UntitledTitle,
		},
		{
			name:     "truncates at fifty characters",
			messages: []chatModels.Message{{Role: chatModels.RoleUser, Content: strings.Repeat("x", 60)}},
			want:     strings.Repeat("x", 50) + "...",
		},
		{
			name:     "exactly fifty characters kept",
			messages: []chatModels.Message{{Role: chatModels.RoleUser, Content: strings.Repeat("y", 50)}},
			want:     strings.Repeat("y", 50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &chatModels.Conversation{Messages: tt.messages}
			assert.Equal(t, tt.want, GenerateTitle(conv))
		})
	}
}

func TestBuildHistory(t *testing.T) {
	conv := &chatModels.Conversation{Messages: []chatModels.Message{
		{Role: chatModels.RoleUser, Content: "hello"},
		{Role: chatModels.RoleAssistant, Content: ""},
		{Role: chatModels.RoleAssistant, Content: "hi"},
	}}

	history := BuildHistory(conv, "sys")
	require.Len(t, history, 3)
	assert.Equal(t, chatModels.Message{Role: chatModels.RoleSystem, Content: "sys"}, history[0])
	assert.Equal(t, "hello", history[1].Content)
	assert.Equal(t, "hi", history[2].Content)

	seeded := &chatModels.Conversation{Messages: []chatModels.Message{
		{Role: chatModels.RoleSystem, Content: "own"},
		{Role: chatModels.RoleUser, Content: "q"},
	}}
	history = BuildHistory(seeded, "sys")
	require.Len(t, history, 2)
	assert.Equal(t, "own", history[0].Content)
}
