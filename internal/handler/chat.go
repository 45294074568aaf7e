package handler

import (
	"log/slog"
	"net/http"

	chatSvc "parley/internal/domain/services/chat"
	"parley/internal/httputil"
	"parley/internal/render"
)

// ChatHandler serves the conversation JSON API
// Handlers only communicate with services, never repositories
type ChatHandler struct {
	conversations chatSvc.ConversationService
	turns         chatSvc.TurnService
	renderer      *render.Renderer
	logger        *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	conversations chatSvc.ConversationService,
	turns chatSvc.TurnService,
	renderer *render.Renderer,
	logger *slog.Logger,
) *ChatHandler {
	return &ChatHandler{
		conversations: conversations,
		turns:         turns,
		renderer:      renderer,
		logger:        logger,
	}
}

// ConversationListResponse is the sidebar plus the active conversation id
type ConversationListResponse struct {
	ActiveID      string                `json:"active_id"`
	Conversations []render.SidebarEntry `json:"conversations"`
}

// SendResponse carries the messages a turn appended, rendered
type SendResponse struct {
	ConversationID string               `json:"conversation_id"`
	Refused        bool                 `json:"refused"`
	Messages       []render.MessageView `json:"messages"`
}

// ListConversations returns saved conversations in save order
// GET /api/conversations
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	current, err := h.conversations.Current(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	summaries, err := h.conversations.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ConversationListResponse{
		ActiveID:      current.ID,
		Conversations: h.renderer.Sidebar(summaries, current.ID),
	})
}

// CreateConversation starts a new conversation and makes it active
// POST /api/conversations
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.conversations.StartNew(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, h.renderer.RenderConversation(conv))
}

// GetCurrentConversation returns the active conversation
// GET /api/conversations/current
func (h *ChatHandler) GetCurrentConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.conversations.Current(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.renderer.RenderConversation(conv))
}

// GetConversation returns a conversation by ID
// GET /api/conversations/{id}
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	conv, err := h.conversations.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.renderer.RenderConversation(conv))
}

// ActivateConversation switches the active conversation
// POST /api/conversations/{id}/activate
func (h *ChatHandler) ActivateConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	conv, err := h.conversations.Switch(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.renderer.RenderConversation(conv))
}

// RenameConversation updates a conversation's title
// PATCH /api/conversations/{id}
func (h *ChatHandler) RenameConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	var req chatSvc.RenameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.conversations.Rename(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.renderer.RenderConversation(conv))
}

// SendMessage runs one turn and returns what it appended
// POST /api/conversations/{id}/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	var req chatSvc.SendRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ConversationID = id

	result, err := h.turns.Send(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, SendResponse{
		ConversationID: result.ConversationID,
		Refused:        result.Refused,
		Messages:       h.renderer.RenderMessages(result.Added),
	})
}
