package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"parley/internal/config"
	"parley/internal/domain"
	chatSvc "parley/internal/domain/services/chat"
	"parley/internal/render"
)

// Notices the page can show after a redirect. Keys travel in the query
// string so arbitrary text is never reflected.
var pageNotices = map[string]string{
	"busy":      "A reply is already in progress. Please wait for it to finish.",
	"not_found": "That conversation no longer exists.",
	"invalid":   "That input was not accepted.",
}

// PageHandler serves the server-rendered chat page and its form posts.
// Every POST redirects back to / (post/redirect/get).
type PageHandler struct {
	conversations chatSvc.ConversationService
	turns         chatSvc.TurnService
	renderer      *render.Renderer
	assistantName string
	logger        *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	conversations chatSvc.ConversationService,
	turns chatSvc.TurnService,
	renderer *render.Renderer,
	assistantName string,
	logger *slog.Logger,
) *PageHandler {
	return &PageHandler{
		conversations: conversations,
		turns:         turns,
		renderer:      renderer,
		assistantName: assistantName,
		logger:        logger,
	}
}

// Index renders the active conversation and the sidebar
// GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	current, err := h.conversations.Current(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	summaries, err := h.conversations.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	// Render to a buffer so a template error never sends a half page
	var buf bytes.Buffer
	err = h.renderer.Page(&buf, &render.PageData{
		AssistantName: h.assistantName,
		Conversation:  h.renderer.RenderConversation(current),
		Sidebar:       h.renderer.Sidebar(summaries, current.ID),
		Notice:        pageNotices[r.URL.Query().Get("notice")],
		Busy:          h.turns.Busy(current.ID),
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// NewChat starts a new conversation
// POST /chat/new
func (h *PageHandler) NewChat(w http.ResponseWriter, r *http.Request) {
	if _, err := h.conversations.StartNew(r.Context()); err != nil {
		h.redirectWithError(w, r, err)
		return
	}
	h.redirectHome(w, r, "")
}

// Send posts the form's message to the named conversation.
// A blank message is ignored.
// POST /chat/send
func (h *PageHandler) Send(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	req := &chatSvc.SendRequest{
		ConversationID: r.PostForm.Get("conversation_id"),
		Content:        r.PostForm.Get("content"),
	}
	if _, err := h.turns.Send(r.Context(), req); err != nil {
		if errors.Is(err, domain.ErrValidation) && isBlank(req.Content) {
			h.redirectHome(w, r, "")
			return
		}
		h.redirectWithError(w, r, err)
		return
	}
	h.redirectHome(w, r, "")
}

// Activate switches to a saved conversation
// POST /chat/{id}/activate
func (h *PageHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.conversations.Switch(r.Context(), r.PathValue("id")); err != nil {
		h.redirectWithError(w, r, err)
		return
	}
	h.redirectHome(w, r, "")
}

// Rename renames a conversation from the sidebar form
// POST /chat/{id}/rename
func (h *PageHandler) Rename(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	req := &chatSvc.RenameRequest{Title: r.PostForm.Get("title")}
	if _, err := h.conversations.Rename(r.Context(), r.PathValue("id"), req); err != nil {
		h.redirectWithError(w, r, err)
		return
	}
	h.redirectHome(w, r, "")
}

func (h *PageHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.redirectHome(w, r, "invalid")
		return false
	}
	return true
}

func (h *PageHandler) redirectWithError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrBusy):
		h.redirectHome(w, r, "busy")
	case errors.Is(err, domain.ErrNotFound):
		h.redirectHome(w, r, "not_found")
	case errors.Is(err, domain.ErrValidation):
		h.redirectHome(w, r, "invalid")
	default:
		h.fail(w, err)
	}
}

func (h *PageHandler) redirectHome(w http.ResponseWriter, r *http.Request, notice string) {
	target := "/"
	if notice != "" {
		target += "?" + url.Values{"notice": {notice}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *PageHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("page request failed", "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
