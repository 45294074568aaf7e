package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"parley/internal/domain"
	"parley/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var busyErr *domain.BusyError

	switch {
	case errors.As(err, &busyErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, busyErr.Error(), map[string]interface{}{
			"conversation_id": busyErr.ConversationID,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
