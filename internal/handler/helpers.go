package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"parley/internal/httputil"
)

// PathParam reads a UUID path value. On failure it writes a 400 and returns false.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	if _, err := uuid.Parse(value); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, label+" must be a valid UUID")
		return "", false
	}
	return value, true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
