package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrBusy       = errors.New("a reply is already in progress")
)

// BusyError reports a conversation that already has a send in flight.
type BusyError struct {
	ConversationID string
}

func (e *BusyError) Error() string {
	return "conversation " + e.ConversationID + ": " + ErrBusy.Error()
}

// StatusCode implements the HTTPError interface
func (e *BusyError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrBusy
func (e *BusyError) Is(target error) bool {
	return target == ErrBusy
}
