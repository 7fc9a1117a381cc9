package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches a StatusError carrying HTTP 404
	ErrNotFound = errors.New("not found")
	// ErrService matches a StatusError carrying any other non-2xx status
	ErrService = errors.New("service error")
)

// StatusError is returned when the backend answers with a non-2xx status
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// Is maps the status onto ErrNotFound or ErrService
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrService:
		return e.Status != http.StatusNotFound
	}
	return false
}

// UnexpectedContentTypeError is returned when a 2xx generation response is
// not JSON. It usually means the base URL points at something other than the
// generation backend (a dev server, a proxy error page, nothing at all).
type UnexpectedContentTypeError struct {
	ContentType string
	BaseURL     string
}

func (e *UnexpectedContentTypeError) Error() string {
	observed := e.ContentType
	if observed == "" {
		observed = "an empty content type"
	}
	return fmt.Sprintf("server returned %s instead of JSON; is the backend running at %s?", observed, e.BaseURL)
}
