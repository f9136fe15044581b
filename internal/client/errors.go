package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized is returned when the backend rejected the stored token.
// The credential has already been removed when it is returned.
var ErrUnauthorized = errors.New("unauthorized")

// TransportError is returned when no response was received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status   int
	Messages []string
	Kind     string // the "error" field, e.g. "Bad Request"
}

func (e *APIError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, msg)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Message joins the backend's messages with ", ".
func (e *APIError) Message() string {
	return strings.Join(e.Messages, ", ")
}

// parseAPIError reads a NestJS-style error body:
// {"statusCode": 400, "message": "..." | ["...", ...], "error": "Bad Request"}.
func parseAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}

	var body struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	apiErr.Kind = body.Error

	var single string
	var many []string
	switch {
	case json.Unmarshal(body.Message, &single) == nil:
		if single != "" {
			apiErr.Messages = []string{single}
		}
	case json.Unmarshal(body.Message, &many) == nil:
		for _, m := range many {
			if m != "" {
				apiErr.Messages = append(apiErr.Messages, m)
			}
		}
	}
	return apiErr
}

// Message returns the backend's message for err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}

// StatusOf returns the HTTP status of err, or 0 if no response was received.
func StatusOf(err error) int {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &apiErr):
		return apiErr.Status
	}
	return 0
}
