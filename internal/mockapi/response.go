package mockapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/katalog/internal/payload"
)

const maxBodyBytes = 1 << 20

// errorBody is the error shape of the catalog backend. Message is a string,
// or a list of strings for validation failures.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// jsonError writes an error response with a single message.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{StatusCode: status, Message: message, Error: http.StatusText(status)})
}

// validationError writes a 400 response listing every problem.
func validationError(w http.ResponseWriter, messages []string) {
	jsonResponse(w, http.StatusBadRequest, errorBody{
		StatusCode: http.StatusBadRequest,
		Message:    messages,
		Error:      http.StatusText(http.StatusBadRequest),
	})
}

// decodeBody checks the request body against the schema of op and decodes it
// into target. On failure it writes the response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, op payload.Op, target any) bool {
	defer r.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := payload.Validate(op, raw); err != nil {
		var se *payload.SchemaError
		if errors.As(err, &se) {
			validationError(w, se.Messages)
			return false
		}
		slog.Error("validating request body", "op", op, "error", err)
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return false
	}

	if err := json.Unmarshal(raw, target); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(target)
}

// pathID parses a numeric path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}
