package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/todo-api/internal/auth"
	"github.com/nerrad567/todo-api/internal/todo"
)

// Request decoding errors.
var (
	errInvalidJSON   = errors.New("invalid JSON body")
	errMissingFields = errors.New("missing required fields")
	errBodyTooLarge  = errors.New("request body too large")
)

// Response messages. These are part of the public contract.
const (
	msgInvalidJSON      = "Invalid JSON body"
	msgMissingFields    = "Missing required fields"
	msgBodyTooLarge     = "Request body too large"
	msgTodoNotFound     = "Todo not found"
	msgNotFound         = "Not found"
	msgMethodNotAllowed = "Method not allowed"
	msgInternal         = "Internal server error"
	msgRateLimited      = "Rate limit exceeded"
	msgUnauthorized     = "Missing or invalid bearer token"
	msgForbidden        = "Insufficient scope"
)

// errorResponse is the body for client errors.
type errorResponse struct {
	Error string `json:"error"`
}

// statusErrorResponse is the body for router-level errors. The status is a
// string for 404/405.
type statusErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// internalErrorResponse is the body for every 500. The status is a number.
type internalErrorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeInternalError writes the generic 500 body.
func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, internalErrorResponse{
		Status: http.StatusInternalServerError,
		Error:  msgInternal,
	})
}

// handleNotFound answers requests that match no route.
func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, statusErrorResponse{Status: "404", Error: msgNotFound})
}

// handleMethodNotAllowed answers a known path with an unsupported method.
func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, statusErrorResponse{Status: "405", Error: msgMethodNotAllowed})
}

// writeServiceError maps an error from request decoding, auth or the todo
// service to a response. It is the only place error kinds become status
// codes.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *todo.FieldError
	var schemaErr *schemaError

	switch {
	case errors.Is(err, errInvalidJSON):
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
	case errors.Is(err, errMissingFields):
		writeError(w, http.StatusBadRequest, msgMissingFields)
	case errors.Is(err, errBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
	case errors.As(err, &schemaErr):
		writeError(w, http.StatusBadRequest, schemaErr.Error())
	case errors.As(err, &fieldErr):
		writeError(w, http.StatusBadRequest, fieldErr.Error())
	case errors.Is(err, todo.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, todo.ErrNotFound):
		writeError(w, http.StatusNotFound, msgTodoNotFound)
	case errors.Is(err, auth.ErrTokenMissing), errors.Is(err, auth.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, msgForbidden)
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", requestIDFrom(r.Context()),
		)
		writeInternalError(w)
	}
}
