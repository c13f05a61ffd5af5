package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/todo-api/internal/todo"
)

// greeting is the body served at the root path.
const greeting = "Hello, cross-origin-world!"

// TodoRequest is the body of create and update requests.
// Pointer fields distinguish an absent or null field from a zero value.
type TodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// handleRoot returns the greeting string.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, greeting)
}

// handleListTodos returns every todo, most recently created first.
func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.service.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

// handleCreateTodo validates the body and stores a new todo.
func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeTodoRequest(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	created, err := s.service.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.logChange(r, "todo created", created.ID)
	writeJSON(w, http.StatusOK, created)
}

// handleGetTodo returns a single todo.
func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	t, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleUpdateTodo replaces every mutable field of a todo.
// An unknown id is 404 before the body is read.
func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	if _, err := s.service.Get(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	in, err := s.decodeTodoRequest(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	updated, err := s.service.Update(r.Context(), id, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.logChange(r, "todo updated", updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteTodo removes a todo and returns its last values.
func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	deleted, err := s.service.Delete(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.logChange(r, "todo deleted", deleted.ID)
	writeJSON(w, http.StatusOK, deleted)
}

// logChange records a successful write, with the token subject when the
// request was authenticated.
func (s *Server) logChange(r *http.Request, msg string, id int64) {
	args := []any{"id", id, "request_id", requestIDFrom(r.Context())}
	if c := claimsFrom(r.Context()); c != nil {
		args = append(args, "subject", c.Subject)
	}
	s.logger.Info(msg, args...)
}

// todoID parses the {id} path parameter. The route pattern only admits
// digits; values that overflow int64 are reported as not ok.
func todoID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// decodeTodoRequest reads and checks a create or update body.
func (s *Server) decodeTodoRequest(r *http.Request) (todo.Input, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return todo.Input{}, errBodyTooLarge
		}
		return todo.Input{}, fmt.Errorf("%w: %w", errInvalidJSON, err)
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return todo.Input{}, err
	}
	if err := checkTodoDocument(s.todoSchema, doc); err != nil {
		return todo.Input{}, err
	}

	var req TodoRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return todo.Input{}, fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	return todo.Input{
		Title:       *req.Title,
		Description: *req.Description,
		Completed:   *req.Completed,
	}, nil
}
