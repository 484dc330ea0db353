package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"todoapi/internal/entity"
	"todoapi/internal/middleware"
)

// TodoStore is the owner-scoped todo persistence the handlers work against.
type TodoStore interface {
	ListByOwner(ctx context.Context, userID int) ([]entity.Todo, error)
	Create(ctx context.Context, userID int, task string) (*entity.Todo, error)
	DeleteByIDForOwner(ctx context.Context, userID, id int) error
}

type TodoHandler struct {
	todos TodoStore
}

func NewTodoHandler(todos TodoStore) *TodoHandler {
	return &TodoHandler{todos: todos}
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, entity.ErrUnauthenticated)
		return
	}

	todos, err := h.todos.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, entity.ErrUnauthenticated)
		return
	}

	var req struct {
		Task string `json:"task"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, entity.ErrInvalidInput)
		return
	}

	todo, err := h.todos.Create(r.Context(), user.ID, req.Task)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, entity.ErrUnauthenticated)
		return
	}

	// a non-numeric id cannot name a todo, so it reads as absent
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, entity.ErrNotFound)
		return
	}

	if err := h.todos.DeleteByIDForOwner(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
