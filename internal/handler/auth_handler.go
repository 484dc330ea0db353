package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"todoapi/internal/entity"
	"todoapi/internal/middleware"
	"todoapi/internal/repository"
)

// UserStore is the credential store the auth handlers work against.
type UserStore interface {
	Register(ctx context.Context, username, password string) (*entity.User, error)
	Verify(ctx context.Context, username, password string) (*entity.User, error)
}

// SessionStore creates and destroys server-side sessions.
type SessionStore interface {
	Create(ctx context.Context, userID int) (string, error)
	Delete(ctx context.Context, token string) error
}

type AuthHandler struct {
	users    UserStore
	sessions SessionStore
	store    sessions.Store
}

func NewAuthHandler(users UserStore, sessionRepo SessionStore, store sessions.Store) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessionRepo,
		store:    store,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userPayload is the only shape a user ever takes on the wire.
type userPayload struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Register creates an account and logs it straight in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, entity.ErrInvalidInput)
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    userPayload{ID: user.ID, Username: user.Username},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, entity.ErrInvalidInput)
		return
	}

	user, err := h.users.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userPayload{ID: user.ID, Username: user.Username},
	})
}

// Logout destroys the server-side session and expires the cookie. Runs
// behind RequireAuth, so an unauthenticated call never reaches it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.store.Get(r, middleware.SessionName)

	if token, ok := session.Values[middleware.TokenKey].(string); ok && token != "" {
		if err := h.sessions.Delete(r.Context(), token); err != nil {
			writeError(w, err)
			return
		}
	}

	// the server-side session is already gone; a cookie that fails to clear
	// only points at a dead token
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		slog.Error("clearing session cookie", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Me reports the current user, letting the frontend restore its state on
// page load.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, entity.ErrUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, userPayload{ID: user.ID, Username: user.Username})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *entity.User) error {
	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		return err
	}

	session, _ := h.store.Get(r, middleware.SessionName)
	session.Values[middleware.TokenKey] = token
	session.Options.MaxAge = int(repository.SessionTTL.Seconds())
	session.Options.Path = "/"
	session.Options.HttpOnly = true

	return session.Save(r, w)
}
