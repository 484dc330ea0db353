// Package middleware resolves the session cookie to a user before any
// protected handler runs. The resolved user travels in the request context;
// handlers never consult the session store themselves.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"todoapi/internal/entity"
)

// SessionName is the cookie holding the signed session.
const SessionName = "todo-session"

// TokenKey is the session value under which the server-side token is kept.
const TokenKey = "token"

// SessionResolver maps a session token to its user.
type SessionResolver interface {
	GetUserByToken(ctx context.Context, token string) (*entity.User, error)
}

type userContextKey struct{}

type Auth struct {
	store    sessions.Store
	sessions SessionResolver
}

func NewAuth(store sessions.Store, resolver SessionResolver) *Auth {
	return &Auth{store: store, sessions: resolver}
}

// RequireAuth rejects the request with 401 unless the session cookie maps
// to a live session, and injects the resolved user into the context.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.Resolve(r)
		if err != nil {
			status := http.StatusUnauthorized
			message := entity.ErrUnauthenticated.Error()
			// a session-store failure is not the caller's fault
			if !errors.Is(err, entity.ErrUnauthenticated) {
				slog.Error("resolving session", "error", err)
				status = http.StatusInternalServerError
				message = "internal server error"
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"error": message})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Resolve extracts the token from the request's session cookie and looks up
// its user. A missing or invalid session yields ErrUnauthenticated.
func (a *Auth) Resolve(r *http.Request) (*entity.User, error) {
	// a tampered cookie decodes to an empty session, which fails below
	session, _ := a.store.Get(r, SessionName)

	token, ok := session.Values[TokenKey].(string)
	if !ok || token == "" {
		return nil, entity.ErrUnauthenticated
	}

	return a.sessions.GetUserByToken(r.Context(), token)
}

func WithUser(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFrom returns the user placed in the context by RequireAuth.
func UserFrom(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*entity.User)
	return user, ok
}
