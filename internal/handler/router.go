package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"todoapi/internal/middleware"
	"todoapi/web"
)

// NewRouter wires every route. Protected routes sit in one group behind
// RequireAuth; everything else is public.
func NewRouter(auth *AuthHandler, todos *TodoHandler, home *HomeHandler, mw *middleware.Auth) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)

	r.Get("/", home.Index)
	r.Handle("/static/*", http.FileServer(http.FS(web.FS)))

	r.Post("/register", auth.Register)
	r.Post("/login", auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)

		r.Post("/logout", auth.Logout)
		r.Get("/api/me", auth.Me)
		r.Get("/api/todos", todos.List)
		r.Post("/api/todos", todos.Create)
		r.Delete("/api/todos/{id}", todos.Delete)
	})

	return r
}
