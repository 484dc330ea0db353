package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"todoapi/internal/auth"
	"todoapi/internal/database"
	"todoapi/internal/handler"
	"todoapi/internal/middleware"
	"todoapi/internal/repository"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; hosted environments inject real env vars
	_ = godotenv.Load()

	cfg := database.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	store := sessions.NewCookieStore(sessionKey())
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.MaxAge = int(repository.SessionTTL.Seconds())

	hasher := auth.NewHasher()
	userRepo := repository.NewUserRepository(db, hasher)
	sessionRepo := repository.NewSessionRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	authMW := middleware.NewAuth(store, sessionRepo)
	authHandler := handler.NewAuthHandler(userRepo, sessionRepo, store)
	todoHandler := handler.NewTodoHandler(todoRepo)
	homeHandler := handler.NewHomeHandler()

	router := handler.NewRouter(authHandler, todoHandler, homeHandler, authMW)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("server listening", "port", port)
	return http.ListenAndServe(":"+port, router)
}

// sessionKey returns the cookie signing key. Without SESSION_KEY a random
// key is generated, so sessions do not survive a restart.
func sessionKey() []byte {
	if key := os.Getenv("SESSION_KEY"); key != "" {
		return []byte(key)
	}

	slog.Warn("SESSION_KEY not set, using a generated key")
	return securecookie.GenerateRandomKey(32)
}
