package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"todoapi/internal/entity"
)

// SessionTTL is how long a server-side session stays valid. The cookie
// carrying the token gets the same lifetime.
const SessionTTL = 7 * 24 * time.Hour

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new session for the user and returns its opaque token.
func (r *SessionRepository) Create(ctx context.Context, userID int) (string, error) {
	session := entity.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(SessionTTL),
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO sessions (token, user_id, expires_at)
        VALUES ($1, $2, $3)
    `, session.Token, session.UserID, session.ExpiresAt)

	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}

	return session.Token, nil
}

// GetUserByToken resolves a live session token to its user. Expired or
// unknown tokens return ErrUnauthenticated.
func (r *SessionRepository) GetUserByToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, entity.ErrUnauthenticated
	}

	user := &entity.User{}

	err := r.db.QueryRowContext(ctx, `
        SELECT u.id, u.username, u.password_hash, u.created_at
        FROM sessions s
        JOIN users u ON u.id = s.user_id
        WHERE s.token = $1 AND s.expires_at > now()
    `, token).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// Delete removes a session. Deleting a token that no longer exists is not
// an error, so logout stays idempotent.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
