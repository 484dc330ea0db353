package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"todoapi/internal/auth"
	"todoapi/internal/entity"
)

// Postgres unique_violation.
const pqUniqueViolation = "23505"

type UserRepository struct {
	db     *sql.DB
	hasher *auth.Hasher

	// fallbackHash is verified against when the username does not exist, so
	// that unknown-user and wrong-password lookups cost about the same.
	fallbackHash string
}

func NewUserRepository(db *sql.DB, hasher *auth.Hasher) *UserRepository {
	fallback, err := hasher.Hash("fallback")
	if err != nil {
		// only reachable if crypto/rand is broken
		panic(fmt.Sprintf("hashing fallback password: %v", err))
	}
	return &UserRepository{db: db, hasher: hasher, fallbackHash: fallback}
}

// Register creates a new user with a salted one-way hash of password.
func (r *UserRepository) Register(ctx context.Context, username, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, entity.ErrInvalidInput
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &entity.User{Username: username, PasswordHash: hash}

	err = r.db.QueryRowContext(ctx, `
        INSERT INTO users (username, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at
    `, username, hash).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, entity.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// Verify checks a username/password pair. An unknown username and a wrong
// password both return ErrInvalidCredentials.
func (r *UserRepository) Verify(ctx context.Context, username, password string) (*entity.User, error) {
	user := &entity.User{}

	err := r.db.QueryRowContext(ctx, `
        SELECT id, username, password_hash, created_at
        FROM users
        WHERE username = $1
    `, strings.TrimSpace(username)).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		r.hasher.Verify(password, r.fallbackHash)
		return nil, entity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	ok, err := r.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, entity.ErrInvalidCredentials
	}

	return user, nil
}
