package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"todoapi/internal/entity"
)

type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// ListByOwner returns every todo owned by userID, oldest first. The result
// is an empty slice, never nil, so it encodes as [] on the wire.
func (r *TodoRepository) ListByOwner(ctx context.Context, userID int) ([]entity.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, task, completed, user_id
        FROM todos
        WHERE user_id = $1
        ORDER BY id
    `, userID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	todos := []entity.Todo{}

	for rows.Next() {
		var todo entity.Todo
		if err := rows.Scan(&todo.ID, &todo.Task, &todo.Completed, &todo.UserID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todos, nil
}

// Create persists a new, uncompleted todo for userID.
func (r *TodoRepository) Create(ctx context.Context, userID int, task string) (*entity.Todo, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, entity.ErrInvalidInput
	}

	todo := &entity.Todo{Task: task, UserID: userID}

	err := r.db.QueryRowContext(ctx, `
        INSERT INTO todos (task, user_id)
        VALUES ($1, $2)
        RETURNING id
    `, task, userID).Scan(&todo.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

// DeleteByIDForOwner removes the todo only if userID owns it. A todo that
// does not exist and one owned by someone else both come back ErrNotFound.
func (r *TodoRepository) DeleteByIDForOwner(ctx context.Context, userID, id int) error {
	res, err := r.db.ExecContext(ctx, `
        DELETE FROM todos
        WHERE id = $1 AND user_id = $2
    `, id, userID)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}

	return nil
}
