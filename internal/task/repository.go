package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keyxmakerx/taskhub/internal/apperror"
)

// Repository defines the data access contract for task rows.
// All SQL lives in the concrete implementation — no SQL leaks out.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
}

// taskRepository implements Repository with hand-written MariaDB queries.
type taskRepository struct {
	db *sql.DB
}

// NewRepository creates a new task repository backed by the given DB pool.
func NewRepository(db *sql.DB) Repository {
	return &taskRepository{db: db}
}

// Create inserts a new task row.
func (r *taskRepository) Create(ctx context.Context, t *Task) error {
	query := `INSERT INTO tasks (id, user_id, name, completed, completed_at, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Name,
		t.Completed,
		t.CompletedAt,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	return nil
}

// FindByID retrieves a task by its UUID.
// Returns apperror not-found if no task exists with this ID.
func (r *taskRepository) FindByID(ctx context.Context, id string) (*Task, error) {
	query := `SELECT id, user_id, name, completed, completed_at, created_at, updated_at
	          FROM tasks WHERE id = ?`

	t := &Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.Completed,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("task")
	}
	if err != nil {
		return nil, fmt.Errorf("querying task by id: %w", err)
	}

	return t, nil
}

// List returns all task rows ordered by creation date. Visibility is the
// authorization gate's concern, not the repository's.
func (r *taskRepository) List(ctx context.Context) ([]Task, error) {
	query := `SELECT id, user_id, name, completed, completed_at, created_at, updated_at
	          FROM tasks ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Name, &t.Completed, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Update writes the mutable columns of a task row.
func (r *taskRepository) Update(ctx context.Context, t *Task) error {
	query := `UPDATE tasks SET name = ?, completed = ?, completed_at = ?, updated_at = ?
	          WHERE id = ?`

	// No RowsAffected check here: MySQL reports zero for no-op updates,
	// and callers load the row before updating anyway.
	_, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.Completed,
		t.CompletedAt,
		t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	return nil
}

// Delete removes a task row.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("task")
	}

	return nil
}
