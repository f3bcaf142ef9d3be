// Package task implements the task resource: the one ownership-scoped
// entity in the system. Every task belongs to exactly one user, assigned
// from the authorization context at creation and immutable afterwards.
package task

import (
	"time"
)

// Task is a single to-do item. UserID is never read from a request body —
// ownership always comes from the resolved session.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	Name        string     `json:"name"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// CreateInput is the validated input for creating a task.
type CreateInput struct {
	Name      string
	Completed bool
}

// UpdateInput is the validated input for updating a task. Nil fields are
// left unchanged.
type UpdateInput struct {
	Name      *string
	Completed *bool
}
