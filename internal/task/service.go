package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/auth"
)

// Service implements task business logic. Handlers call these methods —
// they never touch the repository directly.
type Service struct {
	repo Repository

	// now is swappable for completion-stamp tests.
	now func() time.Time
}

// NewService creates a task service over the given repository.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a new task owned by the given user. Ownership comes from
// the caller's resolved session, never from the request body.
func (s *Service) Create(ctx context.Context, owner *auth.User, input CreateInput) (*Task, error) {
	if fields := validateName(input.Name); fields != nil {
		return nil, apperror.NewValidation(fields)
	}

	now := s.now()
	t := &Task{
		ID:        uuid.NewString(),
		UserID:    owner.ID,
		Name:      strings.TrimSpace(input.Name),
		Completed: input.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if t.Completed {
		t.CompletedAt = &now
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating task: %w", err))
	}

	return t, nil
}

// Get loads a task by ID. The not-found failure from the repository passes
// through untranslated.
func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("loading task: %w", err))
	}
	return t, nil
}

// List returns every task row; the caller scopes the result through the
// authorization gate before rendering it.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing tasks: %w", err))
	}
	return tasks, nil
}

// Update applies the input to the task. The completion timestamp is
// stamped when completed transitions to true and kept otherwise — marking
// an already-completed task completed again does not move the stamp.
func (s *Service) Update(ctx context.Context, t *Task, input UpdateInput) (*Task, error) {
	if input.Name != nil {
		if fields := validateName(*input.Name); fields != nil {
			return nil, apperror.NewValidation(fields)
		}
		t.Name = strings.TrimSpace(*input.Name)
	}

	now := s.now()
	if input.Completed != nil && *input.Completed != t.Completed {
		t.Completed = *input.Completed
		if t.Completed {
			t.CompletedAt = &now
		}
	}
	t.UpdatedAt = now

	if err := s.repo.Update(ctx, t); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating task: %w", err))
	}

	return t, nil
}

// Delete removes the task.
func (s *Service) Delete(ctx context.Context, t *Task) error {
	if err := s.repo.Delete(ctx, t.ID); err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting task: %w", err))
	}
	return nil
}

// validateName enforces the task's presence validation.
func validateName(name string) map[string][]string {
	if strings.TrimSpace(name) == "" {
		return map[string][]string{"name": {"can't be blank"}}
	}
	return nil
}
