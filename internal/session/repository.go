package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/auth"
)

// Repository defines the data access contract for session rows.
// All SQL lives in the concrete implementation — no SQL leaks out.
type Repository interface {
	Create(ctx context.Context, sess *Session) error

	// FindActiveByToken returns the session with the given token only if
	// its expiry is strictly after now, with the owning user loaded.
	// A miss (unknown token or expired row) is an apperror not-found.
	FindActiveByToken(ctx context.Context, token string, now time.Time) (*Session, error)

	Delete(ctx context.Context, id string) error
}

// sessionRepository implements Repository with hand-written MariaDB queries.
type sessionRepository struct {
	db *sql.DB
}

// NewRepository creates a new session repository backed by the given DB pool.
func NewRepository(db *sql.DB) Repository {
	return &sessionRepository{db: db}
}

// Create inserts a new session row.
func (r *sessionRepository) Create(ctx context.Context, sess *Session) error {
	query := `INSERT INTO sessions (id, user_id, token, expires_at, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		sess.ID,
		sess.UserID,
		sess.Token,
		sess.ExpiresAt,
		sess.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	return nil
}

// FindActiveByToken loads an unexpired session and its owning user in one
// query. Expiry is enforced in the WHERE clause so an expired row behaves
// exactly like an unknown token.
func (r *sessionRepository) FindActiveByToken(ctx context.Context, token string, now time.Time) (*Session, error) {
	query := `SELECT s.id, s.user_id, s.token, s.expires_at, s.created_at,
	                 u.id, u.email, u.created_at
	          FROM sessions s
	          JOIN users u ON u.id = s.user_id
	          WHERE s.token = ? AND s.expires_at > ?`

	sess := &Session{User: &auth.User{}}
	err := r.db.QueryRowContext(ctx, query, token, now).Scan(
		&sess.ID,
		&sess.UserID,
		&sess.Token,
		&sess.ExpiresAt,
		&sess.CreatedAt,
		&sess.User.ID,
		&sess.User.Email,
		&sess.User.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("session")
	}
	if err != nil {
		return nil, fmt.Errorf("querying session by token: %w", err)
	}

	return sess, nil
}

// Delete removes a session row. Deleting an already-absent row is not an
// error here; callers that care do their own lookup first.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
