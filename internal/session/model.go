// Package session owns the session lifecycle: creating one from
// credentials, resolving the Session-Token request header to a live
// session, and destroying one on logout. A session is a single database
// row; there is no replicated session cache and no background expiry
// sweep — expiry is evaluated lazily at lookup time.
package session

import (
	"time"

	"github.com/keyxmakerx/taskhub/internal/auth"
)

// Session represents one authenticated login. The token is generated
// exactly once at creation and never reassigned; the owning user is
// resolved from credentials during creation and immutable afterwards.
type Session struct {
	ID        string     `json:"-"`
	UserID    string     `json:"-"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	User      *auth.User `json:"user,omitempty"`
}

// Active reports whether the session is still valid at the given instant.
// A session is active only while its expiry is strictly in the future: at
// the exact expiry timestamp it is already inactive.
func (s *Session) Active(at time.Time) bool {
	return s.ExpiresAt.After(at)
}

// CreateInput carries the credentials consumed once during session
// creation. They are never persisted. ExpiresAt overrides the configured
// validity window when set; leave nil for the default.
type CreateInput struct {
	Email     string
	Password  string
	ExpiresAt *time.Time
}
