// Package auth owns the User principal: its storage, its password digests,
// and the credential verifier that resolves an email/password pair to a
// user. Session lifecycle lives in the session package; auth is only
// consulted when a session is being created.
package auth

import (
	"time"
)

// User represents a registered account — the principal that owns sessions
// and tasks. Database scanning and JSON marshaling use this struct directly.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time `json:"created_at"`
}
