package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/keyxmakerx/taskhub/internal/apperror"
)

// Verifier resolves an email/password pair to the matching user. It is the
// only component that touches password digests and it has no side effects.
type Verifier struct {
	repo UserRepository
}

// NewVerifier creates a credential verifier over the given repository.
func NewVerifier(repo UserRepository) *Verifier {
	return &Verifier{repo: repo}
}

// Verify looks up the user by email (case-insensitive) and checks the
// password against the stored argon2id digest. Both an unknown email and a
// wrong password return (nil, nil) — callers must not be able to tell the
// two apart, or they could enumerate accounts. A non-nil error is only
// returned for infrastructure failures.
func (v *Verifier) Verify(ctx context.Context, email, password string) (*User, error) {
	user, err := v.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, nil
	}

	return user, nil
}
