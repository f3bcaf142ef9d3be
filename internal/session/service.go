package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/auth"
)

// tokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const tokenBytes = 32

// CredentialVerifier resolves an email/password pair to a user, or to nil
// when the credentials don't match anything. Implemented by auth.Verifier.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (*auth.User, error)
}

// Service implements the session store: explicit login, token lookup with
// lazy expiry, and explicit logout.
type Service struct {
	repo     Repository
	verifier CredentialVerifier
	ttl      time.Duration

	// now is swappable for expiry boundary tests.
	now func() time.Time
}

// NewService creates a session service. ttl is the validity window applied
// to new sessions unless the caller supplies an explicit expiry.
func NewService(repo Repository, verifier CredentialVerifier, ttl time.Duration) *Service {
	return &Service{
		repo:     repo,
		verifier: verifier,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create performs a login. Construction is two-phase: credentials are
// validated and resolved first, and the row is persisted only on success,
// so a failed login never leaves a partial session behind. Credential
// failures surface as a save-style validation failure that does not reveal
// whether the email or the password was wrong.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Session, error) {
	if fields := validateCreateInput(input); len(fields) > 0 {
		return nil, apperror.NewValidation(fields)
	}

	user, err := s.verifier.Verify(ctx, input.Email, input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("verifying credentials: %w", err))
	}
	if user == nil {
		return nil, apperror.NewAuthenticationFailed()
	}

	token, err := generateToken()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating session token: %w", err))
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	if input.ExpiresAt != nil {
		expiresAt = *input.ExpiresAt
	}

	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		User:      user,
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	slog.Info("session created",
		slog.String("user_id", user.ID),
		slog.Time("expires_at", sess.ExpiresAt),
	)

	return sess, nil
}

// FindActiveByToken resolves a token to a live session. An unknown or
// expired token yields (nil, nil) — absence is a normal outcome, not an
// error; it just means the caller is anonymous.
func (s *Service) FindActiveByToken(ctx context.Context, token string) (*Session, error) {
	sess, err := s.repo.FindActiveByToken(ctx, token, s.now())
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperror.NewInternal(fmt.Errorf("resolving session token: %w", err))
	}
	return sess, nil
}

// Destroy deletes the session row, logging the owner out.
func (s *Service) Destroy(ctx context.Context, sess *Session) error {
	if err := s.repo.Delete(ctx, sess.ID); err != nil {
		return apperror.NewInternal(fmt.Errorf("destroying session: %w", err))
	}

	slog.Info("session destroyed", slog.String("user_id", sess.UserID))
	return nil
}

// validateCreateInput checks credential presence, mirroring the
// create-time presence validations on the session record.
func validateCreateInput(input CreateInput) map[string][]string {
	fields := make(map[string][]string)
	if input.Email == "" {
		fields["email"] = append(fields["email"], "can't be blank")
	}
	if input.Password == "" {
		fields["password"] = append(fields["password"], "can't be blank")
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// generateToken creates a cryptographically random hex-encoded token.
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
