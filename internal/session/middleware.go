package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/taskhub/internal/auth"
)

// HeaderToken is the request header carrying the opaque session token.
const HeaderToken = "Session-Token"

// contextKeyCurrent is the Echo context key for the resolved session.
// The value is set exactly once per request by the Resolve middleware;
// a nil value under the key means the request resolved to anonymous.
const contextKeyCurrent = "current_session"

// TokenResolver is the slice of the session service the resolver needs.
type TokenResolver interface {
	FindActiveByToken(ctx context.Context, token string) (*Session, error)
}

// Resolve returns middleware that resolves the Session-Token header to a
// live session and stores the outcome in the request context. It runs on
// every route and never rejects a request: a missing, blank, unknown, or
// expired token simply means the caller is anonymous. Because it runs once
// per request, downstream reads of Current are memoized by construction —
// including the negative outcome — and trigger no further store queries.
func Resolve(resolver TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := strings.TrimSpace(c.Request().Header.Get(HeaderToken))
			if token == "" {
				// Anonymous without touching the store.
				c.Set(contextKeyCurrent, (*Session)(nil))
				return next(c)
			}

			sess, err := resolver.FindActiveByToken(c.Request().Context(), token)
			if err != nil {
				// Infrastructure failure. The caller still proceeds as
				// anonymous; resolution itself never errors a request.
				slog.Warn("session resolution failed", slog.Any("error", err))
				sess = nil
			}

			c.Set(contextKeyCurrent, sess)
			return next(c)
		}
	}
}

// Current returns the session resolved for this request, or nil for an
// anonymous caller.
func Current(c echo.Context) *Session {
	sess, _ := c.Get(contextKeyCurrent).(*Session)
	return sess
}

// CurrentUser returns the principal that owns the resolved session, or nil
// for an anonymous caller.
func CurrentUser(c echo.Context) *auth.User {
	sess := Current(c)
	if sess == nil {
		return nil
	}
	return sess.User
}

// ctxKey is the context.Context key type for carrying the resolved session
// into the query-language surface, whose resolvers only see a context.
type ctxKey struct{}

// NewContext returns a context carrying the resolved session (possibly nil).
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session carried by ctx, or nil.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(ctxKey{}).(*Session)
	return sess
}

// UserFromContext returns the principal carried by ctx, or nil.
func UserFromContext(ctx context.Context) *auth.User {
	sess := FromContext(ctx)
	if sess == nil {
		return nil
	}
	return sess.User
}
