package session

import (
	"github.com/keyxmakerx/taskhub/internal/auth"
	"github.com/keyxmakerx/taskhub/internal/policy"
)

// NewPolicy returns the authorization rules for the session resource.
// Viewing or destroying the current session requires being logged in;
// creating one requires being logged out — a caller with a live session
// must destroy it before logging in again. index/update have no meaning
// for a singular resource and stay denied by default.
func NewPolicy() policy.Policy {
	return policy.Policy{
		Actions: map[policy.Action]policy.Predicate{
			policy.ActionShow: func(p *auth.User, record any) bool {
				return p != nil
			},
			policy.ActionCreate: func(p *auth.User, record any) bool {
				return p == nil
			},
			policy.ActionDestroy: func(p *auth.User, record any) bool {
				return p != nil
			},
		},
	}
}
