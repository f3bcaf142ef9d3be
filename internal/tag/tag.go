// Package tag implements the shared tag vocabulary. Tags are unowned:
// every caller, anonymous included, may browse them.
package tag

import (
	"time"

	"github.com/keyxmakerx/taskhub/internal/auth"
	"github.com/keyxmakerx/taskhub/internal/policy"
)

// Tag is one entry in the shared vocabulary.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

// NewPolicy returns the authorization rules for the tag resource:
// everything is permitted, and every tag is visible to everyone.
func NewPolicy() policy.Policy {
	everyone := func(p *auth.User, record any) bool { return true }
	return policy.Policy{
		Actions: map[policy.Action]policy.Predicate{
			policy.ActionIndex:   everyone,
			policy.ActionShow:    everyone,
			policy.ActionCreate:  everyone,
			policy.ActionUpdate:  everyone,
			policy.ActionDestroy: everyone,
		},
		Visible: everyone,
	}
}
