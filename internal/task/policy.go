package task

import (
	"github.com/keyxmakerx/taskhub/internal/auth"
	"github.com/keyxmakerx/taskhub/internal/policy"
)

// NewPolicy returns the authorization rules for the task resource. Listing
// and creating require a logged-in caller; showing, updating, and
// destroying require owning the task. Visibility mirrors ownership, so an
// anonymous caller's scope is always empty.
func NewPolicy() policy.Policy {
	return policy.Policy{
		Actions: map[policy.Action]policy.Predicate{
			policy.ActionIndex: func(p *auth.User, record any) bool {
				return p != nil
			},
			policy.ActionCreate: func(p *auth.User, record any) bool {
				return p != nil
			},
			policy.ActionShow:    ownerOnly,
			policy.ActionUpdate:  ownerOnly,
			policy.ActionDestroy: ownerOnly,
		},
		Visible: ownerOnly,
	}
}

// ownerOnly permits a present principal acting on their own task. The
// record may be a Task value (from scope filtering) or a *Task (from the
// single-record gate).
func ownerOnly(p *auth.User, record any) bool {
	if p == nil {
		return false
	}
	switch t := record.(type) {
	case *Task:
		return t != nil && t.UserID == p.ID
	case Task:
		return t.UserID == p.ID
	default:
		return false
	}
}
