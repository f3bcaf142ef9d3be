package session

import (
	"testing"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/auth"
	"github.com/keyxmakerx/taskhub/internal/policy"
)

func TestSessionPolicy(t *testing.T) {
	reg := policy.NewRegistry()
	reg.Register(policy.ResourceSession, NewPolicy())

	user := &auth.User{ID: "u-1"}

	cases := []struct {
		name      string
		principal *auth.User
		action    policy.Action
		permitted bool
	}{
		{"anonymous may log in", nil, policy.ActionCreate, true},
		{"logged-in may not log in again", user, policy.ActionCreate, false},
		{"logged-in may view session", user, policy.ActionShow, true},
		{"anonymous may not view session", nil, policy.ActionShow, false},
		{"logged-in may log out", user, policy.ActionDestroy, true},
		{"anonymous may not log out", nil, policy.ActionDestroy, false},
		{"index is denied by default", user, policy.ActionIndex, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := reg.Authorize(tc.principal, policy.ResourceSession, tc.action, nil)
			if tc.permitted && err != nil {
				t.Errorf("want permitted, got %v", err)
			}
			if !tc.permitted && !apperror.IsNotPermitted(err) {
				t.Errorf("want not-permitted, got %v", err)
			}
		})
	}
}
