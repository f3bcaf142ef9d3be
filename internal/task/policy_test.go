package task

import (
	"fmt"
	"testing"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/auth"
	"github.com/keyxmakerx/taskhub/internal/policy"
)

func taskRegistry() *policy.Registry {
	reg := policy.NewRegistry()
	reg.Register(policy.ResourceTask, NewPolicy())
	return reg
}

func TestTaskPolicyActions(t *testing.T) {
	reg := taskRegistry()
	owner := &auth.User{ID: "u-1"}
	stranger := &auth.User{ID: "u-2"}
	owned := &Task{ID: "t-1", UserID: owner.ID}

	cases := []struct {
		name      string
		principal *auth.User
		action    policy.Action
		record    any
		permitted bool
	}{
		{"logged-in may list", owner, policy.ActionIndex, nil, true},
		{"anonymous may not list", nil, policy.ActionIndex, nil, false},
		{"logged-in may create", owner, policy.ActionCreate, nil, true},
		{"anonymous may not create", nil, policy.ActionCreate, nil, false},
		{"owner may show", owner, policy.ActionShow, owned, true},
		{"non-owner may not show", stranger, policy.ActionShow, owned, false},
		{"anonymous may not show", nil, policy.ActionShow, owned, false},
		{"owner may update", owner, policy.ActionUpdate, owned, true},
		{"non-owner may not update", stranger, policy.ActionUpdate, owned, false},
		{"owner may destroy", owner, policy.ActionDestroy, owned, true},
		{"non-owner may not destroy", stranger, policy.ActionDestroy, owned, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := reg.Authorize(tc.principal, policy.ResourceTask, tc.action, tc.record)
			if tc.permitted && err != nil {
				t.Errorf("want permitted, got %v", err)
			}
			if !tc.permitted && !apperror.IsNotPermitted(err) {
				t.Errorf("want not-permitted, got %v", err)
			}
		})
	}
}

func TestTaskScopeIsExactlyOwnership(t *testing.T) {
	reg := taskRegistry()
	owner := &auth.User{ID: "u-1"}

	// Exercise a range of collection sizes, including empty.
	for _, size := range []int{0, 1, 2, 10, 100} {
		var all []Task
		for i := 0; i < size; i++ {
			ownerID := "u-other"
			if i%3 == 0 {
				ownerID = owner.ID
			}
			all = append(all, Task{ID: fmt.Sprintf("t-%d", i), UserID: ownerID})
		}

		scoped := policy.Scope(reg, owner, policy.ResourceTask, all)

		want := 0
		for _, tk := range all {
			if tk.UserID == owner.ID {
				want++
			}
		}
		if len(scoped) != want {
			t.Errorf("size %d: scoped %d tasks, want %d", size, len(scoped), want)
		}
		for _, tk := range scoped {
			if tk.UserID != owner.ID {
				t.Errorf("size %d: scope leaked task %s owned by %s", size, tk.ID, tk.UserID)
			}
		}

		anon := policy.Scope(reg, nil, policy.ResourceTask, all)
		if len(anon) != 0 {
			t.Errorf("size %d: anonymous scope returned %d tasks, want 0", size, len(anon))
		}
	}
}
