package policy

import (
	"testing"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/auth"
)

func TestAuthorizeDenyByDefault(t *testing.T) {
	reg := NewRegistry()
	user := &auth.User{ID: "u-1"}

	// Unregistered resource.
	if err := reg.Authorize(user, Resource("widget"), ActionShow, nil); !apperror.IsNotPermitted(err) {
		t.Errorf("unregistered resource: got %v, want not-permitted", err)
	}

	// Registered resource, unregistered action.
	reg.Register(ResourceTag, Policy{
		Actions: map[Action]Predicate{
			ActionIndex: func(p *auth.User, record any) bool { return true },
		},
	})
	if err := reg.Authorize(user, ResourceTag, ActionDestroy, nil); !apperror.IsNotPermitted(err) {
		t.Errorf("unregistered action: got %v, want not-permitted", err)
	}
}

func TestAuthorizeCarriesPrincipalPresence(t *testing.T) {
	reg := NewRegistry()

	err := reg.Authorize(nil, ResourceTask, ActionShow, nil)
	appErr, _ := apperror.As(err)
	if appErr == nil || appErr.Authenticated {
		t.Errorf("anonymous denial should record an absent principal: %v", err)
	}

	err = reg.Authorize(&auth.User{ID: "u-1"}, ResourceTask, ActionShow, nil)
	appErr, _ = apperror.As(err)
	if appErr == nil || !appErr.Authenticated {
		t.Errorf("authenticated denial should record a present principal: %v", err)
	}
}

func TestAuthorizePermits(t *testing.T) {
	reg := NewRegistry()
	reg.Register(ResourceSession, Policy{
		Actions: map[Action]Predicate{
			ActionCreate: func(p *auth.User, record any) bool { return p == nil },
		},
	})

	if err := reg.Authorize(nil, ResourceSession, ActionCreate, nil); err != nil {
		t.Errorf("anonymous create should be permitted: %v", err)
	}
	if err := reg.Authorize(&auth.User{ID: "u-1"}, ResourceSession, ActionCreate, nil); !apperror.IsNotPermitted(err) {
		t.Errorf("authenticated create should be denied: %v", err)
	}
}

func TestScopeFiltersByVisibility(t *testing.T) {
	type item struct{ owner string }

	reg := NewRegistry()
	reg.Register(ResourceTask, Policy{
		Visible: func(p *auth.User, record any) bool {
			return p != nil && record.(item).owner == p.ID
		},
	})

	collection := []item{{owner: "u-1"}, {owner: "u-2"}, {owner: "u-1"}}

	mine := Scope(reg, &auth.User{ID: "u-1"}, ResourceTask, collection)
	if len(mine) != 2 {
		t.Errorf("scoped to %d items, want 2", len(mine))
	}
	for _, it := range mine {
		if it.owner != "u-1" {
			t.Errorf("scope leaked record owned by %q", it.owner)
		}
	}

	anon := Scope(reg, nil, ResourceTask, collection)
	if len(anon) != 0 {
		t.Errorf("anonymous scope returned %d items, want 0", len(anon))
	}
}

func TestScopeUnregisteredResourceIsEmptyNotError(t *testing.T) {
	reg := NewRegistry()

	got := Scope(reg, &auth.User{ID: "u-1"}, Resource("widget"), []int{1, 2, 3})
	if len(got) != 0 {
		t.Errorf("unregistered resource scope returned %d items, want 0", len(got))
	}
}
