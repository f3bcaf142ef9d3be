package tag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/taskhub/internal/auth"
	"github.com/keyxmakerx/taskhub/internal/policy"
)

type mockRepo struct {
	listFn func(ctx context.Context, query string) ([]Tag, error)
}

func (m *mockRepo) List(ctx context.Context, query string) ([]Tag, error) {
	return m.listFn(ctx, query)
}

func TestTagPolicyPermitsEveryone(t *testing.T) {
	reg := policy.NewRegistry()
	reg.Register(policy.ResourceTag, NewPolicy())

	actions := []policy.Action{
		policy.ActionIndex, policy.ActionShow, policy.ActionCreate,
		policy.ActionUpdate, policy.ActionDestroy,
	}

	for _, action := range actions {
		if err := reg.Authorize(nil, policy.ResourceTag, action, nil); err != nil {
			t.Errorf("anonymous %s: %v", action, err)
		}
		if err := reg.Authorize(&auth.User{ID: "u-1"}, policy.ResourceTag, action, nil); err != nil {
			t.Errorf("authenticated %s: %v", action, err)
		}
	}
}

func TestTagScopeShowsEverythingToEveryone(t *testing.T) {
	reg := policy.NewRegistry()
	reg.Register(policy.ResourceTag, NewPolicy())

	tags := []Tag{{Name: "fun"}, {Name: "urgent"}}

	if got := policy.Scope(reg, nil, policy.ResourceTag, tags); len(got) != len(tags) {
		t.Errorf("anonymous scope hid tags: got %d, want %d", len(got), len(tags))
	}
}

func TestIndexPassesSearchQueryThrough(t *testing.T) {
	reg := policy.NewRegistry()
	reg.Register(policy.ResourceTag, NewPolicy())

	repo := &mockRepo{
		listFn: func(_ context.Context, query string) ([]Tag, error) {
			if query != "fun" {
				t.Fatalf("query = %q, want fun", query)
			}
			return []Tag{{ID: "t-1", Name: "fun"}}, nil
		},
	}
	h := NewHandler(repo, reg)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/tags?query=fun", nil)
	rec := httptest.NewRecorder()

	if err := h.Index(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got []Tag
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(got) != 1 || got[0].Name != "fun" {
		t.Errorf("tags = %+v", got)
	}
}

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"fun":      "fun",
		"100%":     `100\%`,
		"under_":   `under\_`,
		`back\ref`: `back\\ref`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
