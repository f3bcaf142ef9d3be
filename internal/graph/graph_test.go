package graph

import (
	"context"
	"testing"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/auth"
	"github.com/keyxmakerx/taskhub/internal/policy"
	"github.com/keyxmakerx/taskhub/internal/session"
	"github.com/keyxmakerx/taskhub/internal/tag"
)

type mockSessions struct {
	createFn  func(ctx context.Context, input session.CreateInput) (*session.Session, error)
	destroyFn func(ctx context.Context, sess *session.Session) error
}

func (m *mockSessions) Create(ctx context.Context, input session.CreateInput) (*session.Session, error) {
	return m.createFn(ctx, input)
}

func (m *mockSessions) Destroy(ctx context.Context, sess *session.Session) error {
	return m.destroyFn(ctx, sess)
}

type mockTags struct {
	listFn func(ctx context.Context, query string) ([]tag.Tag, error)
}

func (m *mockTags) List(ctx context.Context, query string) ([]tag.Tag, error) {
	return m.listFn(ctx, query)
}

func newTestSchema(t *testing.T, sessions SessionService, tags TagLister) graphql.Schema {
	t.Helper()
	registry := policy.NewRegistry()
	registry.Register(policy.ResourceSession, session.NewPolicy())
	registry.Register(policy.ResourceTag, tag.NewPolicy())

	schema, err := NewSchema(&Resolver{Sessions: sessions, Tags: tags, Registry: registry})
	if err != nil {
		t.Fatalf("building schema: %v", err)
	}
	return schema
}

func execute(schema graphql.Schema, sess *session.Session, query string, variables map[string]any) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		RootObject:     map[string]any{"remoteIP": "198.51.100.7"},
		Context:        session.NewContext(context.Background(), sess),
	})
}

func testSession() *session.Session {
	return &session.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      &auth.User{ID: "user-1", Email: "test@platterz.ca"},
	}
}

const logInMutation = `mutation($input: LogInInput!) {
	logIn(input: $input) {
		session { token user { email } }
		errors
	}
}`

func TestLogInReturnsSessionPayload(t *testing.T) {
	sessions := &mockSessions{
		createFn: func(_ context.Context, input session.CreateInput) (*session.Session, error) {
			if input.Email != "test@platterz.ca" || input.Password != "password" {
				t.Fatalf("unexpected input %+v", input)
			}
			return testSession(), nil
		},
	}
	schema := newTestSchema(t, sessions, &mockTags{})

	result := execute(schema, nil, logInMutation, map[string]any{
		"input": map[string]any{"email": "test@platterz.ca", "password": "password"},
	})
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	payload := result.Data.(map[string]any)["logIn"].(map[string]any)
	sess := payload["session"].(map[string]any)
	if sess["token"] != "tok" {
		t.Errorf("token = %v, want tok", sess["token"])
	}
	if got := sess["user"].(map[string]any)["email"]; got != "test@platterz.ca" {
		t.Errorf("user email = %v", got)
	}
	if errs := payload["errors"].([]any); len(errs) != 0 {
		t.Errorf("errors = %v, want empty", errs)
	}
}

func TestLogInValidationFailureLandsInPayload(t *testing.T) {
	sessions := &mockSessions{
		createFn: func(context.Context, session.CreateInput) (*session.Session, error) {
			return nil, apperror.NewAuthenticationFailed()
		},
	}
	schema := newTestSchema(t, sessions, &mockTags{})

	result := execute(schema, nil, logInMutation, map[string]any{
		"input": map[string]any{"email": "test@platterz.ca", "password": "wrong"},
	})
	if len(result.Errors) > 0 {
		t.Fatalf("validation failure must not be a protocol error: %v", result.Errors)
	}

	payload := result.Data.(map[string]any)["logIn"].(map[string]any)
	if payload["session"] != nil {
		t.Errorf("session = %v, want null", payload["session"])
	}
	errs := payload["errors"].([]any)
	if len(errs) != 1 || errs[0] != "Email or password is incorrect" {
		t.Errorf("errors = %v", errs)
	}
}

func TestLogInWhileAuthenticatedIsProtocolError(t *testing.T) {
	sessions := &mockSessions{
		createFn: func(context.Context, session.CreateInput) (*session.Session, error) {
			t.Fatal("service must not be reached")
			return nil, nil
		},
	}
	schema := newTestSchema(t, sessions, &mockTags{})

	result := execute(schema, testSession(), logInMutation, map[string]any{
		"input": map[string]any{"email": "test@platterz.ca", "password": "password"},
	})
	if len(result.Errors) == 0 {
		t.Fatal("expected a protocol error for an authenticated caller")
	}
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(context.Context, string) bool { return false }

func TestLogInOverRateLimitIsProtocolError(t *testing.T) {
	registry := policy.NewRegistry()
	registry.Register(policy.ResourceSession, session.NewPolicy())
	registry.Register(policy.ResourceTag, tag.NewPolicy())

	sessions := &mockSessions{
		createFn: func(context.Context, session.CreateInput) (*session.Session, error) {
			t.Fatal("service must not be reached")
			return nil, nil
		},
	}
	schema, err := NewSchema(&Resolver{
		Sessions: sessions,
		Tags:     &mockTags{},
		Registry: registry,
		Limiter:  denyAllLimiter{},
	})
	if err != nil {
		t.Fatalf("building schema: %v", err)
	}

	result := execute(schema, nil, logInMutation, map[string]any{
		"input": map[string]any{"email": "test@platterz.ca", "password": "password"},
	})
	if len(result.Errors) == 0 {
		t.Fatal("expected a protocol error when throttled")
	}
}

func TestLogOutDestroysCurrentSession(t *testing.T) {
	current := testSession()
	var destroyed *session.Session
	sessions := &mockSessions{
		destroyFn: func(_ context.Context, sess *session.Session) error {
			destroyed = sess
			return nil
		},
	}
	schema := newTestSchema(t, sessions, &mockTags{})

	result := execute(schema, current, `mutation { logOut { success errors } }`, nil)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	payload := result.Data.(map[string]any)["logOut"].(map[string]any)
	if payload["success"] != true {
		t.Errorf("success = %v", payload["success"])
	}
	if destroyed != current {
		t.Error("service did not receive the caller's session")
	}
}

func TestLogOutAnonymousIsProtocolError(t *testing.T) {
	schema := newTestSchema(t, &mockSessions{}, &mockTags{})

	result := execute(schema, nil, `mutation { logOut { success errors } }`, nil)
	if len(result.Errors) == 0 {
		t.Fatal("expected a protocol error for an anonymous caller")
	}
}

func TestCurrentSessionAnonymousIsProtocolError(t *testing.T) {
	schema := newTestSchema(t, &mockSessions{}, &mockTags{})

	result := execute(schema, nil, `{ currentSession { token } }`, nil)
	if len(result.Errors) == 0 {
		t.Fatal("expected a protocol error for an anonymous caller")
	}
	if got := result.Data.(map[string]any)["currentSession"]; got != nil {
		t.Errorf("currentSession = %v, want null", got)
	}
}

func TestCurrentUserAnonymousIsNull(t *testing.T) {
	schema := newTestSchema(t, &mockSessions{}, &mockTags{})

	result := execute(schema, nil, `{ currentUser { email } }`, nil)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if got := result.Data.(map[string]any)["currentUser"]; got != nil {
		t.Errorf("currentUser = %v, want null", got)
	}
}

func TestCurrentSessionReturnsCaller(t *testing.T) {
	schema := newTestSchema(t, &mockSessions{}, &mockTags{})

	result := execute(schema, testSession(), `{ currentSession { token user { id email } } }`, nil)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	got := result.Data.(map[string]any)["currentSession"].(map[string]any)
	if got["token"] != "tok" {
		t.Errorf("token = %v", got["token"])
	}
}

func TestTagsVisibleToAnonymousCallers(t *testing.T) {
	tags := &mockTags{
		listFn: func(_ context.Context, query string) ([]tag.Tag, error) {
			if query != "" {
				t.Fatalf("query = %q, want blank", query)
			}
			return []tag.Tag{{ID: "t1", Name: "fun"}, {ID: "t2", Name: "urgent"}}, nil
		},
	}
	schema := newTestSchema(t, &mockSessions{}, tags)

	result := execute(schema, nil, `{ tags { name } }`, nil)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	got := result.Data.(map[string]any)["tags"].([]any)
	if len(got) != 2 {
		t.Fatalf("tags = %v, want 2", got)
	}
	if got[0].(map[string]any)["name"] != "fun" {
		t.Errorf("first tag = %v", got[0])
	}
}
