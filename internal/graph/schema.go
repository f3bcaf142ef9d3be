// Package graph implements the query-language surface: a single POST
// /graphql endpoint exposing session and tag operations. It delegates
// authorization to the same policy registry as the HTTP surface, so both
// surfaces always agree on who may do what.
package graph

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/keyxmakerx/taskhub/internal/policy"
	"github.com/keyxmakerx/taskhub/internal/session"
	"github.com/keyxmakerx/taskhub/internal/tag"
)

// SessionService is the slice of the session service the schema needs.
type SessionService interface {
	Create(ctx context.Context, input session.CreateInput) (*session.Session, error)
	Destroy(ctx context.Context, sess *session.Session) error
}

// TagLister is the slice of the tag repository the schema needs.
type TagLister interface {
	List(ctx context.Context, query string) ([]tag.Tag, error)
}

// LoginLimiter throttles login attempts per client key. Optional; a nil
// limiter disables throttling.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// Resolver bundles the dependencies shared by all schema fields.
type Resolver struct {
	Sessions SessionService
	Tags     TagLister
	Registry *policy.Registry
	Limiter  LoginLimiter
}

// NewSchema builds the executable schema around the given resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Session",
		Fields: graphql.Fields{
			"token":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"expiresAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime), Resolve: fieldFromSession(func(s *session.Session) any { return s.ExpiresAt })},
			"user":      &graphql.Field{Type: graphql.NewNonNull(userType), Resolve: fieldFromSession(func(s *session.Session) any { return s.User })},
		},
	})

	tagType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Tag",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	logInInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "LogInInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	errorsType := graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))

	logInPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "LogInPayload",
		Fields: graphql.Fields{
			"session": &graphql.Field{Type: sessionType},
			"errors":  &graphql.Field{Type: errorsType},
		},
	})

	logOutPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "LogOutPayload",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: graphql.Boolean},
			"errors":  &graphql.Field{Type: errorsType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"currentSession": &graphql.Field{
				Type:    sessionType,
				Resolve: r.resolveCurrentSession,
			},
			"currentUser": &graphql.Field{
				Type:    userType,
				Resolve: r.resolveCurrentUser,
			},
			"tags": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(tagType))),
				Resolve: r.resolveTags,
			},
		},
	})

	// Mutations are the only fields wrapped for validation-error capture:
	// a failed save surfaces in the payload's errors field while the
	// mutation itself succeeds at the protocol level. Authorization
	// failures are deliberately not captured — they stay protocol errors.
	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"logIn": &graphql.Field{
				Type: graphql.NewNonNull(logInPayload),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(logInInput)},
				},
				Resolve: withValidationErrors(r.resolveLogIn),
			},
			"logOut": &graphql.Field{
				Type:    graphql.NewNonNull(logOutPayload),
				Resolve: withValidationErrors(r.resolveLogOut),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// fieldFromSession adapts a typed accessor to a graphql resolver.
func fieldFromSession(get func(s *session.Session) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		sess, ok := p.Source.(*session.Session)
		if !ok {
			return nil, fmt.Errorf("unexpected source %T for Session field", p.Source)
		}
		return get(sess), nil
	}
}
