package graph

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/policy"
	"github.com/keyxmakerx/taskhub/internal/session"
	"github.com/keyxmakerx/taskhub/internal/tag"
)

// withValidationErrors wraps a mutation resolver so that validation
// failures become part of the payload instead of protocol errors. Every
// other error kind passes through untouched.
func withValidationErrors(resolve graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		result, err := resolve(p)
		if err != nil {
			if appErr, ok := apperror.As(err); ok && appErr.Type == apperror.TypeValidation {
				return map[string]any{"errors": appErr.Messages()}, nil
			}
			return nil, err
		}
		return result, nil
	}
}

func (r *Resolver) resolveCurrentSession(p graphql.ResolveParams) (any, error) {
	// The gate runs before the nil check: an anonymous caller fails the
	// show predicate and gets a protocol-level error, mirroring the 401
	// the resource surface returns for GET /session.
	sess := session.FromContext(p.Context)
	principal := session.UserFromContext(p.Context)
	if err := r.Registry.Authorize(principal, policy.ResourceSession, policy.ActionShow, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (r *Resolver) resolveCurrentUser(p graphql.ResolveParams) (any, error) {
	user := session.UserFromContext(p.Context)
	if user == nil {
		return nil, nil
	}
	return user, nil
}

func (r *Resolver) resolveTags(p graphql.ResolveParams) (any, error) {
	tags, err := r.Tags.List(p.Context, "")
	if err != nil {
		return nil, err
	}
	principal := session.UserFromContext(p.Context)
	return policy.Scope(r.Registry, principal, policy.ResourceTag, tags), nil
}

func (r *Resolver) resolveLogIn(p graphql.ResolveParams) (any, error) {
	if r.Limiter != nil {
		if ip := remoteIP(p); ip != "" && !r.Limiter.Allow(p.Context, "ratelimit:logIn:"+ip) {
			return nil, errors.New("rate limit exceeded")
		}
	}

	principal := session.UserFromContext(p.Context)
	if err := r.Registry.Authorize(principal, policy.ResourceSession, policy.ActionCreate, nil); err != nil {
		return nil, err
	}

	input, _ := p.Args["input"].(map[string]any)
	email, _ := input["email"].(string)
	password, _ := input["password"].(string)

	sess, err := r.Sessions.Create(p.Context, session.CreateInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return map[string]any{"session": sess, "errors": []string{}}, nil
}

func (r *Resolver) resolveLogOut(p graphql.ResolveParams) (any, error) {
	sess := session.FromContext(p.Context)
	principal := session.UserFromContext(p.Context)
	if err := r.Registry.Authorize(principal, policy.ResourceSession, policy.ActionDestroy, sess); err != nil {
		return nil, err
	}
	if err := r.Sessions.Destroy(p.Context, sess); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "errors": []string{}}, nil
}

// remoteIP reads the client IP the transport handler stapled onto the
// execution's root value.
func remoteIP(p graphql.ResolveParams) string {
	root, ok := p.Info.RootValue.(map[string]any)
	if !ok {
		return ""
	}
	ip, _ := root["remoteIP"].(string)
	return ip
}

var _ TagLister = (tag.Repository)(nil)
