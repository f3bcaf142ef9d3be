// Package policy implements capability-based authorization: a registry
// mapping each resource type to its per-action predicates and visibility
// rule, and the single gate every action passes through before touching
// the store. Rules are hand-written per resource and registered explicitly
// at wiring time — there is no reflection and no rule engine. Both
// transport surfaces consult the same registry, so a given principal gets
// the same answer no matter which surface the request arrived through.
package policy

import (
	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/auth"
)

// Action names one operation on a resource.
type Action string

// The closed set of actions policies can rule on.
const (
	ActionIndex   Action = "index"
	ActionShow    Action = "show"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDestroy Action = "destroy"
)

// Resource tags one resource type in the registry. New resource types are
// supported by registering a policy under a new tag, not by reflection.
type Resource string

const (
	ResourceSession Resource = "session"
	ResourceTask    Resource = "task"
	ResourceTag     Resource = "tag"
)

// Predicate decides whether the principal (nil for an anonymous caller)
// may act on the record. Predicates are pure: no I/O, no side effects.
type Predicate func(principal *auth.User, record any) bool

// Policy bundles one resource type's authorization rules.
type Policy struct {
	// Actions maps each permitted action to its predicate. An absent
	// action is denied — deny by default.
	Actions map[Action]Predicate

	// Visible is the collection-scoping rule: it decides, per record,
	// whether the principal may see it. A nil rule hides everything.
	Visible Predicate
}

// Registry holds the policies for all resource types. It is built once at
// startup and read-only afterwards, so it is safe for concurrent use.
type Registry struct {
	policies map[Resource]Policy
}

// NewRegistry creates an empty policy registry.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[Resource]Policy)}
}

// Register installs the policy for a resource type, replacing any previous
// registration.
func (r *Registry) Register(resource Resource, pol Policy) {
	r.policies[resource] = pol
}

// Authorize evaluates the registered predicate for (resource, action)
// against the principal and record. A nil error means the action is
// permitted and the caller may proceed with the record it passed in.
// Unregistered resources and actions deny: the failure carries whether a
// principal was present so the boundary can choose 401 vs 403.
func (r *Registry) Authorize(principal *auth.User, resource Resource, action Action, record any) error {
	pol, ok := r.policies[resource]
	if !ok {
		return apperror.NewNotPermitted(principal != nil, string(resource), string(action))
	}
	pred, ok := pol.Actions[action]
	if !ok || pred == nil || !pred(principal, record) {
		return apperror.NewNotPermitted(principal != nil, string(resource), string(action))
	}
	return nil
}

// Scope filters a collection down to the subset the principal may see,
// using the resource's visibility rule. It never fails: an unauthorized
// principal simply gets an empty collection.
func Scope[T any](r *Registry, principal *auth.User, resource Resource, collection []T) []T {
	pol, ok := r.policies[resource]
	if !ok || pol.Visible == nil {
		return []T{}
	}

	out := make([]T, 0, len(collection))
	for _, record := range collection {
		if pol.Visible(principal, record) {
			out = append(out, record)
		}
	}
	return out
}
