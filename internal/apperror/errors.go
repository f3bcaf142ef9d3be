// Package apperror provides the domain failure types shared by both
// transport surfaces. Domain code fails with one of these typed errors and
// never formats an HTTP or GraphQL response itself; the Echo error handler
// and the GraphQL mutation wrapper perform the one, final translation.
//
// NEVER return raw database or infrastructure errors to the client. Always
// wrap them in an apperror type or return a generic internal error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error kind classifiers. These name the semantic kind of a failure;
// translation changes the encoding, never the kind.
const (
	TypeNotFound     = "not_found"
	TypeValidation   = "validation_error"
	TypeNotPermitted = "not_permitted"
	TypeBadRequest   = "bad_request"
	TypeInternal     = "internal_error"
)

// AppError is the base error type for all domain errors. It carries an
// HTTP status code, a machine-readable error type, and a human-readable
// message safe to show to the client.
type AppError struct {
	// Code is the HTTP status code (e.g., 404, 422, 500).
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "not_found").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Resource is the resource tag for not-found failures ("task", "tag",
	// "session"). The HTTP translator keys the error body on it.
	Resource string `json:"-"`

	// Fields holds field-level validation messages for validation failures.
	// The "base" key carries record-level messages that are surfaced verbatim.
	Fields map[string][]string `json:"-"`

	// Authenticated records whether a principal was present when a
	// not-permitted failure was raised. Chooses 401 vs 403.
	Authenticated bool `json:"-"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Messages renders the field map as a flat list of human-readable messages,
// the shape the query-language surface reports in a mutation's errors field.
// "base"-keyed messages are surfaced verbatim; other fields are prefixed
// with the capitalized field name ("name can't be blank" -> "Name can't be
// blank"). Output is sorted by field for stable responses.
func (e *AppError) Messages() []string {
	if len(e.Fields) == 0 {
		if e.Message != "" {
			return []string{e.Message}
		}
		return []string{}
	}

	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out []string
	for _, field := range fields {
		for _, msg := range e.Fields[field] {
			if field == "base" {
				out = append(out, msg)
				continue
			}
			out = append(out, capitalize(field)+" "+msg)
		}
	}
	return out
}

// capitalize upcases the first letter of a snake_cased field name and
// replaces underscores with spaces ("completed_at" -> "Completed at").
func capitalize(field string) string {
	field = strings.ReplaceAll(field, "_", " ")
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

// --- Constructors ---

// NewNotFound creates a 404 failure for a lookup miss on the named resource.
// The HTTP translator renders {"errors": {"<resource>": ["not found"]}}.
func NewNotFound(resource string) *AppError {
	return &AppError{
		Code:     http.StatusNotFound,
		Type:     TypeNotFound,
		Message:  resource + " not found",
		Resource: resource,
	}
}

// NewValidation creates a 422 failure carrying field-level messages from a
// save or destroy that violated a domain constraint.
func NewValidation(fields map[string][]string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Type:    TypeValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// NewAuthenticationFailed creates the validation failure raised when login
// credentials do not resolve to a user. It is deliberately shaped like any
// other save failure and never distinguishes an unknown email from a wrong
// password, so callers cannot enumerate accounts.
func NewAuthenticationFailed() *AppError {
	return NewValidation(map[string][]string{
		"base": {"Email or password is incorrect"},
	})
}

// NewNotPermitted creates an authorization failure for the given resource
// and action. authenticated selects the external status: absent principal
// yields 401, present principal yields 403. Both respond with empty bodies.
func NewNotPermitted(authenticated bool, resource, action string) *AppError {
	code := http.StatusUnauthorized
	if authenticated {
		code = http.StatusForbidden
	}
	return &AppError{
		Code:          code,
		Type:          TypeNotPermitted,
		Message:       fmt.Sprintf("not allowed to %s %s", action, resource),
		Resource:      resource,
		Authenticated: authenticated,
	}
}

// NewBadRequest creates a 400 Bad Request error.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    TypeBadRequest,
		Message: message,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     TypeInternal,
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// --- Classification helpers ---

// As unwraps err into an *AppError if possible.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == TypeNotFound
}

// IsValidation reports whether err is a validation (or authentication)
// failure — the kinds a mutation converts into its errors payload field.
func IsValidation(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == TypeValidation
}

// IsNotPermitted reports whether err is an authorization failure.
func IsNotPermitted(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == TypeNotPermitted
}
