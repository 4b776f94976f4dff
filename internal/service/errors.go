package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthenticated means no valid bearer token accompanied the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials means a login attempt did not match any stored user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden means the caller is authenticated but may not act on the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the requested identifier does not resolve to a record.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries per-field messages for rejected input.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "The given data was invalid."
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// FieldError builds a ValidationError with a single message.
func FieldError(field, message string) *ValidationError {
	e := &ValidationError{}
	e.Add(field, message)
	return e
}
