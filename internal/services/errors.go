package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/samber/lo"
)

var (
	// ErrNotFound is returned for unknown slugs, usernames and post ids.
	ErrNotFound = errors.New("not found")
	// ErrNotPostAuthor is returned when someone other than the author tries to
	// change a post. Callers redirect instead of reporting a failure.
	ErrNotPostAuthor = errors.New("only the author may change this post")
	// ErrForbidden is returned for administrative actions by non-staff users.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated is returned when an operation needs an acting user.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidCredentials is returned when sign-in fails.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// ValidationError carries field-level messages for a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := lo.Keys(e.Fields)
	sort.Strings(keys)

	parts := lo.Map(keys, func(k string, _ int) string { return k + ": " + e.Fields[k] })
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field, keeping the first one reported.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// OrNil returns e when it holds at least one field error.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// lookupErr turns a repository miss into ErrNotFound, naming what was missing.
func lookupErr(what string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
