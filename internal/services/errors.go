package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means no inquiry exists with the given ID.
	ErrNotFound = errors.New("inquiry not found")
	// ErrForbidden means the actor's role does not permit the action.
	ErrForbidden = errors.New("forbidden")
	// ErrNotDeleted means restore was attempted on an active inquiry.
	ErrNotDeleted = errors.New("inquiry is not deleted")
)

// ValidationError carries every failing field with its reason, so callers
// can render the complete set rather than the first failure.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// newValidationError returns nil when no fields failed.
func newValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
