// Package hireerr defines the error taxonomy shared by the lead lifecycle,
// the position workflow engine and the HTTP layer. Every failure a caller can
// act on is one of these kinds; raw storage errors never leave the store.
package hireerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an error for status mapping. Unknown errors map to the
// empty kind and are treated as internal.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindInvalidTransition Kind = "invalid_state_transition"
	KindPrecondition      Kind = "precondition_failed"
	KindNotFound          Kind = "not_found"
	KindDuplicate         Kind = "duplicate"
	KindDispatch          Kind = "dispatch"
	KindUnknownArea       Kind = "unknown_area"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPreconditionFailed is returned when a guarded write lost a
	// concurrent race. Callers may re-read current state and retry.
	ErrPreconditionFailed = errors.New("precondition failed")
)

// ValidationError reports malformed or incomplete input, field by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validationf builds a single-field ValidationError.
func Validationf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: fmt.Sprintf(format, args...)}}
}

// InvalidStateTransition names the current and attempted state when an
// operation violates the state machine. It is never retried automatically.
type InvalidStateTransition struct {
	Entity    string
	Current   string
	Attempted string
}

func (e *InvalidStateTransition) Error() string {
	return fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.Current, e.Attempted)
}

// DuplicateError reports a uniqueness violation.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: %q", e.Field, e.Value)
}

// DispatchError wraps a failed notification delivery. It is recorded and
// surfaced, but never rolls back the data write that preceded it.
type DispatchError struct {
	Template  string
	Recipient string
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s to %s: %v", e.Template, e.Recipient, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// UnknownAreaError is returned by the area schema resolver for an
// unrecognized area identifier.
type UnknownAreaError struct {
	Area string
}

func (e *UnknownAreaError) Error() string {
	return fmt.Sprintf("unknown area %q", e.Area)
}

// KindOf classifies err. The zero Kind means internal/unclassified.
func KindOf(err error) Kind {
	var (
		ve  *ValidationError
		ist *InvalidStateTransition
		de  *DuplicateError
		dse *DispatchError
		uae *UnknownAreaError
	)
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &ist):
		return KindInvalidTransition
	case errors.As(err, &de):
		return KindDuplicate
	case errors.As(err, &dse):
		return KindDispatch
	case errors.As(err, &uae):
		return KindUnknownArea
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrPreconditionFailed):
		return KindPrecondition
	}
	return ""
}
