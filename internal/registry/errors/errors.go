// Package errors defines the error kinds returned by the registry stores and
// services. Every error produced by the constructors here satisfies errors.Is
// against exactly one of the sentinel kinds, so the transport layer can map
// it to a status code without string matching.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound        = fmt.Errorf("not found")
	ErrAlreadyExists   = fmt.Errorf("already exists")
	ErrInvalidState    = fmt.Errorf("invalid state")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrVersionConflict = fmt.Errorf("version conflict")
)

// Error carries a user-facing message and the kind it belongs to.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound reports that no entity matched key=value,
// e.g. "Dog with ID 4 not found".
func NotFound(entity, key string, value any) error {
	return &Error{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("%s with %s %v not found", entity, key, value),
	}
}

// AlreadyExists reports a uniqueness violation,
// e.g. "Supplier with code ELITE_K9 already exists".
func AlreadyExists(entity, key string, value any) error {
	return &Error{
		Kind:    ErrAlreadyExists,
		Message: fmt.Sprintf("%s with %s %v already exists", entity, key, value),
	}
}

// InvalidState reports an operation that the dog's lifecycle state forbids,
// e.g. "Cannot update deleted dog with ID 4".
func InvalidState(operation, state string, id int64) error {
	return &Error{
		Kind:    ErrInvalidState,
		Message: fmt.Sprintf("Cannot %s %s dog with ID %d", operation, state, id),
	}
}

// VersionConflict reports a stale write detected by the optimistic version check.
func VersionConflict(entity string, id int64) error {
	return &Error{
		Kind:    ErrVersionConflict,
		Message: fmt.Sprintf("%s with ID %d was modified concurrently", entity, id),
	}
}

// ValidationError collects field level failures for a single request.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// NewValidationError returns an empty ValidationError with the given summary.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: map[string]string{}}
}

// Add records a failure for field. The first message recorded for a field wins.
func (v *ValidationError) Add(field, message string) {
	if _, ok := v.Fields[field]; ok {
		return
	}
	v.Fields[field] = message
}

// HasErrors reports whether any field failure was recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// OrNil returns v as an error when it holds failures, nil otherwise.
func (v *ValidationError) OrNil() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	if len(v.Fields) == 0 {
		return v.Message
	}
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return v.Message + ": " + strings.Join(parts, "; ")
}

func (v *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Invalid returns a ValidationError with a single field failure.
func Invalid(field, message string) error {
	v := NewValidationError("Validation failed")
	v.Add(field, message)
	return v
}

// AsValidation extracts a *ValidationError from err's chain.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
