package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// ValidationError wraps this so callers can match it with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidTransition is returned when a status change does not follow
	// the task state machine. InvalidTransitionError wraps this.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// FieldError describes a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field violation found during validation,
// not just the first one, so the API can report them all in one response.
type ValidationError struct {
	Violations []FieldError
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

// Unwrap returns ErrValidation to support errors.Is checks.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError from the given violations.
func NewValidationError(violations ...FieldError) *ValidationError {
	return &ValidationError{Violations: violations}
}

// InvalidTransitionError is returned when a requested status change is not a
// legal edge in the task state machine. It carries the current status and the
// set of statuses that are reachable from it.
type InvalidTransitionError struct {
	Current   TaskStatus
	Requested TaskStatus
	Allowed   []TaskStatus
}

// Error implements the error interface for InvalidTransitionError.
func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, string(s))
	}
	return fmt.Sprintf("invalid status transition from %s to %s (allowed: %s)",
		e.Current, e.Requested, strings.Join(allowed, ", "))
}

// Unwrap returns ErrInvalidTransition to support errors.Is checks.
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given
// (current, requested) pair, deriving the allowed set from the current status.
func NewInvalidTransitionError(current, requested TaskStatus) *InvalidTransitionError {
	return &InvalidTransitionError{
		Current:   current,
		Requested: requested,
		Allowed:   AllowedTransitions(current),
	}
}
