// Package shared contains common domain error kinds used across the grade
// tracker's domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState = errors.New("invalid state")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "snapshot", "chart"
	Op      string // Operation that failed, e.g., "Load", "Average"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching. A DomainError matches its Kind, its
// wrapped error, and any DomainError template with the same Domain and Op.
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Domain == t.Domain && e.Op == t.Op && e.Kind == t.Kind
	}
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of the template carrying a more specific message and cause.
// The copy still matches the template with errors.Is.
func (e *DomainError) Wrap(message string, err error) *DomainError {
	return &DomainError{
		Domain:  e.Domain,
		Op:      e.Op,
		Kind:    e.Kind,
		Message: message,
		Err:     err,
	}
}

// Grade entry errors
var (
	ErrInvalidCount    = NewDomainError("student", "Add", ErrInvalidInput, "student count must be a non-negative integer")
	ErrInvalidScore    = NewDomainError("student", "Grade", ErrInvalidInput, "score must be a number")
	ErrScoreOutOfRange = NewDomainError("student", "Grade", ErrValueOutOfRange, "score out of range")
	ErrInputClosed     = NewDomainError("student", "Prompt", ErrInvalidState, "input closed")
)

// Analytics errors
var (
	ErrEmptyGradeSet = NewDomainError("student", "Average", ErrEmptyValue, "student has no grades")
)

// Snapshot errors
var (
	ErrSnapshotCorrupt = NewDomainError("snapshot", "Load", ErrInvalidFormat, "snapshot is not a valid student array")
	ErrSnapshotRead    = NewDomainError("snapshot", "Load", ErrExternalService, "failed to read snapshot")
	ErrSnapshotWrite   = NewDomainError("snapshot", "Save", ErrExternalService, "failed to write snapshot")
	ErrBackendConnect  = NewDomainError("snapshot", "Connect", ErrServiceUnavailable, "snapshot backend unreachable")
)

// Chart errors
var (
	ErrNoStudents     = NewDomainError("chart", "Render", ErrEmptyValue, "no students to chart")
	ErrMissingAverage = NewDomainError("chart", "Render", ErrInvalidState, "average grade not calculated")
	ErrChartDisplay   = NewDomainError("chart", "Display", ErrExternalService, "failed to display chart")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
