package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a domain error code.
type ErrorCode string

const (
	ErrCodeTaskNotFound      ErrorCode = "TASK_NOT_FOUND"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInternalError     ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is matching against a *DomainError by code.
var (
	ErrNotFound          = errors.New("task not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidationFailed  = errors.New("validation failed")
	ErrInternal          = errors.New("internal error")
)

// DomainError represents an error in the domain layer with context.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}

	cause error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause of an internal error, if any.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches the sentinel that corresponds to the error code.
func (e *DomainError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == ErrCodeTaskNotFound
	case ErrInvalidTransition:
		return e.Code == ErrCodeInvalidTransition
	case ErrValidationFailed:
		return e.Code == ErrCodeValidationFailed
	case ErrInternal:
		return e.Code == ErrCodeInternalError
	}
	return false
}

// NewTaskNotFoundError creates a task not found error.
func NewTaskNotFoundError(taskID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeTaskNotFound,
		Message: fmt.Sprintf("Task not found with id: %s", taskID),
		Context: map[string]interface{}{"id": taskID},
	}
}

// NewInvalidTransitionError creates an invalid status transition error.
// The allowed set is only attached when from is not terminal.
func NewInvalidTransitionError(from, to TaskStatus) *DomainError {
	ctx := map[string]interface{}{
		"from": string(from),
		"to":   string(to),
	}

	if from.IsTerminal() {
		return &DomainError{
			Code:    ErrCodeInvalidTransition,
			Message: fmt.Sprintf("Cannot change status of completed task. Current status: %s", from),
			Context: ctx,
		}
	}

	allowed := AllowedTransitions(from)
	names := make([]string, len(allowed))
	edges := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
		edges[i] = fmt.Sprintf("%s → %s", from, s)
	}
	ctx["allowed"] = names

	return &DomainError{
		Code: ErrCodeInvalidTransition,
		Message: fmt.Sprintf("Invalid status transition from %s to %s. Allowed transitions: %s",
			from, to, strings.Join(edges, ", ")),
		Context: ctx,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(details []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Context: map[string]interface{}{"details": details},
	}
}

// NewInternalError creates an internal error. The cause is kept for logging
// but never rendered into the message.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
		Context: map[string]interface{}{},
		cause:   err,
	}
}

// IsNotFound reports whether err is a task not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidTransition reports whether err is an invalid transition error.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// AllowedFromContext extracts the allowed target list from an invalid
// transition error, if present.
func (e *DomainError) AllowedFromContext() []TaskStatus {
	raw, ok := e.Context["allowed"]
	if !ok {
		return nil
	}
	var out []TaskStatus
	switch v := raw.(type) {
	case []string:
		for _, s := range v {
			out = append(out, TaskStatus(s))
		}
	case []interface{}:
		for _, s := range v {
			if str, ok := s.(string); ok {
				out = append(out, TaskStatus(str))
			}
		}
	}
	return out
}
