// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrVersionNotFound indicates a workflow version was not found.
	ErrVersionNotFound = errors.New("workflow version not found")

	// ErrShareNotFound indicates a share record was not found.
	ErrShareNotFound = errors.New("workflow share not found")

	// ErrUserNotFound indicates a user was not found by the given identifier.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same identifier already exists.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// WorkflowError wraps workflow-related errors with additional context.
type WorkflowError struct {
	Op         string // Operation being performed (e.g., "GetByID", "Update", "Delete")
	WorkflowID string // Workflow ID if applicable
	Err        error  // Underlying error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s operation failed for workflow %s: %v", e.Op, e.WorkflowID, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for workflow errors.
func (e *WorkflowError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewWorkflowError creates a new workflow error with context.
func NewWorkflowError(op, workflowID string, err error) *WorkflowError {
	return &WorkflowError{
		Op:         op,
		WorkflowID: workflowID,
		Err:        err,
	}
}

// VersionError wraps version-related errors with additional context.
type VersionError struct {
	Op         string // Operation being performed
	WorkflowID string // Workflow ID
	Version    int    // Version number if applicable
	Err        error  // Underlying error
}

func (e *VersionError) Error() string {
	if e.Version > 0 {
		return fmt.Sprintf("%s operation failed for version %d of workflow %s: %v", e.Op, e.Version, e.WorkflowID, e.Err)
	}

	return fmt.Sprintf("%s operation failed for versions of workflow %s: %v", e.Op, e.WorkflowID, e.Err)
}

func (e *VersionError) Unwrap() error {
	return e.Err
}

func (e *VersionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// UserError wraps user-related errors with additional context.
type UserError struct {
	Op     string // Operation being performed
	UserID string // User ID
	Err    error  // Underlying error
}

func (e *UserError) Error() string {
	return fmt.Sprintf("%s operation failed for user %s: %v", e.Op, e.UserID, e.Err)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func (e *UserError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsUserNotFound checks if an error indicates a user was not found.
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsUserAlreadyExists checks if an error indicates a duplicate user.
func IsUserAlreadyExists(err error) bool {
	return errors.Is(err, ErrUserAlreadyExists)
}
