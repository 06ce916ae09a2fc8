// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"

	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest       = errors.New("invalid request")
	ErrWorkflowNameRequired = errors.New("workflow name is required")
	ErrInvalidPermission    = errors.New("invalid share permission")
	ErrSelfShare            = errors.New("cannot share a workflow with its owner")

	// Access Errors (403 Forbidden).
	ErrForbidden = errors.New("access to workflow denied")

	// Not Found Errors (404 Not Found).
	ErrWorkflowNotFound = persistence.ErrWorkflowNotFound
	ErrUserNotFound     = persistence.ErrUserNotFound

	// Conflict Errors (409 Conflict).
	ErrUserAlreadyExists = persistence.ErrUserAlreadyExists
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrWorkflowNameRequired) ||
		errors.Is(err, ErrInvalidPermission) ||
		errors.Is(err, ErrSelfShare)
}

// IsForbiddenError checks if an error indicates denied access (HTTP 403).
func IsForbiddenError(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFoundError checks if an error indicates a missing resource (HTTP 404).
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsConflictError checks if an error indicates a duplicate resource (HTTP 409).
func IsConflictError(err error) bool {
	return errors.Is(err, ErrUserAlreadyExists)
}
