// Package web provides HTTP request and response types for the workflow builder API.
package web

import "github.com/Izguerra/workflow-builder/pkg/models"

// SignupRequest represents the request body for registering a new account.
type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignupResponse returns the identity created for a new account.
type SignupResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// CreateWorkflowRequest represents the request body for saving a workflow.
type CreateWorkflowRequest struct {
	Name        string        `json:"name"                  validate:"required,min=1"`
	Description string        `json:"description,omitempty" validate:"max=2000"`
	Nodes       []models.Node `json:"nodes"`
	Edges       []models.Edge `json:"edges"`
	IsPublic    bool          `json:"isPublic"`
	Tags        []string      `json:"tags,omitempty"`
}

// UpdateWorkflowRequest represents the request body for updating an existing workflow.
// All fields are optional to support partial updates.
type UpdateWorkflowRequest struct {
	Name        *string       `json:"name,omitempty"        validate:"omitempty,min=1"`
	Description *string       `json:"description,omitempty"`
	Nodes       []models.Node `json:"nodes,omitempty"`
	Edges       []models.Edge `json:"edges,omitempty"`
	IsPublic    *bool         `json:"isPublic,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
}

// CreateVersionRequest represents the request body for snapshotting a workflow.
type CreateVersionRequest struct {
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// ShareWorkflowRequest represents the request body for sharing a workflow.
type ShareWorkflowRequest struct {
	UserID     string `json:"userId"     validate:"required"`
	Permission string `json:"permission" validate:"required,oneof=view edit"`
}

// ShareWorkflowResponse returns the created share record identifier.
type ShareWorkflowResponse struct {
	ID string `json:"id"`
}
