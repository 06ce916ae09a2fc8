// Package persistence provides the data storage abstraction layer for
// workflows, versions, shares, and user profiles.
package persistence

import (
	"context"

	"github.com/Izguerra/workflow-builder/pkg/models"
)

// WorkflowPatch describes a partial update to a stored workflow. Nil fields
// are left untouched; non-nil fields replace the stored value.
type WorkflowPatch struct {
	Name        *string
	Description *string
	Nodes       []models.Node
	Edges       []models.Edge
	IsPublic    *bool
	Tags        []string
}

// WorkflowRepository stores workflow documents.
type WorkflowRepository interface {
	// Create stores a new workflow and returns its generated identifier.
	// CreatedAt and UpdatedAt are assigned by the store.
	Create(ctx context.Context, workflow *models.Workflow) (string, error)

	// GetByID retrieves a workflow by its identifier.
	GetByID(ctx context.Context, id string) (*models.Workflow, error)

	// GetUserWorkflows returns all workflows owned by the given user,
	// most recently updated first.
	GetUserWorkflows(ctx context.Context, userID string) ([]*models.Workflow, error)

	// Update applies a partial update and bumps UpdatedAt.
	Update(ctx context.Context, id string, patch WorkflowPatch) error

	// Delete removes a workflow by its identifier.
	Delete(ctx context.Context, id string) error
}

// VersionRepository stores immutable workflow version snapshots.
type VersionRepository interface {
	// CreateVersion snapshots the given graph as the next version of the
	// workflow. Version numbers start at 1 and increase by one per save.
	CreateVersion(ctx context.Context, workflowID string, nodes []models.Node, edges []models.Edge, createdBy, description string) (*models.WorkflowVersion, error)

	// ListVersions returns all versions of a workflow, newest first.
	ListVersions(ctx context.Context, workflowID string) ([]*models.WorkflowVersion, error)
}

// ShareRepository stores workflow share grants.
type ShareRepository interface {
	// Share grants a user access to a workflow and returns the share
	// record identifier.
	Share(ctx context.Context, workflowID, byUserID, withUserID string, permission models.SharePermission) (string, error)

	// SharedWorkflows returns the workflows shared with the given user.
	// Shares whose workflow has since been deleted are skipped.
	SharedWorkflows(ctx context.Context, userID string) ([]*models.Workflow, error)
}

// UserRepository stores user profile documents.
type UserRepository interface {
	// CreateUser stores a new user profile with default settings.
	CreateUser(ctx context.Context, id, email string) (*models.User, error)

	// GetUser retrieves a user profile by its identifier.
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Persistence aggregates the repositories of a storage backend.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	VersionRepository() VersionRepository
	ShareRepository() ShareRepository
	UserRepository() UserRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
