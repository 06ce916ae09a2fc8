package services

import (
	"context"
	"fmt"

	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// Version manages immutable snapshots of the remote workflow tier.
type Version struct {
	persistence persistence.Persistence
}

// NewVersion creates a new version service.
func NewVersion(persistence persistence.Persistence) *Version {
	return &Version{persistence: persistence}
}

// Snapshot records the workflow's current stored graph as its next version.
// Only the owner may snapshot. Concurrent snapshots can collide on a
// version number; the last write wins.
func (v *Version) Snapshot(ctx context.Context, userID, workflowID, description string) (*models.WorkflowVersion, error) {
	workflow, err := v.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if workflow.UserID != userID {
		return nil, &ServiceError{Op: "Snapshot", Err: ErrForbidden}
	}

	version, err := v.persistence.VersionRepository().CreateVersion(ctx, workflowID, workflow.Nodes, workflow.Edges, userID, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create version: %w", err)
	}

	return version, nil
}

// List returns the workflow's versions, newest first. Read access follows
// the workflow itself: owner or public.
func (v *Version) List(ctx context.Context, userID, workflowID string) ([]*models.WorkflowVersion, error) {
	workflow, err := v.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if workflow.UserID != userID && !workflow.IsPublic {
		return nil, &ServiceError{Op: "List", Err: ErrForbidden}
	}

	return v.persistence.VersionRepository().ListVersions(ctx, workflowID)
}
