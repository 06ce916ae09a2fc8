package file

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// ShareRepository stores share grants under <root>/workflowShares.
type ShareRepository struct {
	dir       string
	workflows *WorkflowRepository
}

// NewShareRepository creates a share repository rooted at the given directory.
func NewShareRepository(root string, workflows *WorkflowRepository) *ShareRepository {
	return &ShareRepository{
		dir:       path.Join(root, "workflowShares"),
		workflows: workflows,
	}
}

// Share grants a user access to a workflow and returns the share record identifier.
func (sr *ShareRepository) Share(_ context.Context, workflowID, byUserID, withUserID string, permission models.SharePermission) (string, error) {
	now := time.Now().UTC()

	share := &models.WorkflowShare{
		ID:               uuid.NewString(),
		WorkflowID:       workflowID,
		SharedByUserID:   byUserID,
		SharedWithUserID: withUserID,
		Permissions:      permission,
		CreatedAt:        &now,
	}

	if err := writeJSON(sr.dir, share.ID, share); err != nil {
		return "", persistence.NewWorkflowError("Share", workflowID, err)
	}

	return share.ID, nil
}

// SharedWorkflows resolves the workflows shared with a user. Each matching
// share is followed by a single-document workflow read; shares pointing at
// deleted workflows are skipped.
func (sr *ShareRepository) SharedWorkflows(ctx context.Context, userID string) ([]*models.Workflow, error) {
	shares, err := listJSON[models.WorkflowShare](sr.dir)
	if err != nil {
		return nil, persistence.NewWorkflowError("SharedWorkflows", "", err)
	}

	workflows := make([]*models.Workflow, 0, len(shares))

	for _, share := range shares {
		if share.SharedWithUserID != userID {
			continue
		}

		workflow, err := sr.workflows.GetByID(ctx, share.WorkflowID)
		if err != nil {
			if persistence.IsWorkflowNotFound(err) {
				continue
			}

			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}
