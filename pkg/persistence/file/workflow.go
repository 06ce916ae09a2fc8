package file

import (
	"context"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// WorkflowRepository stores workflow documents under <root>/workflows.
type WorkflowRepository struct {
	dir string
}

// NewWorkflowRepository creates a workflow repository rooted at the given directory.
func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{dir: path.Join(root, "workflows")}
}

// Create stores a new workflow document and returns its generated identifier.
func (wr *WorkflowRepository) Create(_ context.Context, workflow *models.Workflow) (string, error) {
	doc := *workflow
	doc.ID = uuid.NewString()

	now := time.Now().UTC()
	doc.CreatedAt = &now
	doc.UpdatedAt = &now

	if err := writeJSON(wr.dir, doc.ID, &doc); err != nil {
		return "", persistence.NewWorkflowError("Create", doc.ID, err)
	}

	return doc.ID, nil
}

// GetByID retrieves a workflow by its ID from the file system.
func (wr *WorkflowRepository) GetByID(_ context.Context, id string) (*models.Workflow, error) {
	workflow, err := readJSON[models.Workflow](wr.dir, id)
	if err != nil {
		return nil, persistence.NewWorkflowError("GetByID", id, err)
	}

	if workflow == nil {
		return nil, persistence.NewWorkflowError("GetByID", id, persistence.ErrWorkflowNotFound)
	}

	return workflow, nil
}

// GetUserWorkflows returns the workflows owned by a user, most recently
// updated first.
func (wr *WorkflowRepository) GetUserWorkflows(_ context.Context, userID string) ([]*models.Workflow, error) {
	all, err := listJSON[models.Workflow](wr.dir)
	if err != nil {
		return nil, persistence.NewWorkflowError("GetUserWorkflows", "", err)
	}

	workflows := make([]*models.Workflow, 0, len(all))

	for _, workflow := range all {
		if workflow.UserID == userID {
			workflows = append(workflows, workflow)
		}
	}

	sort.SliceStable(workflows, func(i, j int) bool {
		return updatedAt(workflows[i]).After(updatedAt(workflows[j]))
	})

	return workflows, nil
}

// Update applies a partial update to a stored workflow and bumps UpdatedAt.
func (wr *WorkflowRepository) Update(ctx context.Context, id string, patch persistence.WorkflowPatch) error {
	workflow, err := wr.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if patch.Name != nil {
		workflow.Name = *patch.Name
	}

	if patch.Description != nil {
		workflow.Description = *patch.Description
	}

	if patch.Nodes != nil {
		workflow.Nodes = patch.Nodes
	}

	if patch.Edges != nil {
		workflow.Edges = patch.Edges
	}

	if patch.IsPublic != nil {
		workflow.IsPublic = *patch.IsPublic
	}

	if patch.Tags != nil {
		workflow.Tags = patch.Tags
	}

	now := time.Now().UTC()
	workflow.UpdatedAt = &now

	if err := writeJSON(wr.dir, id, workflow); err != nil {
		return persistence.NewWorkflowError("Update", id, err)
	}

	return nil
}

// Delete removes a workflow document. Deleting an absent workflow is a no-op.
func (wr *WorkflowRepository) Delete(_ context.Context, id string) error {
	if err := removeJSON(wr.dir, id); err != nil {
		return persistence.NewWorkflowError("Delete", id, err)
	}

	return nil
}

func updatedAt(workflow *models.Workflow) time.Time {
	if workflow.UpdatedAt != nil {
		return *workflow.UpdatedAt
	}

	return time.Time{}
}
