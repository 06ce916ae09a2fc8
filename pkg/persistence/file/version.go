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

// VersionRepository stores version snapshots under <root>/workflowVersions.
type VersionRepository struct {
	dir string
}

// NewVersionRepository creates a version repository rooted at the given directory.
func NewVersionRepository(root string) *VersionRepository {
	return &VersionRepository{dir: path.Join(root, "workflowVersions")}
}

// CreateVersion snapshots the given graph as the next version of the
// workflow. The number is derived from the highest stored version; the
// read-then-write is not atomic.
func (vr *VersionRepository) CreateVersion(ctx context.Context, workflowID string, nodes []models.Node, edges []models.Edge, createdBy, description string) (*models.WorkflowVersion, error) {
	existing, err := vr.ListVersions(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	next := 1
	for _, version := range existing {
		if version.Version >= next {
			next = version.Version + 1
		}
	}

	now := time.Now().UTC()

	version := &models.WorkflowVersion{
		ID:          uuid.NewString(),
		WorkflowID:  workflowID,
		Version:     next,
		Nodes:       models.CloneNodes(nodes),
		Edges:       models.CloneEdges(edges),
		CreatedBy:   createdBy,
		CreatedAt:   &now,
		Description: description,
	}

	if err := writeJSON(vr.dir, version.ID, version); err != nil {
		return nil, &persistence.VersionError{Op: "CreateVersion", WorkflowID: workflowID, Version: next, Err: err}
	}

	return version, nil
}

// ListVersions returns all versions of a workflow, newest first.
func (vr *VersionRepository) ListVersions(_ context.Context, workflowID string) ([]*models.WorkflowVersion, error) {
	all, err := listJSON[models.WorkflowVersion](vr.dir)
	if err != nil {
		return nil, &persistence.VersionError{Op: "ListVersions", WorkflowID: workflowID, Err: err}
	}

	versions := make([]*models.WorkflowVersion, 0, len(all))

	for _, version := range all {
		if version.WorkflowID == workflowID {
			versions = append(versions, version)
		}
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].Version > versions[j].Version
	})

	return versions, nil
}
