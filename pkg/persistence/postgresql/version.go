package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// VersionRepository handles workflow version snapshots.
type VersionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewVersionRepository creates a new version repository.
func NewVersionRepository(db *sql.DB, logger *slog.Logger) *VersionRepository {
	return &VersionRepository{db: db, logger: logger}
}

// CreateVersion snapshots the given graph as the next version of the
// workflow. The number comes from a MAX query followed by an insert, so
// concurrent snapshots can collide on a number.
func (r *VersionRepository) CreateVersion(ctx context.Context, workflowID string, nodes []models.Node, edges []models.Edge, createdBy, description string) (*models.WorkflowVersion, error) {
	var current int

	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM workflow_versions WHERE workflow_id = $1",
		workflowID).Scan(&current)
	if err != nil {
		return nil, &persistence.VersionError{Op: "CreateVersion", WorkflowID: workflowID, Err: fmt.Errorf("failed to query current version: %w", err)}
	}

	next := current + 1
	now := time.Now().UTC()

	nodesJSON, edgesJSON, _, err := marshalGraph(nodes, edges, nil)
	if err != nil {
		return nil, &persistence.VersionError{Op: "CreateVersion", WorkflowID: workflowID, Version: next, Err: err}
	}

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

	query := `
		INSERT INTO workflow_versions (id, workflow_id, version, nodes, edges, created_by, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		version.ID, workflowID, next, nodesJSON, edgesJSON, createdBy, description, now)
	if err != nil {
		return nil, &persistence.VersionError{Op: "CreateVersion", WorkflowID: workflowID, Version: next, Err: fmt.Errorf("failed to insert version: %w", err)}
	}

	return version, nil
}

// ListVersions returns all versions of a workflow, newest first.
func (r *VersionRepository) ListVersions(ctx context.Context, workflowID string) ([]*models.WorkflowVersion, error) {
	query := `
		SELECT
			id
		  , workflow_id
		  , version
		  , nodes
		  , edges
		  , created_by
		  , description
		  , created_at
		FROM workflow_versions
		WHERE workflow_id = $1
		ORDER BY version DESC
	`

	rows, err := r.db.QueryContext(ctx, query, workflowID)
	if err != nil {
		return nil, &persistence.VersionError{Op: "ListVersions", WorkflowID: workflowID, Err: fmt.Errorf("failed to query versions: %w", err)}
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	versions := make([]*models.WorkflowVersion, 0)

	for rows.Next() {
		var (
			version   models.WorkflowVersion
			nodes     []byte
			edges     []byte
			createdAt time.Time
		)

		err := rows.Scan(&version.ID, &version.WorkflowID, &version.Version,
			&nodes, &edges, &version.CreatedBy, &version.Description, &createdAt)
		if err != nil {
			return nil, &persistence.VersionError{Op: "ListVersions", WorkflowID: workflowID, Err: fmt.Errorf("failed to scan version: %w", err)}
		}

		version.CreatedAt = &createdAt

		if err := json.Unmarshal(nodes, &version.Nodes); err != nil {
			return nil, &persistence.VersionError{Op: "ListVersions", WorkflowID: workflowID, Err: fmt.Errorf("failed to unmarshal nodes: %w", err)}
		}

		if err := json.Unmarshal(edges, &version.Edges); err != nil {
			return nil, &persistence.VersionError{Op: "ListVersions", WorkflowID: workflowID, Err: fmt.Errorf("failed to unmarshal edges: %w", err)}
		}

		versions = append(versions, &version)
	}

	if err := rows.Err(); err != nil {
		return nil, &persistence.VersionError{Op: "ListVersions", WorkflowID: workflowID, Err: fmt.Errorf("error iterating versions: %w", err)}
	}

	return versions, nil
}
