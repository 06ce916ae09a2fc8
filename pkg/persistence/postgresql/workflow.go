package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// WorkflowRepository handles workflow-related database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

// Create inserts a new workflow row and returns its generated identifier.
func (r *WorkflowRepository) Create(ctx context.Context, workflow *models.Workflow) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	nodes, edges, tags, err := marshalGraph(workflow.Nodes, workflow.Edges, workflow.Tags)
	if err != nil {
		return "", persistence.NewWorkflowError("Create", id, err)
	}

	query := `
		INSERT INTO workflows (id, name, description, user_id, is_public, tags, nodes, edges, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		id, workflow.Name, workflow.Description, workflow.UserID, workflow.IsPublic,
		tags, nodes, edges, now)
	if err != nil {
		return "", persistence.NewWorkflowError("Create", id, fmt.Errorf("failed to insert workflow: %w", err))
	}

	return id, nil
}

// GetByID returns a workflow by its ID.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := `
		SELECT
			id
		  , name
		  , description
		  , user_id
		  , is_public
		  , tags
		  , nodes
		  , edges
		  , created_at
		  , updated_at
		FROM workflows
		WHERE id = $1
	`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewWorkflowError("GetByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewWorkflowError("GetByID", id, err)
	}

	return workflow, nil
}

// GetUserWorkflows returns the workflows owned by a user, most recently
// updated first.
func (r *WorkflowRepository) GetUserWorkflows(ctx context.Context, userID string) ([]*models.Workflow, error) {
	query := `
		SELECT
			id
		  , name
		  , description
		  , user_id
		  , is_public
		  , tags
		  , nodes
		  , edges
		  , created_at
		  , updated_at
		FROM workflows
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, persistence.NewWorkflowError("GetUserWorkflows", "", fmt.Errorf("failed to query workflows: %w", err))
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, persistence.NewWorkflowError("GetUserWorkflows", "", fmt.Errorf("failed to scan workflow: %w", err))
		}

		workflows = append(workflows, workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, persistence.NewWorkflowError("GetUserWorkflows", "", fmt.Errorf("error iterating workflows: %w", err))
	}

	return workflows, nil
}

// Update applies a partial update and bumps updated_at.
func (r *WorkflowRepository) Update(ctx context.Context, id string, patch persistence.WorkflowPatch) error {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		appendSet("name", *patch.Name)
	}

	if patch.Description != nil {
		appendSet("description", *patch.Description)
	}

	if patch.IsPublic != nil {
		appendSet("is_public", *patch.IsPublic)
	}

	if patch.Nodes != nil {
		nodes, err := json.Marshal(patch.Nodes)
		if err != nil {
			return persistence.NewWorkflowError("Update", id, fmt.Errorf("failed to marshal nodes: %w", err))
		}

		appendSet("nodes", nodes)
	}

	if patch.Edges != nil {
		edges, err := json.Marshal(patch.Edges)
		if err != nil {
			return persistence.NewWorkflowError("Update", id, fmt.Errorf("failed to marshal edges: %w", err))
		}

		appendSet("edges", edges)
	}

	if patch.Tags != nil {
		tags, err := json.Marshal(patch.Tags)
		if err != nil {
			return persistence.NewWorkflowError("Update", id, fmt.Errorf("failed to marshal tags: %w", err))
		}

		appendSet("tags", tags)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE workflows SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return persistence.NewWorkflowError("Update", id, fmt.Errorf("failed to update workflow: %w", err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewWorkflowError("Update", id, fmt.Errorf("failed to check update result: %w", err))
	}

	if affected == 0 {
		return persistence.NewWorkflowError("Update", id, persistence.ErrWorkflowNotFound)
	}

	return nil
}

// Delete removes a workflow row. Deleting an absent workflow is a no-op.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id)
	if err != nil {
		return persistence.NewWorkflowError("Delete", id, fmt.Errorf("failed to delete workflow: %w", err))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var (
		workflow  models.Workflow
		tags      []byte
		nodes     []byte
		edges     []byte
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(
		&workflow.ID, &workflow.Name, &workflow.Description, &workflow.UserID,
		&workflow.IsPublic, &tags, &nodes, &edges, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	workflow.CreatedAt = &createdAt
	workflow.UpdatedAt = &updatedAt

	if tags != nil {
		if err := json.Unmarshal(tags, &workflow.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}

	if err := json.Unmarshal(nodes, &workflow.Nodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal nodes: %w", err)
	}

	if err := json.Unmarshal(edges, &workflow.Edges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal edges: %w", err)
	}

	return &workflow, nil
}

func marshalGraph(nodes []models.Node, edges []models.Edge, tags []string) ([]byte, []byte, []byte, error) {
	if nodes == nil {
		nodes = []models.Node{}
	}

	if edges == nil {
		edges = []models.Edge{}
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal nodes: %w", err)
	}

	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal edges: %w", err)
	}

	var tagsJSON []byte

	if tags != nil {
		tagsJSON, err = json.Marshal(tags)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal tags: %w", err)
		}
	}

	return nodesJSON, edgesJSON, tagsJSON, nil
}
