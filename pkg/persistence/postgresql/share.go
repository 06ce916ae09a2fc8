package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// ShareRepository handles workflow share grants.
type ShareRepository struct {
	db        *sql.DB
	workflows *WorkflowRepository
}

// NewShareRepository creates a new share repository.
func NewShareRepository(db *sql.DB, workflows *WorkflowRepository) *ShareRepository {
	return &ShareRepository{db: db, workflows: workflows}
}

// Share grants a user access to a workflow and returns the share record identifier.
func (r *ShareRepository) Share(ctx context.Context, workflowID, byUserID, withUserID string, permission models.SharePermission) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	query := `
		INSERT INTO workflow_shares (id, workflow_id, shared_by_user_id, shared_with_user_id, permissions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query, id, workflowID, byUserID, withUserID, string(permission), now)
	if err != nil {
		return "", persistence.NewWorkflowError("Share", workflowID, fmt.Errorf("failed to insert share: %w", err))
	}

	return id, nil
}

// SharedWorkflows resolves the workflows shared with a user. Each share is
// followed by a single-row workflow read; shares pointing at deleted
// workflows are skipped.
func (r *ShareRepository) SharedWorkflows(ctx context.Context, userID string) ([]*models.Workflow, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT workflow_id FROM workflow_shares WHERE shared_with_user_id = $1", userID)
	if err != nil {
		return nil, persistence.NewWorkflowError("SharedWorkflows", "", fmt.Errorf("failed to query shares: %w", err))
	}

	workflowIDs := make([]string, 0)

	for rows.Next() {
		var workflowID string

		if err := rows.Scan(&workflowID); err != nil {
			_ = rows.Close()

			return nil, persistence.NewWorkflowError("SharedWorkflows", "", fmt.Errorf("failed to scan share: %w", err))
		}

		workflowIDs = append(workflowIDs, workflowID)
	}

	if err := rows.Err(); err != nil {
		_ = rows.Close()

		return nil, persistence.NewWorkflowError("SharedWorkflows", "", fmt.Errorf("error iterating shares: %w", err))
	}

	_ = rows.Close()

	workflows := make([]*models.Workflow, 0, len(workflowIDs))

	for _, workflowID := range workflowIDs {
		workflow, err := r.workflows.GetByID(ctx, workflowID)
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
