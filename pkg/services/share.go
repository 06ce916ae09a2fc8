package services

import (
	"context"
	"fmt"

	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// Share manages workflow share grants.
type Share struct {
	persistence persistence.Persistence
}

// NewShare creates a new share service.
func NewShare(persistence persistence.Persistence) *Share {
	return &Share{persistence: persistence}
}

// Grant shares a workflow with another user. Only the owner may share, the
// permission must be a supported level, and the recipient must exist.
func (s *Share) Grant(ctx context.Context, ownerID, workflowID, withUserID string, permission models.SharePermission) (string, error) {
	if !permission.IsValid() {
		return "", ErrInvalidPermission
	}

	workflow, err := s.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return "", err
	}

	if workflow.UserID != ownerID {
		return "", &ServiceError{Op: "Grant", Err: ErrForbidden}
	}

	if withUserID == ownerID {
		return "", ErrSelfShare
	}

	if _, err := s.persistence.UserRepository().GetUser(ctx, withUserID); err != nil {
		return "", err
	}

	id, err := s.persistence.ShareRepository().Share(ctx, workflowID, ownerID, withUserID, permission)
	if err != nil {
		return "", fmt.Errorf("failed to share workflow: %w", err)
	}

	return id, nil
}
