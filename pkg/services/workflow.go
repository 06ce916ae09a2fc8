package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Izguerra/workflow-builder/pkg/eventbus"
	"github.com/Izguerra/workflow-builder/pkg/events"
	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// Workflow orchestrates the remote workflow tier: ownership stamping,
// access checks, and persistence calls.
type Workflow struct {
	persistence persistence.Persistence
	validator   *validator.Validate
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(persistence persistence.Persistence, validator *validator.Validate) *Workflow {
	return &Workflow{
		persistence: persistence,
		validator:   validator,
	}
}

// AttachPublisher makes the service announce successful saves on the given
// publisher. Without one, saves stay silent.
func (w *Workflow) AttachPublisher(logger *slog.Logger, publisher eventbus.EventPublisher) {
	w.logger = logger
	w.publisher = publisher
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// CreateWorkflowRequest contains the fields for saving a new workflow.
type CreateWorkflowRequest struct {
	Name        string        `validate:"required,min=1"`
	Description string        `validate:"max=2000"`
	Nodes       []models.Node `validate:"-"`
	Edges       []models.Edge `validate:"-"`
	IsPublic    bool
	Tags        []string
}

// Create stores a new workflow owned by the given user and returns it.
func (w *Workflow) Create(ctx context.Context, userID string, req CreateWorkflowRequest) (*models.Workflow, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrWorkflowNameRequired
	}

	if err := w.validator.Struct(req); err != nil {
		return nil, &ServiceError{Op: "Create", Err: fmt.Errorf("%w: %w", ErrInvalidRequest, err)}
	}

	workflow := &models.Workflow{
		Name:        req.Name,
		Description: req.Description,
		Nodes:       models.CloneNodes(req.Nodes),
		Edges:       models.CloneEdges(req.Edges),
		UserID:      userID,
		IsPublic:    req.IsPublic,
		Tags:        req.Tags,
	}

	id, err := w.persistence.WorkflowRepository().Create(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	w.publishSaved(ctx, id, userID)

	return w.persistence.WorkflowRepository().GetByID(ctx, id)
}

// Get returns a workflow if the user may read it: the owner, any reader of
// a public workflow, or a share recipient.
func (w *Workflow) Get(ctx context.Context, userID, id string) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if workflow.UserID == userID || workflow.IsPublic {
		return workflow, nil
	}

	shared, err := w.sharedWith(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if !shared {
		return nil, &ServiceError{Op: "Get", Err: ErrForbidden}
	}

	return workflow, nil
}

// List returns the workflows owned by the user, most recently updated first.
func (w *Workflow) List(ctx context.Context, userID string) ([]*models.Workflow, error) {
	return w.persistence.WorkflowRepository().GetUserWorkflows(ctx, userID)
}

// ListShared returns the workflows shared with the user.
func (w *Workflow) ListShared(ctx context.Context, userID string) ([]*models.Workflow, error) {
	return w.persistence.ShareRepository().SharedWorkflows(ctx, userID)
}

// UpdateWorkflowRequest contains the fields for a partial workflow update.
// Nil fields are left untouched.
type UpdateWorkflowRequest struct {
	Name        *string
	Description *string
	Nodes       []models.Node
	Edges       []models.Edge
	IsPublic    *bool
	Tags        []string
}

// Update applies a partial update. Only the owner may update a workflow.
// A renamed workflow keeps its trimmed name; an empty name is rejected.
func (w *Workflow) Update(ctx context.Context, userID, id string, req UpdateWorkflowRequest) (*models.Workflow, error) {
	if err := w.requireOwner(ctx, userID, id, "Update"); err != nil {
		return nil, err
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, ErrWorkflowNameRequired
		}

		req.Name = &trimmed
	}

	patch := persistence.WorkflowPatch{
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
		Edges:       req.Edges,
		IsPublic:    req.IsPublic,
		Tags:        req.Tags,
	}

	if err := w.persistence.WorkflowRepository().Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	w.publishSaved(ctx, id, userID)

	return w.persistence.WorkflowRepository().GetByID(ctx, id)
}

// Delete removes a workflow. Only the owner may delete it.
func (w *Workflow) Delete(ctx context.Context, userID, id string) error {
	if err := w.requireOwner(ctx, userID, id, "Delete"); err != nil {
		return err
	}

	return w.persistence.WorkflowRepository().Delete(ctx, id)
}

// publishSaved announces a completed save. A failed publish never fails the
// save itself; the record is already stored.
func (w *Workflow) publishSaved(ctx context.Context, workflowID, userID string) {
	if w.publisher == nil {
		return
	}

	event := events.WorkflowSaved{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.WorkflowSavedEvent,
			Timestamp: time.Now(),
		},
		WorkflowID: workflowID,
		UserID:     userID,
	}

	if err := w.publisher.Publish(ctx, workflowID, event); err != nil && w.logger != nil {
		w.logger.ErrorContext(ctx, "failed to publish workflow saved event", "workflow_id", workflowID, "error", err)
	}
}

func (w *Workflow) requireOwner(ctx context.Context, userID, id, op string) error {
	workflow, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if workflow.UserID != userID {
		return &ServiceError{Op: op, Err: ErrForbidden}
	}

	return nil
}

// sharedWith resolves the user's shared workflows and reports whether the
// given workflow is among them.
func (w *Workflow) sharedWith(ctx context.Context, userID, id string) (bool, error) {
	shared, err := w.persistence.ShareRepository().SharedWorkflows(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, workflow := range shared {
		if workflow.ID == id {
			return true, nil
		}
	}

	return false, nil
}
