package services

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Izguerra/workflow-builder/pkg/models"
)

func TestShareGrant(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	workflows := NewWorkflow(store, validator.New(validator.WithRequiredStructEnabled()))
	shares := NewShare(store)

	_, err := store.UserRepository().CreateUser(ctx, "recipient", "recipient@example.com")
	require.NoError(t, err)

	workflow, err := workflows.Create(ctx, "owner", CreateWorkflowRequest{Name: "Pipeline"})
	require.NoError(t, err)

	id, err := shares.Grant(ctx, "owner", workflow.ID, "recipient", models.SharePermissionEdit)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	shared, err := workflows.ListShared(ctx, "recipient")
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, workflow.ID, shared[0].ID)
}

func TestShareGrant_Validation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	workflows := NewWorkflow(store, validator.New(validator.WithRequiredStructEnabled()))
	shares := NewShare(store)

	workflow, err := workflows.Create(ctx, "owner", CreateWorkflowRequest{Name: "Pipeline"})
	require.NoError(t, err)

	_, err = shares.Grant(ctx, "owner", workflow.ID, "recipient", models.SharePermission("admin"))
	assert.ErrorIs(t, err, ErrInvalidPermission)

	_, err = shares.Grant(ctx, "stranger", workflow.ID, "recipient", models.SharePermissionView)
	assert.True(t, IsForbiddenError(err))

	_, err = shares.Grant(ctx, "owner", workflow.ID, "owner", models.SharePermissionView)
	assert.ErrorIs(t, err, ErrSelfShare)

	// The recipient must have a user document.
	_, err = shares.Grant(ctx, "owner", workflow.ID, "ghost", models.SharePermissionView)
	assert.True(t, IsNotFoundError(err))

	_, err = shares.Grant(ctx, "owner", "missing", "recipient", models.SharePermissionView)
	assert.True(t, IsNotFoundError(err))
}
