package canvas

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Izguerra/workflow-builder/pkg/eventbus"
	"github.com/Izguerra/workflow-builder/pkg/events"
	"github.com/Izguerra/workflow-builder/pkg/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event eventbus.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.events)
}

func (p *recordingPublisher) last() eventbus.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.events) == 0 {
		return nil
	}

	return p.events[len(p.events)-1]
}

var (
	alwaysConfirm = ConfirmerFunc(func(string) bool { return true })
	neverConfirm  = ConfirmerFunc(func(string) bool { return false })
)

func newTestController(t *testing.T, confirm Confirmer) (*Controller, *recordingPublisher) {
	t.Helper()

	publisher := &recordingPublisher{}
	controller := NewController(slog.Default(), publisher, confirm, Bounds{Width: 1200, Height: 900})

	return controller, publisher
}

func TestCreateNodeDefaults(t *testing.T) {
	controller, publisher := newTestController(t, alwaysConfirm)

	node, err := controller.CreateNode(t.Context(), models.ServiceTypeDatabase, models.Position{X: 10, Y: 20})
	require.NoError(t, err)

	assert.NotEmpty(t, node.ID)
	assert.Equal(t, models.NodeTypeService, node.Type)
	assert.Equal(t, models.Position{X: 10, Y: 20}, node.Position)
	assert.True(t, strings.HasPrefix(node.Data.Name, "database_"), node.Data.Name)
	assert.Equal(t, models.ServiceTypeDatabase, node.Data.ServiceType)
	assert.NotContains(t, node.Data.Config, "endpoints")
	assert.Equal(t, 1, publisher.count())
}

func TestCreateNodeSeedsEndpointsForAPI(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)

	node, err := controller.CreateNode(t.Context(), models.ServiceTypeAPI, models.Position{})
	require.NoError(t, err)

	endpoints, ok := node.Data.Config["endpoints"]
	require.True(t, ok)
	assert.Empty(t, endpoints)
}

func TestCreateNodeRejectsUnknownServiceType(t *testing.T) {
	controller, publisher := newTestController(t, alwaysConfirm)

	_, err := controller.CreateNode(t.Context(), models.ServiceType("email"), models.Position{})
	assert.ErrorIs(t, err, ErrUnknownServiceType)
	assert.Zero(t, publisher.count())
}

func TestCreateNodeIDsAreCollisionFree(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)
	seen := make(map[string]bool)

	for range 50 {
		node, err := controller.CreateNode(t.Context(), models.ServiceTypeFilter, models.Position{})
		require.NoError(t, err)
		assert.False(t, seen[node.ID], "duplicate id %s", node.ID)
		seen[node.ID] = true
	}
}

func TestPlaceNodeStaysWithinBounds(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)

	for range 20 {
		node, err := controller.PlaceNode(t.Context(), models.ServiceTypeWebhook)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, node.Position.X, 0.0)
		assert.LessOrEqual(t, node.Position.X, 1200.0)
		assert.GreaterOrEqual(t, node.Position.Y, 0.0)
		assert.LessOrEqual(t, node.Position.Y, 900.0)
	}
}

func TestDropNodeLandsAtDropCoordinates(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)

	node, err := controller.DropNode(t.Context(), DragPayload{
		ServiceType: models.ServiceTypeMessaging,
		Position:    models.Position{X: 320, Y: 144},
	})
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 320, Y: 144}, node.Position)
}

func TestRenameCommitReplacesFullLabel(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)
	node, err := controller.CreateNode(t.Context(), models.ServiceTypeAPI, models.Position{})
	require.NoError(t, err)

	require.True(t, controller.BeginRename(node.ID))
	require.NoError(t, controller.SetRenameText(node.ID, "orders endpoint"))
	require.NoError(t, controller.CommitRename(t.Context(), node.ID))

	renamed, found := controller.Graph().NodeByID(node.ID)
	require.True(t, found)
	assert.Equal(t, "orders endpoint", renamed.Data.Name)
}

func TestRenameCancelRestoresPriorName(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)
	node, err := controller.CreateNode(t.Context(), models.ServiceTypeAPI, models.Position{})
	require.NoError(t, err)

	require.True(t, controller.BeginRename(node.ID))
	require.NoError(t, controller.SetRenameText(node.ID, "half-typed"))
	require.NoError(t, controller.CancelRename(node.ID))

	unchanged, found := controller.Graph().NodeByID(node.ID)
	require.True(t, found)
	assert.Equal(t, node.Data.Name, unchanged.Data.Name)

	_, pending := controller.PendingRename(node.ID)
	assert.False(t, pending)
}

func TestRenameAbsentNodeIsNoOp(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)

	assert.False(t, controller.BeginRename("ghost"))
	assert.ErrorIs(t, controller.SetRenameText("ghost", "x"), ErrNoRenameInProgress)
	assert.ErrorIs(t, controller.CancelRename("ghost"), ErrNoRenameInProgress)
}

func TestDeleteNodeRequiresConfirmation(t *testing.T) {
	controller, _ := newTestController(t, neverConfirm)
	node, err := controller.CreateNode(t.Context(), models.ServiceTypeOutput, models.Position{})
	require.NoError(t, err)

	err = controller.DeleteNode(t.Context(), node.ID)
	assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
	assert.Equal(t, 1, controller.Graph().NodeCount())
}

func TestDeleteNodeCascadesAndClosesPanel(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)
	ctx := t.Context()

	api, err := controller.CreateNode(ctx, models.ServiceTypeAPI, models.Position{})
	require.NoError(t, err)
	out, err := controller.CreateNode(ctx, models.ServiceTypeOutput, models.Position{})
	require.NoError(t, err)

	_, err = controller.Connect(ctx, api.ID, out.ID, "", "")
	require.NoError(t, err)

	require.True(t, controller.SelectNode(api.ID))
	require.NoError(t, controller.DeleteNode(ctx, api.ID))

	snapshot := controller.Graph()
	assert.Equal(t, 1, snapshot.NodeCount())
	assert.Equal(t, 0, snapshot.EdgeCount())
	assert.Empty(t, controller.SelectedNode(), "config panel selection should close")
}

func TestSelectionIsExclusive(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)
	ctx := t.Context()

	api, err := controller.CreateNode(ctx, models.ServiceTypeAPI, models.Position{})
	require.NoError(t, err)
	out, err := controller.CreateNode(ctx, models.ServiceTypeOutput, models.Position{})
	require.NoError(t, err)
	edge, err := controller.Connect(ctx, api.ID, out.ID, "", "")
	require.NoError(t, err)

	require.True(t, controller.SelectNode(api.ID))
	require.True(t, controller.SelectEdge(edge.ID))
	assert.Empty(t, controller.SelectedNode())
	assert.Equal(t, edge.ID, controller.SelectedEdge())

	require.True(t, controller.SelectNode(out.ID))
	assert.Empty(t, controller.SelectedEdge())

	controller.ClearSelection()
	assert.Empty(t, controller.SelectedNode())
	assert.Empty(t, controller.SelectedEdge())
}

func TestMutationsPublishGraphChanged(t *testing.T) {
	controller, publisher := newTestController(t, alwaysConfirm)
	ctx := t.Context()

	node, err := controller.CreateNode(ctx, models.ServiceTypeAPI, models.Position{})
	require.NoError(t, err)

	event, ok := publisher.last().(events.GraphChanged)
	require.True(t, ok)
	require.Len(t, event.Nodes, 1)
	assert.Equal(t, node.ID, event.Nodes[0].ID)
	assert.Equal(t, events.GraphChangedEvent, event.GetType())
}

func TestResetGraphDropsSelectionAndEdits(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)
	ctx := t.Context()

	node, err := controller.CreateNode(ctx, models.ServiceTypeAPI, models.Position{})
	require.NoError(t, err)
	require.True(t, controller.SelectNode(node.ID))
	require.True(t, controller.BeginRename(node.ID))

	require.NoError(t, controller.ResetGraph(ctx, nil, nil))

	assert.Equal(t, 0, controller.Graph().NodeCount())
	assert.Empty(t, controller.SelectedNode())
	_, pending := controller.PendingRename(node.ID)
	assert.False(t, pending)
}

func TestUpdateNodeConfigStoresValues(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)
	ctx := t.Context()

	node, err := controller.CreateNode(ctx, models.ServiceTypeDatabase, models.Position{})
	require.NoError(t, err)

	err = controller.UpdateNodeConfig(ctx, node.ID, map[string]any{"query": "SELECT 1"})
	require.NoError(t, err)

	stored, found := controller.Graph().NodeByID(node.ID)
	require.True(t, found)
	assert.Equal(t, "SELECT 1", stored.Data.Config["query"])

	err = controller.UpdateNodeConfig(ctx, "missing", map[string]any{})
	assert.Error(t, err)
}

func TestUpdateNodeConfigCopiesPanelMap(t *testing.T) {
	controller, _ := newTestController(t, alwaysConfirm)
	ctx := t.Context()

	node, err := controller.CreateNode(ctx, models.ServiceTypeAPI, models.Position{})
	require.NoError(t, err)

	config := map[string]any{
		"url":     "https://api.example.com",
		"headers": map[string]any{"Authorization": "Bearer token"},
	}
	require.NoError(t, controller.UpdateNodeConfig(ctx, node.ID, config))

	// The panel keeps editing its own map after applying.
	config["url"] = "https://mutated.example.com"
	config["headers"].(map[string]any)["Authorization"] = "none"

	stored, found := controller.Graph().NodeByID(node.ID)
	require.True(t, found)
	assert.Equal(t, "https://api.example.com", stored.Data.Config["url"])
	assert.Equal(t, "Bearer token", stored.Data.Config["headers"].(map[string]any)["Authorization"])
}
