package session

import (
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Izguerra/workflow-builder/pkg/canvas"
	"github.com/Izguerra/workflow-builder/pkg/channels/gochannel"
	"github.com/Izguerra/workflow-builder/pkg/eventbus"
	"github.com/Izguerra/workflow-builder/pkg/models"
)

var alwaysConfirm = canvas.ConfirmerFunc(func(string) bool { return true })

type fixture struct {
	controller *canvas.Controller
	manager    *Manager
	clock      *fakeClock
}

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// newFixture wires a canvas and session over a blocking in-memory channel so
// graph changes are mirrored before the publishing call returns.
func newFixture(t *testing.T, confirm canvas.Confirmer) *fixture {
	t.Helper()

	logger := slog.Default()
	pub, sub, err := gochannel.CreateTestChannel(watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	controller := canvas.NewController(logger, bus, confirm, canvas.Bounds{Width: 1200, Height: 900})
	manager := NewManager(logger, controller, bus, confirm)
	require.NoError(t, manager.Attach(bus))
	require.NoError(t, bus.Subscribe(t.Context()))

	clock := &fakeClock{current: time.Now()}
	manager.now = clock.now

	return &fixture{controller: controller, manager: manager, clock: clock}
}

func TestSessionStartsWithDefaultWorkflow(t *testing.T) {
	f := newFixture(t, alwaysConfirm)

	records := f.manager.Workflows()
	require.Len(t, records, 1)
	assert.Equal(t, models.DefaultWorkflowName, records[0].Name)
	assert.Equal(t, records[0].ID, f.manager.ActiveID())
}

func TestGraphChangesMirrorIntoActiveRecord(t *testing.T) {
	f := newFixture(t, alwaysConfirm)

	node, err := f.controller.CreateNode(t.Context(), models.ServiceTypeAPI, models.Position{})
	require.NoError(t, err)

	active, ok := f.manager.Active()
	require.True(t, ok)
	require.Len(t, active.Nodes, 1)
	assert.Equal(t, node.ID, active.Nodes[0].ID)
}

func TestNewWorkflowDebounce(t *testing.T) {
	f := newFixture(t, alwaysConfirm)
	ctx := t.Context()

	_, err := f.manager.New(ctx)
	require.NoError(t, err)

	_, err = f.manager.New(ctx)
	assert.ErrorIs(t, err, ErrCreateDebounced)

	f.clock.advance(2 * time.Second)

	_, err = f.manager.New(ctx)
	assert.NoError(t, err)
	assert.Len(t, f.manager.Workflows(), 3)
}

func TestSwitchingPreservesIndependentRecords(t *testing.T) {
	f := newFixture(t, alwaysConfirm)
	ctx := t.Context()

	first := f.manager.ActiveID()
	_, err := f.controller.CreateNode(ctx, models.ServiceTypeAPI, models.Position{})
	require.NoError(t, err)

	f.clock.advance(2 * time.Second)
	second, err := f.manager.New(ctx)
	require.NoError(t, err)

	_, err = f.controller.CreateNode(ctx, models.ServiceTypeDatabase, models.Position{})
	require.NoError(t, err)
	_, err = f.controller.CreateNode(ctx, models.ServiceTypeOutput, models.Position{})
	require.NoError(t, err)

	// The first record's snapshot is untouched by edits to the second.
	for _, record := range f.manager.Workflows() {
		switch record.ID {
		case first:
			assert.Len(t, record.Nodes, 1)
		case second.ID:
			assert.Len(t, record.Nodes, 2)
		}
	}

	// Switching back restores the first record's graph on the canvas.
	require.NoError(t, f.manager.SwitchActive(ctx, first))
	assert.Equal(t, 1, f.controller.Graph().NodeCount())

	require.NoError(t, f.manager.SwitchActive(ctx, second.ID))
	assert.Equal(t, 2, f.controller.Graph().NodeCount())
}

func TestDeleteLastWorkflowIsRejected(t *testing.T) {
	f := newFixture(t, alwaysConfirm)

	err := f.manager.Delete(t.Context(), f.manager.ActiveID())
	assert.ErrorIs(t, err, ErrLastWorkflow)
	assert.Len(t, f.manager.Workflows(), 1)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t, canvas.ConfirmerFunc(func(prompt string) bool {
		// Node deletes would confirm, workflow deletes decline.
		return prompt != "Are you sure you want to delete this workflow?"
	}))
	ctx := t.Context()

	created, err := f.manager.New(ctx)
	require.NoError(t, err)

	err = f.manager.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
	assert.Len(t, f.manager.Workflows(), 2)
}

func TestDeleteActiveActivatesSurvivor(t *testing.T) {
	f := newFixture(t, alwaysConfirm)
	ctx := t.Context()

	first := f.manager.ActiveID()
	_, err := f.controller.CreateNode(ctx, models.ServiceTypeFilter, models.Position{})
	require.NoError(t, err)

	created, err := f.manager.New(ctx)
	require.NoError(t, err)
	require.Equal(t, created.ID, f.manager.ActiveID())

	require.NoError(t, f.manager.Delete(ctx, created.ID))

	assert.Equal(t, first, f.manager.ActiveID())
	assert.Equal(t, 1, f.controller.Graph().NodeCount())
}

func TestRenameValidation(t *testing.T) {
	f := newFixture(t, alwaysConfirm)
	ctx := t.Context()
	id := f.manager.ActiveID()

	assert.ErrorIs(t, f.manager.Rename(ctx, id, "   "), ErrEmptyName)
	assert.ErrorIs(t, f.manager.Rename(ctx, "ghost", "valid"), ErrWorkflowNotFound)

	require.NoError(t, f.manager.Rename(ctx, id, "  Billing pipeline  "))
	active, _ := f.manager.Active()
	assert.Equal(t, "Billing pipeline", active.Name)
}
