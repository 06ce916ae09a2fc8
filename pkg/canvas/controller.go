// Package canvas owns the interactive editing surface: the live graph
// snapshot, node lifecycle (create, rename, delete), edge styling commands
// and exclusive selection state. Mutations are applied synchronously on the
// caller's goroutine and announced on the event bus so observers such as the
// session manager can mirror the canvas without a direct dependency.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Izguerra/workflow-builder/pkg/eventbus"
	"github.com/Izguerra/workflow-builder/pkg/events"
	"github.com/Izguerra/workflow-builder/pkg/graph"
	"github.com/Izguerra/workflow-builder/pkg/models"
)

var (
	// ErrUnknownServiceType indicates a create request with a service type
	// outside the palette.
	ErrUnknownServiceType = errors.New("unknown service type")

	// ErrDeleteNotConfirmed indicates the user declined the delete prompt.
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")

	// ErrNoRenameInProgress indicates a rename commit or cancel without a
	// matching begin.
	ErrNoRenameInProgress = errors.New("no rename in progress")
)

const deleteNodePrompt = "Are you sure you want to delete this node?"

// Confirmer gates destructive actions behind an explicit yes/no decision.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Bounds is the visible canvas area used for randomized node placement.
type Bounds struct {
	Width  float64
	Height float64
}

// DragPayload is the palette item carried by a drag-and-drop gesture.
type DragPayload struct {
	ServiceType models.ServiceType
	Position    models.Position
}

type renameSession struct {
	original string
	pending  string
}

// Controller is the canvas owner. All exported methods are safe for
// concurrent use, although a single session drives them from one event loop.
type Controller struct {
	mu sync.Mutex

	graph          graph.Graph
	selectedNodeID string
	selectedEdgeID string

	rename       map[string]*renameSession
	labelEditing map[string]string // edge id -> pending label text

	publisher eventbus.EventPublisher
	confirm   Confirmer
	bounds    Bounds
	logger    *slog.Logger
	rng       *rand.Rand
}

// NewController creates a canvas controller publishing change events through
// the given publisher and gating destructive actions on the confirmer.
func NewController(logger *slog.Logger, publisher eventbus.EventPublisher, confirm Confirmer, bounds Bounds) *Controller {
	return &Controller{
		graph:        graph.Graph{},
		rename:       make(map[string]*renameSession),
		labelEditing: make(map[string]string),
		publisher:    publisher,
		confirm:      confirm,
		bounds:       bounds,
		logger:       logger,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Graph returns the current canvas snapshot.
func (c *Controller) Graph() graph.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.graph
}

// ResetGraph replaces the canvas contents, e.g. when switching the active
// workflow or replaying a quick-save snapshot. Selection and any in-flight
// rename or label edits are dropped with the old graph.
func (c *Controller) ResetGraph(ctx context.Context, nodes []models.Node, edges []models.Edge) error {
	next, err := graph.New(nodes, edges)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.graph = next
	c.selectedNodeID = ""
	c.selectedEdgeID = ""
	c.rename = make(map[string]*renameSession)
	c.labelEditing = make(map[string]string)
	c.mu.Unlock()

	c.publishChange(ctx)

	return nil
}

// CreateNode places a new service node at the given position. The id is a
// fresh UUID so two creations in the same tick never collide, the default
// name is "<serviceType>_<n>" with a random 0-999 suffix, and API nodes get
// an empty endpoints list pre-seeded into their config.
func (c *Controller) CreateNode(ctx context.Context, serviceType models.ServiceType, position models.Position) (models.Node, error) {
	if !serviceType.IsValid() {
		return models.Node{}, fmt.Errorf("%w: %s", ErrUnknownServiceType, serviceType)
	}

	c.mu.Lock()

	node := models.Node{
		ID:       uuid.NewString(),
		Type:     models.NodeTypeService,
		Position: position,
		Data: models.NodeData{
			Name:        fmt.Sprintf("%s_%d", serviceType, c.rng.Intn(1000)),
			ServiceType: serviceType,
			Config:      defaultConfig(serviceType),
		},
	}

	next, err := c.graph.AddNode(node)
	if err != nil {
		c.mu.Unlock()

		return models.Node{}, err
	}

	c.graph = next
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "node created", "node_id", node.ID, "service_type", serviceType)
	c.publishChange(ctx)

	return node, nil
}

// DropNode handles a palette item dropped onto the canvas: the node lands at
// the drop coordinates with the service type read from the drag payload.
func (c *Controller) DropNode(ctx context.Context, payload DragPayload) (models.Node, error) {
	return c.CreateNode(ctx, payload.ServiceType, payload.Position)
}

// PlaceNode handles a palette click without a drag: the node lands at a
// randomized position within the visible canvas bounds.
func (c *Controller) PlaceNode(ctx context.Context, serviceType models.ServiceType) (models.Node, error) {
	c.mu.Lock()
	position := models.Position{
		X: c.rng.Float64() * c.bounds.Width / 3,
		Y: c.rng.Float64() * c.bounds.Height / 3,
	}
	c.mu.Unlock()

	return c.CreateNode(ctx, serviceType, position)
}

// BeginRename opens an inline rename for the node. A no-op returning false
// if the node is absent.
func (c *Controller) BeginRename(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, found := c.graph.NodeByID(id)
	if !found {
		return false
	}

	c.rename[id] = &renameSession{original: node.Data.Name, pending: node.Data.Name}

	return true
}

// SetRenameText updates the pending rename text for the node.
func (c *Controller) SetRenameText(id, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, open := c.rename[id]
	if !open {
		return ErrNoRenameInProgress
	}

	session.pending = text

	return nil
}

// CommitRename applies the pending text as the node's name, replacing the
// full label. Triggered by Enter or blur. A no-op if the node disappeared
// while the rename was open.
func (c *Controller) CommitRename(ctx context.Context, id string) error {
	c.mu.Lock()

	session, open := c.rename[id]
	if !open {
		c.mu.Unlock()

		return ErrNoRenameInProgress
	}

	delete(c.rename, id)

	next, err := c.graph.UpdateNodeData(id, func(data models.NodeData) models.NodeData {
		data.Name = session.pending

		return data
	})
	if err != nil {
		c.mu.Unlock()

		// Node deleted mid-edit; nothing to rename.
		return nil
	}

	c.graph = next
	c.mu.Unlock()

	c.publishChange(ctx)

	return nil
}

// CancelRename discards the pending text, restoring the prior displayed
// name. Triggered by Escape.
func (c *Controller) CancelRename(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, open := c.rename[id]; !open {
		return ErrNoRenameInProgress
	}

	delete(c.rename, id)

	return nil
}

// PendingRename returns the in-flight rename text for the node, if any.
func (c *Controller) PendingRename(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, open := c.rename[id]
	if !open {
		return "", false
	}

	return session.pending, true
}

// DeleteNode removes the node and every incident edge after the user
// confirms. If the node was selected (its config panel open), the selection
// is cleared so the panel closes.
func (c *Controller) DeleteNode(ctx context.Context, id string) error {
	if !c.confirm.Confirm(deleteNodePrompt) {
		return ErrDeleteNotConfirmed
	}

	c.mu.Lock()

	next, err := c.graph.RemoveNode(id)
	if err != nil {
		c.mu.Unlock()

		return err
	}

	c.graph = next
	if c.selectedNodeID == id {
		c.selectedNodeID = ""
	}

	delete(c.rename, id)
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "node deleted", "node_id", id)
	c.publishChange(ctx)

	return nil
}

// UpdateNodeConfig replaces a config value on the node, as driven by the
// configuration panel.
func (c *Controller) UpdateNodeConfig(ctx context.Context, id string, config map[string]any) error {
	c.mu.Lock()

	next, err := c.graph.UpdateNodeData(id, func(data models.NodeData) models.NodeData {
		// Copy the panel's map so later edits on it cannot reach into the
		// stored snapshot.
		data.Config = models.CloneConfig(config)

		return data
	})
	if err != nil {
		c.mu.Unlock()

		return err
	}

	c.graph = next
	c.mu.Unlock()

	c.publishChange(ctx)

	return nil
}

// SelectNode makes the node the exclusive selection, clearing any selected
// edge.
func (c *Controller) SelectNode(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, found := c.graph.NodeByID(id); !found {
		return false
	}

	c.selectedNodeID = id
	c.selectedEdgeID = ""

	return true
}

// SelectedNode returns the currently selected node id, empty when none.
func (c *Controller) SelectedNode() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selectedNodeID
}

// ClearSelection drops node and edge selection, e.g. on a pane click.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selectedNodeID = ""
	c.selectedEdgeID = ""
}

func (c *Controller) publishChange(ctx context.Context) {
	if c.publisher == nil {
		return
	}

	c.mu.Lock()
	event := events.GraphChanged{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.GraphChangedEvent,
			Timestamp: time.Now(),
		},
		Nodes: c.graph.Nodes(),
		Edges: c.graph.Edges(),
	}
	c.mu.Unlock()

	if err := c.publisher.Publish(ctx, "canvas", event); err != nil {
		c.logger.ErrorContext(ctx, "failed to publish graph change", "error", err)
	}
}

func defaultConfig(serviceType models.ServiceType) map[string]any {
	if serviceType == models.ServiceTypeAPI {
		return map[string]any{"endpoints": []any{}}
	}

	return map[string]any{}
}
