package canvas

import (
	"context"
	"errors"
	"fmt"

	"github.com/Izguerra/workflow-builder/pkg/models"
)

var (
	// ErrInvalidDirection indicates a direction outside left/right/both.
	ErrInvalidDirection = errors.New("invalid edge direction")

	// ErrInvalidLineStyle indicates a line style outside solid/dotted/double.
	ErrInvalidLineStyle = errors.New("invalid line style")

	// ErrInvalidArrowType indicates an arrow type outside solid/outline.
	ErrInvalidArrowType = errors.New("invalid arrow type")

	// ErrNoLabelEdit indicates a label commit without an open edit.
	ErrNoLabelEdit = errors.New("no label edit in progress")
)

// Connect creates an edge between two nodes with the default style: right
// direction, solid line, solid arrowhead, the standard accent color and an
// end marker only. The edge id is derived from the endpoint pair.
func (c *Controller) Connect(ctx context.Context, source, target, sourceHandle, targetHandle string) (models.Edge, error) {
	edge := models.Edge{
		ID:           models.EdgeID(source, target),
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
		Data:         models.DefaultEdgeData(),
	}
	edge.RecomputeMarkers()

	c.mu.Lock()

	next, err := c.graph.AddEdge(edge)
	if err != nil {
		c.mu.Unlock()

		return models.Edge{}, err
	}

	c.graph = next
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "edge connected", "edge_id", edge.ID)
	c.publishChange(ctx)

	return edge, nil
}

// DeleteEdge removes the edge outright. Unlike node deletion there is no
// confirmation gate; the asymmetry is inherited behavior, kept rather than
// silently unified.
func (c *Controller) DeleteEdge(ctx context.Context, id string) error {
	c.mu.Lock()

	next, err := c.graph.RemoveEdge(id)
	if err != nil {
		c.mu.Unlock()

		return err
	}

	c.graph = next
	if c.selectedEdgeID == id {
		c.selectedEdgeID = ""
	}

	delete(c.labelEditing, id)
	c.mu.Unlock()

	c.publishChange(ctx)

	return nil
}

// SetEdgeDirection sets the direction axis and recomputes both markers so
// they track the edge's current arrow type and color.
func (c *Controller) SetEdgeDirection(ctx context.Context, id string, direction models.Direction) error {
	switch direction {
	case models.DirectionLeft, models.DirectionRight, models.DirectionBoth:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidDirection, direction)
	}

	return c.updateEdge(ctx, id, func(edge models.Edge) models.Edge {
		edge.Data.Direction = direction
		edge.RecomputeMarkers()

		return edge
	})
}

// SetEdgeLineStyle sets the line style axis. A direct set: no intermediate
// states.
func (c *Controller) SetEdgeLineStyle(ctx context.Context, id string, lineStyle models.LineStyle) error {
	switch lineStyle {
	case models.LineStyleSolid, models.LineStyleDotted, models.LineStyleDouble:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLineStyle, lineStyle)
	}

	return c.updateEdge(ctx, id, func(edge models.Edge) models.Edge {
		edge.Data.LineStyle = lineStyle

		return edge
	})
}

// SetEdgeArrowType sets the arrowhead shape and recomputes the markers.
func (c *Controller) SetEdgeArrowType(ctx context.Context, id string, arrowType models.ArrowType) error {
	switch arrowType {
	case models.ArrowTypeSolid, models.ArrowTypeOutline:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidArrowType, arrowType)
	}

	return c.updateEdge(ctx, id, func(edge models.Edge) models.Edge {
		edge.Data.ArrowType = arrowType
		edge.RecomputeMarkers()

		return edge
	})
}

// SetEdgeColor sets the edge color and recomputes the markers.
func (c *Controller) SetEdgeColor(ctx context.Context, id, color string) error {
	return c.updateEdge(ctx, id, func(edge models.Edge) models.Edge {
		edge.Data.Color = color
		edge.RecomputeMarkers()

		return edge
	})
}

// BeginLabelEdit switches the edge's label into editing state, seeded with
// the current label text. Triggered by a double interaction on the label.
func (c *Controller) BeginLabelEdit(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	edge, found := c.graph.EdgeByID(id)
	if !found {
		return false
	}

	c.labelEditing[id] = edge.Data.Label

	return true
}

// SetLabelText updates the pending label text while editing.
func (c *Controller) SetLabelText(id, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, editing := c.labelEditing[id]; !editing {
		return ErrNoLabelEdit
	}

	c.labelEditing[id] = text

	return nil
}

// CommitLabelEdit applies the pending text and returns the label to viewing
// state. Triggered by Enter or blur. There is no cancel-without-commit path
// for labels, unlike node renaming.
func (c *Controller) CommitLabelEdit(ctx context.Context, id string) error {
	c.mu.Lock()

	pending, editing := c.labelEditing[id]
	if !editing {
		c.mu.Unlock()

		return ErrNoLabelEdit
	}

	delete(c.labelEditing, id)
	c.mu.Unlock()

	return c.updateEdge(ctx, id, func(edge models.Edge) models.Edge {
		edge.Data.Label = pending

		return edge
	})
}

// IsEditingLabel reports whether the edge's label is in editing state.
func (c *Controller) IsEditingLabel(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, editing := c.labelEditing[id]

	return editing
}

// SelectEdge makes the edge the exclusive selection, clearing any selected
// node. Style controls render only for the selected or hovered edge.
func (c *Controller) SelectEdge(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, found := c.graph.EdgeByID(id); !found {
		return false
	}

	c.selectedEdgeID = id
	c.selectedNodeID = ""

	return true
}

// SelectedEdge returns the currently selected edge id, empty when none.
func (c *Controller) SelectedEdge() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selectedEdgeID
}

func (c *Controller) updateEdge(ctx context.Context, id string, patch func(models.Edge) models.Edge) error {
	c.mu.Lock()

	next, err := c.graph.UpdateEdge(id, patch)
	if err != nil {
		c.mu.Unlock()

		return err
	}

	c.graph = next
	c.mu.Unlock()

	c.publishChange(ctx)

	return nil
}
