// Package graph holds the in-memory canvas model: the ordered node and edge
// sets of the active workflow. Every operation is a pure transformation that
// returns a new snapshot, so callers can rely on structural identity checks
// and no mutation can leave a dangling edge behind.
package graph

import (
	"errors"
	"fmt"

	"github.com/Izguerra/workflow-builder/pkg/models"
)

var (
	// ErrNodeExists indicates an addNode with an id already present.
	ErrNodeExists = errors.New("node already exists")

	// ErrNodeNotFound indicates an operation referenced an absent node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeExists indicates an addEdge with an id already present.
	ErrEdgeExists = errors.New("edge already exists")

	// ErrEdgeNotFound indicates an operation referenced an absent edge.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrDanglingEdge indicates an edge endpoint missing from the node set.
	ErrDanglingEdge = errors.New("edge endpoint not in graph")
)

// Graph is an immutable snapshot of the canvas contents. The zero value is
// an empty graph.
type Graph struct {
	nodes []models.Node
	edges []models.Edge
}

// New builds a snapshot from the given node and edge sets. The inputs are
// deep-copied; edges referencing absent nodes are rejected.
func New(nodes []models.Node, edges []models.Edge) (Graph, error) {
	g := Graph{
		nodes: models.CloneNodes(nodes),
		edges: models.CloneEdges(edges),
	}

	for _, edge := range g.edges {
		if !g.hasNode(edge.Source) || !g.hasNode(edge.Target) {
			return Graph{}, fmt.Errorf("%w: %s", ErrDanglingEdge, edge.ID)
		}
	}

	return g, nil
}

// Nodes returns a copy of the ordered node set.
func (g Graph) Nodes() []models.Node {
	return models.CloneNodes(g.nodes)
}

// Edges returns a copy of the ordered edge set.
func (g Graph) Edges() []models.Edge {
	return models.CloneEdges(g.edges)
}

// NodeByID returns the node with the given id, if present.
func (g Graph) NodeByID(id string) (models.Node, bool) {
	for _, node := range g.nodes {
		if node.ID == id {
			return node.Clone(), true
		}
	}

	return models.Node{}, false
}

// EdgeByID returns the edge with the given id, if present.
func (g Graph) EdgeByID(id string) (models.Edge, bool) {
	for _, edge := range g.edges {
		if edge.ID == id {
			return edge.Clone(), true
		}
	}

	return models.Edge{}, false
}

// NodeCount returns the number of nodes in the snapshot.
func (g Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the snapshot.
func (g Graph) EdgeCount() int {
	return len(g.edges)
}

// AddNode appends a node and returns the new snapshot.
func (g Graph) AddNode(node models.Node) (Graph, error) {
	if g.hasNode(node.ID) {
		return g, fmt.Errorf("%w: %s", ErrNodeExists, node.ID)
	}

	next := g.clone()
	next.nodes = append(next.nodes, node.Clone())

	return next, nil
}

// RemoveNode removes a node and, in the same step, every edge that
// references it as source or target.
func (g Graph) RemoveNode(id string) (Graph, error) {
	if !g.hasNode(id) {
		return g, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	next := Graph{
		nodes: make([]models.Node, 0, len(g.nodes)-1),
		edges: make([]models.Edge, 0, len(g.edges)),
	}

	for _, node := range g.nodes {
		if node.ID != id {
			next.nodes = append(next.nodes, node.Clone())
		}
	}

	for _, edge := range g.edges {
		if edge.Source != id && edge.Target != id {
			next.edges = append(next.edges, edge.Clone())
		}
	}

	return next, nil
}

// AddEdge appends an edge. Both endpoints must already be present.
func (g Graph) AddEdge(edge models.Edge) (Graph, error) {
	if g.hasEdge(edge.ID) {
		return g, fmt.Errorf("%w: %s", ErrEdgeExists, edge.ID)
	}

	if !g.hasNode(edge.Source) {
		return g, fmt.Errorf("%w: source %s", ErrDanglingEdge, edge.Source)
	}

	if !g.hasNode(edge.Target) {
		return g, fmt.Errorf("%w: target %s", ErrDanglingEdge, edge.Target)
	}

	next := g.clone()
	next.edges = append(next.edges, edge.Clone())

	return next, nil
}

// RemoveEdge removes the edge with the given id.
func (g Graph) RemoveEdge(id string) (Graph, error) {
	if !g.hasEdge(id) {
		return g, fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}

	next := g.clone()
	next.edges = make([]models.Edge, 0, len(g.edges)-1)

	for _, edge := range g.edges {
		if edge.ID != id {
			next.edges = append(next.edges, edge.Clone())
		}
	}

	return next, nil
}

// UpdateNodeData replaces a node's data through the given patch function.
func (g Graph) UpdateNodeData(id string, patch func(models.NodeData) models.NodeData) (Graph, error) {
	if !g.hasNode(id) {
		return g, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	next := g.clone()
	for i, node := range next.nodes {
		if node.ID == id {
			next.nodes[i].Data = patch(node.Data)

			break
		}
	}

	return next, nil
}

// UpdateEdge replaces an edge through the given patch function. The patch
// receives a copy and returns the replacement; id, source and target are
// preserved regardless of what the patch does to them.
func (g Graph) UpdateEdge(id string, patch func(models.Edge) models.Edge) (Graph, error) {
	if !g.hasEdge(id) {
		return g, fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}

	next := g.clone()
	for i, edge := range next.edges {
		if edge.ID == id {
			updated := patch(edge.Clone())
			updated.ID = edge.ID
			updated.Source = edge.Source
			updated.Target = edge.Target
			next.edges[i] = updated

			break
		}
	}

	return next, nil
}

func (g Graph) clone() Graph {
	return Graph{
		nodes: models.CloneNodes(g.nodes),
		edges: models.CloneEdges(g.edges),
	}
}

func (g Graph) hasNode(id string) bool {
	for _, node := range g.nodes {
		if node.ID == id {
			return true
		}
	}

	return false
}

func (g Graph) hasEdge(id string) bool {
	for _, edge := range g.edges {
		if edge.ID == id {
			return true
		}
	}

	return false
}
