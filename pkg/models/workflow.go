package models

import "time"

// Workflow is a graph of nodes and edges identified by id. In the editing
// session it is the in-memory record mirrored by the canvas; once saved to
// the document store it additionally carries ownership and sharing metadata.
type Workflow struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"                  validate:"required,min=1"`
	Description string     `json:"description,omitempty"`
	Nodes       []Node     `json:"nodes"`
	Edges       []Edge     `json:"edges"`
	UserID      string     `json:"userId,omitempty"`
	IsPublic    bool       `json:"isPublic"`
	Tags        []string   `json:"tags,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// DefaultWorkflowName is the name given to records created by the session.
const DefaultWorkflowName = "New Workflow"

// CloneGraph returns deep copies of the workflow's node and edge sets so a
// stored record never aliases the live canvas snapshot.
func (w *Workflow) CloneGraph() ([]Node, []Edge) {
	return CloneNodes(w.Nodes), CloneEdges(w.Edges)
}

// CloneNodes deep-copies a node slice. A nil input yields an empty slice so
// readers can tolerate documents saved without the field.
func CloneNodes(nodes []Node) []Node {
	clones := make([]Node, 0, len(nodes))
	for _, node := range nodes {
		clones = append(clones, node.Clone())
	}

	return clones
}

// CloneEdges deep-copies an edge slice.
func CloneEdges(edges []Edge) []Edge {
	clones := make([]Edge, 0, len(edges))
	for _, edge := range edges {
		clones = append(clones, edge.Clone())
	}

	return clones
}
