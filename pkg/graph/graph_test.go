package graph

import (
	"testing"

	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceNode(id string, serviceType models.ServiceType) models.Node {
	return models.Node{
		ID:   id,
		Type: models.NodeTypeService,
		Data: models.NodeData{
			Name:        id,
			ServiceType: serviceType,
		},
	}
}

func connect(source, target string) models.Edge {
	edge := models.Edge{
		ID:     models.EdgeID(source, target),
		Source: source,
		Target: target,
		Data:   models.DefaultEdgeData(),
	}
	edge.RecomputeMarkers()

	return edge
}

func TestAddNodeRejectsDuplicates(t *testing.T) {
	g, err := Graph{}.AddNode(serviceNode("a", models.ServiceTypeAPI))
	require.NoError(t, err)

	_, err = g.AddNode(serviceNode("a", models.ServiceTypeOutput))
	assert.ErrorIs(t, err, ErrNodeExists)
	assert.Equal(t, 1, g.NodeCount())
}

func TestAddEdgeRequiresBothEndpoints(t *testing.T) {
	g, err := Graph{}.AddNode(serviceNode("a", models.ServiceTypeAPI))
	require.NoError(t, err)

	_, err = g.AddEdge(connect("a", "missing"))
	assert.ErrorIs(t, err, ErrDanglingEdge)

	_, err = g.AddEdge(connect("missing", "a"))
	assert.ErrorIs(t, err, ErrDanglingEdge)
}

func TestRemoveNodeCascadesExactlyIncidentEdges(t *testing.T) {
	g := Graph{}
	var err error

	for _, id := range []string{"a", "n", "b", "c", "d"} {
		g, err = g.AddNode(serviceNode(id, models.ServiceTypeTransform))
		require.NoError(t, err)
	}

	for _, pair := range [][2]string{{"a", "n"}, {"n", "b"}, {"c", "d"}} {
		g, err = g.AddEdge(connect(pair[0], pair[1]))
		require.NoError(t, err)
	}

	g, err = g.RemoveNode("n")
	require.NoError(t, err)

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())

	_, found := g.NodeByID("n")
	assert.False(t, found)

	remaining, found := g.EdgeByID(models.EdgeID("c", "d"))
	require.True(t, found)
	assert.Equal(t, "c", remaining.Source)
	assert.Equal(t, "d", remaining.Target)
}

func TestNoDanglingEdgesUnderMutationSequences(t *testing.T) {
	g := Graph{}
	var err error

	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		g, err = g.AddNode(serviceNode(id, models.ServiceTypeFunction))
		require.NoError(t, err)
	}

	pairs := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "e"}, {"a", "e"}}
	for _, pair := range pairs {
		g, err = g.AddEdge(connect(pair[0], pair[1]))
		require.NoError(t, err)
	}

	for _, id := range []string{"b", "d", "a"} {
		g, err = g.RemoveNode(id)
		require.NoError(t, err)

		for _, edge := range g.Edges() {
			_, sourcePresent := g.NodeByID(edge.Source)
			_, targetPresent := g.NodeByID(edge.Target)
			assert.True(t, sourcePresent, "dangling source on %s", edge.ID)
			assert.True(t, targetPresent, "dangling target on %s", edge.ID)
		}
	}
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	g1, err := Graph{}.AddNode(serviceNode("a", models.ServiceTypeAPI))
	require.NoError(t, err)

	g2, err := g1.UpdateNodeData("a", func(data models.NodeData) models.NodeData {
		data.Name = "renamed"

		return data
	})
	require.NoError(t, err)

	original, _ := g1.NodeByID("a")
	updated, _ := g2.NodeByID("a")
	assert.Equal(t, "a", original.Data.Name)
	assert.Equal(t, "renamed", updated.Data.Name)

	// Mutating a returned slice must not leak into the snapshot.
	nodes := g2.Nodes()
	nodes[0].Data.Name = "leaked"
	fresh, _ := g2.NodeByID("a")
	assert.Equal(t, "renamed", fresh.Data.Name)
}

func TestUpdateEdgePreservesIdentity(t *testing.T) {
	g, err := Graph{}.AddNode(serviceNode("a", models.ServiceTypeAPI))
	require.NoError(t, err)
	g, err = g.AddNode(serviceNode("b", models.ServiceTypeOutput))
	require.NoError(t, err)
	g, err = g.AddEdge(connect("a", "b"))
	require.NoError(t, err)

	id := models.EdgeID("a", "b")
	g, err = g.UpdateEdge(id, func(edge models.Edge) models.Edge {
		edge.ID = "tampered"
		edge.Source = "x"
		edge.Data.Label = "step"

		return edge
	})
	require.NoError(t, err)

	edge, found := g.EdgeByID(id)
	require.True(t, found)
	assert.Equal(t, "a", edge.Source)
	assert.Equal(t, "step", edge.Data.Label)
}

func TestRemoveEdgeLeavesNodes(t *testing.T) {
	g, err := Graph{}.AddNode(serviceNode("a", models.ServiceTypeAPI))
	require.NoError(t, err)
	g, err = g.AddNode(serviceNode("b", models.ServiceTypeOutput))
	require.NoError(t, err)
	g, err = g.AddEdge(connect("a", "b"))
	require.NoError(t, err)

	g, err = g.RemoveEdge(models.EdgeID("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, 2, g.NodeCount())

	_, err = g.RemoveEdge(models.EdgeID("a", "b"))
	assert.ErrorIs(t, err, ErrEdgeNotFound)
}

func TestNewRejectsDanglingEdges(t *testing.T) {
	_, err := New(
		[]models.Node{serviceNode("a", models.ServiceTypeAPI)},
		[]models.Edge{connect("a", "ghost")},
	)
	assert.ErrorIs(t, err, ErrDanglingEdge)
}
