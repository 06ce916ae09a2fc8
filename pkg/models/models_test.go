package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTypeIsValid(t *testing.T) {
	for _, serviceType := range ServiceTypes() {
		assert.True(t, serviceType.IsValid(), string(serviceType))
	}

	assert.False(t, ServiceType("").IsValid())
	assert.False(t, ServiceType("email").IsValid())
}

func TestEdgeID(t *testing.T) {
	assert.Equal(t, "eapi_12-output_7", EdgeID("api_12", "output_7"))
}

func TestDefaultEdgeData(t *testing.T) {
	data := DefaultEdgeData()

	assert.Equal(t, DirectionRight, data.Direction)
	assert.Equal(t, LineStyleSolid, data.LineStyle)
	assert.Equal(t, ArrowTypeSolid, data.ArrowType)
	assert.Equal(t, DefaultEdgeColor, data.Color)
	assert.Empty(t, data.Label)
}

func TestEdgeRecomputeMarkers(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		wantStart bool
		wantEnd   bool
	}{
		{name: "right sets only the end marker", direction: DirectionRight, wantStart: false, wantEnd: true},
		{name: "left sets only the start marker", direction: DirectionLeft, wantStart: true, wantEnd: false},
		{name: "both sets both markers", direction: DirectionBoth, wantStart: true, wantEnd: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edge := Edge{
				ID:     EdgeID("a", "b"),
				Source: "a",
				Target: "b",
				Data:   DefaultEdgeData(),
			}
			edge.Data.Direction = tt.direction
			edge.RecomputeMarkers()

			if tt.wantStart {
				require.NotNil(t, edge.MarkerStart)
				assert.Equal(t, DefaultEdgeColor, edge.MarkerStart.Color)
			} else {
				assert.Nil(t, edge.MarkerStart)
			}

			if tt.wantEnd {
				require.NotNil(t, edge.MarkerEnd)
				assert.Equal(t, DefaultEdgeColor, edge.MarkerEnd.Color)
			} else {
				assert.Nil(t, edge.MarkerEnd)
			}
		})
	}
}

func TestEdgeRecomputeMarkersTracksStyle(t *testing.T) {
	edge := Edge{ID: EdgeID("a", "b"), Source: "a", Target: "b", Data: DefaultEdgeData()}
	edge.Data.Color = "#dc3545"
	edge.Data.ArrowType = ArrowTypeOutline
	edge.RecomputeMarkers()

	require.NotNil(t, edge.MarkerEnd)
	assert.Equal(t, MarkerTypeArrow, edge.MarkerEnd.Type)
	assert.Equal(t, "#dc3545", edge.MarkerEnd.Color)
	assert.Equal(t, 20, edge.MarkerEnd.Width)
	assert.Equal(t, 20, edge.MarkerEnd.Height)
}

func TestNodeCloneDoesNotAliasConfig(t *testing.T) {
	node := Node{
		ID:   "n1",
		Type: NodeTypeService,
		Data: NodeData{
			Name:        "api_1",
			ServiceType: ServiceTypeAPI,
			Config:      map[string]any{"url": "https://example.com"},
		},
	}

	clone := node.Clone()
	clone.Data.Config["url"] = "https://changed.example.com"

	assert.Equal(t, "https://example.com", node.Data.Config["url"])
}

func TestNodeCloneDeepCopiesNestedConfig(t *testing.T) {
	node := Node{
		ID:   "n1",
		Type: NodeTypeService,
		Data: NodeData{
			Name:        "api_1",
			ServiceType: ServiceTypeAPI,
			Config: map[string]any{
				"endpoints": []any{
					map[string]any{"id": "endpoint_1", "path": "/users"},
				},
				"retry": map[string]any{"maxAttempts": 3},
			},
		},
	}

	clone := node.Clone()

	endpoints := clone.Data.Config["endpoints"].([]any)
	endpoints[0].(map[string]any)["path"] = "/orders"
	clone.Data.Config["retry"].(map[string]any)["maxAttempts"] = 9

	original := node.Data.Config["endpoints"].([]any)
	assert.Equal(t, "/users", original[0].(map[string]any)["path"])
	assert.Equal(t, 3, node.Data.Config["retry"].(map[string]any)["maxAttempts"])
}

func TestCloneConfigNilStaysNil(t *testing.T) {
	assert.Nil(t, CloneConfig(nil))
}

func TestCloneNodesToleratesNil(t *testing.T) {
	assert.NotNil(t, CloneNodes(nil))
	assert.Empty(t, CloneNodes(nil))
	assert.NotNil(t, CloneEdges(nil))
}

func TestSharePermissionIsValid(t *testing.T) {
	assert.True(t, SharePermissionView.IsValid())
	assert.True(t, SharePermissionEdit.IsValid())
	assert.False(t, SharePermission("owner").IsValid())
}
