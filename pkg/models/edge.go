package models

// DefaultEdgeColor is the accent color applied to new edges and markers.
const DefaultEdgeColor = "#007bff"

// Direction controls which ends of an edge carry arrow markers.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionBoth  Direction = "both"
)

// LineStyle is the stroke rendering of an edge.
type LineStyle string

const (
	LineStyleSolid  LineStyle = "solid"
	LineStyleDotted LineStyle = "dotted"
	LineStyleDouble LineStyle = "double"
)

// ArrowType selects between a filled and an outlined arrowhead.
type ArrowType string

const (
	ArrowTypeSolid   ArrowType = "solid"
	ArrowTypeOutline ArrowType = "outline"
)

// MarkerType is the renderer-facing arrowhead shape.
type MarkerType string

const (
	MarkerTypeArrowClosed MarkerType = "arrowclosed" // filled arrowhead
	MarkerTypeArrow       MarkerType = "arrow"       // outlined arrowhead
)

const (
	markerWidth  = 20
	markerHeight = 20
)

// Marker describes an arrowhead at one end of an edge. Markers are derived
// state: they always track the edge's current direction, arrow type and color.
type Marker struct {
	Type   MarkerType `json:"type"`
	Color  string     `json:"color"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
}

// NewMarker builds the marker for the given color and arrow type.
func NewMarker(color string, arrowType ArrowType) *Marker {
	markerType := MarkerTypeArrowClosed
	if arrowType == ArrowTypeOutline {
		markerType = MarkerTypeArrow
	}

	return &Marker{
		Type:   markerType,
		Color:  color,
		Width:  markerWidth,
		Height: markerHeight,
	}
}

// EdgeData carries the per-edge style axes and label.
type EdgeData struct {
	Label     string    `json:"label,omitempty"`
	Direction Direction `json:"direction"`
	LineStyle LineStyle `json:"lineStyle"`
	ArrowType ArrowType `json:"arrowType"`
	Color     string    `json:"color"`
}

// DefaultEdgeData returns the style applied to a newly connected edge.
func DefaultEdgeData() EdgeData {
	return EdgeData{
		Direction: DirectionRight,
		LineStyle: LineStyleSolid,
		ArrowType: ArrowTypeSolid,
		Color:     DefaultEdgeColor,
	}
}

// Edge is a styled connection between two nodes on the canvas.
type Edge struct {
	ID           string   `json:"id"           validate:"required"`
	Source       string   `json:"source"       validate:"required"`
	Target       string   `json:"target"       validate:"required"`
	SourceHandle string   `json:"sourceHandle,omitempty"`
	TargetHandle string   `json:"targetHandle,omitempty"`
	Data         EdgeData `json:"data"`
	MarkerStart  *Marker  `json:"markerStart,omitempty"`
	MarkerEnd    *Marker  `json:"markerEnd,omitempty"`
}

// EdgeID derives the deterministic edge identifier for a source/target pair.
func EdgeID(source, target string) string {
	return "e" + source + "-" + target
}

// RecomputeMarkers rebuilds both markers from the edge's current direction,
// arrow type and color. Direction "left" clears the end marker and sets the
// start marker, "right" is the inverse and "both" sets both ends.
func (e *Edge) RecomputeMarkers() {
	e.MarkerStart = nil
	e.MarkerEnd = nil

	color := e.Data.Color
	if color == "" {
		color = DefaultEdgeColor
	}

	if e.Data.Direction != DirectionLeft {
		e.MarkerEnd = NewMarker(color, e.Data.ArrowType)
	}

	if e.Data.Direction != DirectionRight {
		e.MarkerStart = NewMarker(color, e.Data.ArrowType)
	}
}

// Clone returns a copy of the edge with its own marker allocations.
func (e Edge) Clone() Edge {
	clone := e
	if e.MarkerStart != nil {
		marker := *e.MarkerStart
		clone.MarkerStart = &marker
	}

	if e.MarkerEnd != nil {
		marker := *e.MarkerEnd
		clone.MarkerEnd = &marker
	}

	return clone
}
