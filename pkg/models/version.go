package models

import "time"

// WorkflowVersion is an immutable snapshot of a workflow's graph. Versions
// for a given workflow are numbered from 1 by "max existing + 1"; the
// read-then-write is not atomic, so concurrent snapshots can legitimately
// collide on a number.
type WorkflowVersion struct {
	ID          string     `json:"id"`
	WorkflowID  string     `json:"workflowId"  validate:"required"`
	Version     int        `json:"version"     validate:"min=1"`
	Nodes       []Node     `json:"nodes"`
	Edges       []Edge     `json:"edges"`
	CreatedBy   string     `json:"createdBy"   validate:"required"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	Description string     `json:"description,omitempty"`
}
