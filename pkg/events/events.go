// Package events defines the event types published while editing: canvas
// graph changes and workflow record lifecycle notifications. The session
// manager mirrors the live canvas into its record set by observing these
// instead of the canvas calling it directly.
package events

import (
	"time"

	"github.com/Izguerra/workflow-builder/pkg/models"
)

type EventType string

// Topic carries every editor event; the in-memory channel is the only
// transport, one process per editing session.
const Topic = "builder.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Canvas events.
	GraphChangedEvent EventType = "canvas.graph.changed"

	// Workflow record lifecycle events.
	WorkflowCreatedEvent  EventType = "workflow.created"
	WorkflowRenamedEvent  EventType = "workflow.renamed"
	WorkflowDeletedEvent  EventType = "workflow.deleted"
	WorkflowSwitchedEvent EventType = "workflow.switched"
	WorkflowSavedEvent    EventType = "workflow.saved"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// GraphChanged announces a new canvas snapshot after any node or edge
// mutation. Carries the full graph: the canvas model is small enough that
// diffing is not worth the bookkeeping.
type GraphChanged struct {
	BaseEvent

	Nodes []models.Node `json:"nodes"`
	Edges []models.Edge `json:"edges"`
}

func (e GraphChanged) GetType() EventType {
	return GraphChangedEvent
}

type WorkflowCreated struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
	Name       string `json:"name"`
}

func (e WorkflowCreated) GetType() EventType {
	return WorkflowCreatedEvent
}

type WorkflowRenamed struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
	Name       string `json:"name"`
}

func (e WorkflowRenamed) GetType() EventType {
	return WorkflowRenamedEvent
}

type WorkflowDeleted struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
}

func (e WorkflowDeleted) GetType() EventType {
	return WorkflowDeletedEvent
}

type WorkflowSwitched struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
}

func (e WorkflowSwitched) GetType() EventType {
	return WorkflowSwitchedEvent
}

// WorkflowSaved announces a successful remote-tier save of a record.
type WorkflowSaved struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
	UserID     string `json:"user_id,omitempty"`
}

func (e WorkflowSaved) GetType() EventType {
	return WorkflowSavedEvent
}
