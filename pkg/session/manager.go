// Package session manages the set of open workflow records and the single
// active record mirrored by the canvas. The record set follows the live
// canvas through graph-change events rather than direct calls, so it is
// eventually consistent with the canvas on the next observation tick.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Izguerra/workflow-builder/pkg/canvas"
	"github.com/Izguerra/workflow-builder/pkg/eventbus"
	"github.com/Izguerra/workflow-builder/pkg/events"
	"github.com/Izguerra/workflow-builder/pkg/models"
)

var (
	// ErrWorkflowNotFound indicates the record id is not in the session.
	ErrWorkflowNotFound = errors.New("workflow not found in session")

	// ErrLastWorkflow indicates an attempt to delete the only record; at
	// least one workflow record must always exist.
	ErrLastWorkflow = errors.New("cannot delete the last workflow")

	// ErrEmptyName indicates a rename whose new name trims to empty.
	ErrEmptyName = errors.New("workflow name cannot be empty")

	// ErrCreateDebounced indicates a second creation within the debounce
	// window of the previous one.
	ErrCreateDebounced = errors.New("workflow creation debounced")

	// ErrDeleteNotConfirmed indicates the user declined the delete prompt.
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")
)

const deleteWorkflowPrompt = "Are you sure you want to delete this workflow?"

// createDebounce guards against accidental duplicate creation from rapid
// repeated triggers.
const createDebounce = time.Second

// Manager holds the ordered record set and the active record reference.
type Manager struct {
	mu sync.Mutex

	records  []*models.Workflow
	activeID string

	canvas     *canvas.Controller
	confirm    canvas.Confirmer
	publisher  eventbus.EventPublisher
	logger     *slog.Logger
	lastCreate time.Time
	now        func() time.Time
}

// NewManager creates a session seeded with one default record, which
// becomes active. The canvas starts mirroring it immediately.
func NewManager(logger *slog.Logger, controller *canvas.Controller, publisher eventbus.EventPublisher, confirm canvas.Confirmer) *Manager {
	manager := &Manager{
		canvas:    controller,
		confirm:   confirm,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}

	record := newRecord(manager.now())
	manager.records = []*models.Workflow{record}
	manager.activeID = record.ID

	return manager
}

// Attach registers the manager's graph-change mirror on the event bus. The
// caller still owns the bus subscription lifecycle.
func (m *Manager) Attach(bus eventbus.EventSubscriber) error {
	return bus.Handle(events.GraphChangedEvent, func(ctx context.Context, event any) error {
		changed, ok := event.(*events.GraphChanged)
		if !ok {
			return nil
		}

		m.mirror(changed)

		return nil
	})
}

// mirror writes the canvas snapshot into the active record. Inactive
// records keep their stored snapshots untouched.
func (m *Manager) mirror(changed *events.GraphChanged) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := m.findLocked(m.activeID)
	if record == nil {
		return
	}

	record.Nodes = models.CloneNodes(changed.Nodes)
	record.Edges = models.CloneEdges(changed.Edges)
	record.Timestamp = m.now()
}

// New appends a fresh default record and makes it active, clearing the
// canvas. A second creation within one second of the last is rejected.
func (m *Manager) New(ctx context.Context) (models.Workflow, error) {
	m.mu.Lock()

	now := m.now()
	if now.Sub(m.lastCreate) < createDebounce {
		m.mu.Unlock()

		return models.Workflow{}, ErrCreateDebounced
	}

	m.lastCreate = now

	record := newRecord(m.now())
	m.records = append(m.records, record)
	m.activeID = record.ID
	m.mu.Unlock()

	if err := m.canvas.ResetGraph(ctx, nil, nil); err != nil {
		return models.Workflow{}, err
	}

	m.publish(ctx, events.WorkflowCreated{
		BaseEvent:  m.baseEvent(events.WorkflowCreatedEvent),
		WorkflowID: record.ID,
		Name:       record.Name,
	})

	return *record, nil
}

// SwitchActive makes the target record active and loads its stored graph
// into the canvas. Pending edits to the previously active record were
// already mirrored by the sync rule, so nothing is lost.
func (m *Manager) SwitchActive(ctx context.Context, id string) error {
	m.mu.Lock()

	record := m.findLocked(id)
	if record == nil {
		m.mu.Unlock()

		return ErrWorkflowNotFound
	}

	m.activeID = id
	nodes, edges := record.CloneGraph()
	m.mu.Unlock()

	if err := m.canvas.ResetGraph(ctx, nodes, edges); err != nil {
		return err
	}

	m.publish(ctx, events.WorkflowSwitched{
		BaseEvent:  m.baseEvent(events.WorkflowSwitchedEvent),
		WorkflowID: id,
	})

	return nil
}

// Delete removes a record after confirmation. Deleting the only record is
// rejected. If the active record was deleted, an arbitrary survivor becomes
// active and its graph is loaded.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()

	if len(m.records) == 1 {
		m.mu.Unlock()

		return ErrLastWorkflow
	}

	if m.findLocked(id) == nil {
		m.mu.Unlock()

		return ErrWorkflowNotFound
	}

	m.mu.Unlock()

	if !m.confirm.Confirm(deleteWorkflowPrompt) {
		return ErrDeleteNotConfirmed
	}

	m.mu.Lock()

	remaining := make([]*models.Workflow, 0, len(m.records)-1)
	for _, record := range m.records {
		if record.ID != id {
			remaining = append(remaining, record)
		}
	}

	if len(remaining) == len(m.records) {
		// Deleted concurrently while the prompt was open.
		m.mu.Unlock()

		return ErrWorkflowNotFound
	}

	m.records = remaining

	var successor *models.Workflow
	if m.activeID == id {
		successor = m.records[0]
		m.activeID = successor.ID
	}

	var nodes []models.Node
	var edges []models.Edge
	if successor != nil {
		nodes, edges = successor.CloneGraph()
	}
	m.mu.Unlock()

	if successor != nil {
		if err := m.canvas.ResetGraph(ctx, nodes, edges); err != nil {
			return err
		}
	}

	m.publish(ctx, events.WorkflowDeleted{
		BaseEvent:  m.baseEvent(events.WorkflowDeletedEvent),
		WorkflowID: id,
	})

	return nil
}

// Rename sets a record's name. Rejected when the name trims to empty.
func (m *Manager) Rename(ctx context.Context, id, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}

	m.mu.Lock()

	record := m.findLocked(id)
	if record == nil {
		m.mu.Unlock()

		return ErrWorkflowNotFound
	}

	record.Name = trimmed
	m.mu.Unlock()

	m.publish(ctx, events.WorkflowRenamed{
		BaseEvent:  m.baseEvent(events.WorkflowRenamedEvent),
		WorkflowID: id,
		Name:       trimmed,
	})

	return nil
}

// Workflows returns copies of the session's records in order.
func (m *Manager) Workflows() []models.Workflow {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]models.Workflow, 0, len(m.records))
	for _, record := range m.records {
		copied := *record
		copied.Nodes, copied.Edges = record.CloneGraph()
		records = append(records, copied)
	}

	return records
}

// Active returns a copy of the active record.
func (m *Manager) Active() (models.Workflow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := m.findLocked(m.activeID)
	if record == nil {
		return models.Workflow{}, false
	}

	copied := *record
	copied.Nodes, copied.Edges = record.CloneGraph()

	return copied, true
}

// ActiveID returns the id of the active record.
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.activeID
}

func (m *Manager) findLocked(id string) *models.Workflow {
	for _, record := range m.records {
		if record.ID == id {
			return record
		}
	}

	return nil
}

func (m *Manager) baseEvent(eventType events.EventType) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: m.now(),
	}
}

func (m *Manager) publish(ctx context.Context, event eventbus.Event) {
	if m.publisher == nil {
		return
	}

	if err := m.publisher.Publish(ctx, "session", event); err != nil {
		m.logger.ErrorContext(ctx, "failed to publish session event", "error", err)
	}
}

func newRecord(now time.Time) *models.Workflow {
	return &models.Workflow{
		ID:        uuid.NewString(),
		Name:      models.DefaultWorkflowName,
		Nodes:     []models.Node{},
		Edges:     []models.Edge{},
		Timestamp: now,
	}
}
