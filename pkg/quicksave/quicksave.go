// Package quicksave provides the lightweight local save tier. All snapshots
// live in one JSON file as an ordered list, independent of the remote
// document store.
package quicksave

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Izguerra/workflow-builder/pkg/models"
)

var (
	// ErrEmptyName indicates a snapshot name was empty after trimming.
	ErrEmptyName = errors.New("snapshot name cannot be empty")

	// ErrSnapshotNotFound indicates the requested snapshot index does not exist.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Snapshot is one named save of the canvas graph.
type Snapshot struct {
	Name      string        `json:"name"`
	Nodes     []models.Node `json:"nodes"`
	Edges     []models.Edge `json:"edges"`
	Timestamp time.Time     `json:"timestamp"`
}

// Store persists the snapshot list to a single JSON file.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Save appends a snapshot of the given graph. The name is trimmed and must
// not be empty.
func (s *Store) Save(name string, nodes []models.Node, edges []models.Edge) (*Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.load()
	if err != nil {
		return nil, err
	}

	snapshot := Snapshot{
		Name:      name,
		Nodes:     models.CloneNodes(nodes),
		Edges:     models.CloneEdges(edges),
		Timestamp: s.now().UTC(),
	}

	snapshots = append(snapshots, snapshot)

	if err := s.write(snapshots); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// List returns all snapshots in save order.
func (s *Store) List() ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Load returns the snapshot at the given index.
func (s *Store) Load(index int) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.load()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(snapshots) {
		return nil, ErrSnapshotNotFound
	}

	snapshot := snapshots[index]

	return &snapshot, nil
}

// Delete removes the snapshot at the given index.
func (s *Store) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.load()
	if err != nil {
		return err
	}

	if index < 0 || index >= len(snapshots) {
		return ErrSnapshotNotFound
	}

	snapshots = append(snapshots[:index], snapshots[index+1:]...)

	return s.write(snapshots)
}

func (s *Store) load() ([]Snapshot, error) {
	body, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Snapshot{}, nil
		}

		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snapshots []Snapshot

	err = json.Unmarshal(body, &snapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshots: %w", err)
	}

	return snapshots, nil
}

func (s *Store) write(snapshots []Snapshot) error {
	err := os.MkdirAll(filepath.Dir(s.path), 0750)
	if err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshots: %w", err)
	}

	return os.WriteFile(s.path, data, 0600)
}
