// Package file provides file-based persistence for workflows, versions,
// shares, and users. Each document is stored as one JSON file under a
// per-collection directory.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root         string
	workflowRepo *WorkflowRepository
	versionRepo  *VersionRepository
	shareRepo    *ShareRepository
	userRepo     *UserRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	workflowRepo := NewWorkflowRepository(cleanRoot)

	return &Persistence{
		root:         cleanRoot,
		workflowRepo: workflowRepo,
		versionRepo:  NewVersionRepository(cleanRoot),
		shareRepo:    NewShareRepository(cleanRoot, workflowRepo),
		userRepo:     NewUserRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// WorkflowRepository returns the workflow repository implementation for file persistence.
func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflowRepo
}

// VersionRepository returns the version repository implementation for file persistence.
func (fp *Persistence) VersionRepository() persistence.VersionRepository {
	return fp.versionRepo
}

// ShareRepository returns the share repository implementation for file persistence.
func (fp *Persistence) ShareRepository() persistence.ShareRepository {
	return fp.shareRepo
}

// UserRepository returns the user repository implementation for file persistence.
func (fp *Persistence) UserRepository() persistence.UserRepository {
	return fp.userRepo
}
