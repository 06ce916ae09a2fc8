// Package postgresql provides PostgreSQL persistence for workflows,
// versions, shares, and users.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// Registers the postgres driver with database/sql.
	_ "github.com/lib/pq"

	"github.com/Izguerra/workflow-builder/pkg/persistence"
	"github.com/Izguerra/workflow-builder/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db           *sql.DB
	logger       *slog.Logger
	workflowRepo *WorkflowRepository
	versionRepo  *VersionRepository
	shareRepo    *ShareRepository
	userRepo     *UserRepository
}

// NewPersistence creates a new PostgreSQL persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())
	workflowRepo := NewWorkflowRepository(database, logger)

	postgres := &Persistence{
		db:           database,
		logger:       logger,
		workflowRepo: workflowRepo,
		versionRepo:  NewVersionRepository(database, logger),
		shareRepo:    NewShareRepository(database, workflowRepo),
		userRepo:     NewUserRepository(database),
	}

	// Run migrations on initialization
	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return postgres, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// WorkflowRepository returns the workflow repository backed by PostgreSQL.
func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

// VersionRepository returns the version repository backed by PostgreSQL.
func (p *Persistence) VersionRepository() persistence.VersionRepository {
	return p.versionRepo
}

// ShareRepository returns the share repository backed by PostgreSQL.
func (p *Persistence) ShareRepository() persistence.ShareRepository {
	return p.shareRepo
}

// UserRepository returns the user repository backed by PostgreSQL.
func (p *Persistence) UserRepository() persistence.UserRepository {
	return p.userRepo
}
