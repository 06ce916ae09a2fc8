package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// uniqueViolation is the postgres error code for duplicate primary keys.
const uniqueViolation = "23505"

// UserRepository handles user profile rows.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user row with default settings. The caller
// supplies the identifier since it comes from the authentication provider.
func (r *UserRepository) CreateUser(ctx context.Context, id, email string) (*models.User, error) {
	now := time.Now().UTC()
	settings := models.DefaultUserSettings()

	user := &models.User{
		ID:          id,
		Email:       email,
		WorkflowIDs: []string{},
		Settings:    &settings,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, &persistence.UserError{Op: "CreateUser", UserID: id, Err: fmt.Errorf("failed to marshal settings: %w", err)}
	}

	query := `
		INSERT INTO users (id, email, display_name, workflow_ids, settings, created_at, updated_at)
		VALUES ($1, $2, '', '[]', $3, $4, $4)
	`

	_, err = r.db.ExecContext(ctx, query, id, email, settingsJSON, now)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, &persistence.UserError{Op: "CreateUser", UserID: id, Err: persistence.ErrUserAlreadyExists}
		}

		return nil, &persistence.UserError{Op: "CreateUser", UserID: id, Err: fmt.Errorf("failed to insert user: %w", err)}
	}

	return user, nil
}

// GetUser retrieves a user row by its identifier.
func (r *UserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT
			id
		  , email
		  , display_name
		  , workflow_ids
		  , settings
		  , created_at
		  , updated_at
		FROM users
		WHERE id = $1
	`

	var (
		user        models.User
		workflowIDs []byte
		settings    []byte
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.DisplayName, &workflowIDs, &settings, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &persistence.UserError{Op: "GetUser", UserID: id, Err: persistence.ErrUserNotFound}
		}

		return nil, &persistence.UserError{Op: "GetUser", UserID: id, Err: fmt.Errorf("failed to scan user: %w", err)}
	}

	user.CreatedAt = &createdAt
	user.UpdatedAt = &updatedAt

	if err := json.Unmarshal(workflowIDs, &user.WorkflowIDs); err != nil {
		return nil, &persistence.UserError{Op: "GetUser", UserID: id, Err: fmt.Errorf("failed to unmarshal workflow ids: %w", err)}
	}

	if settings != nil {
		user.Settings = &models.UserSettings{}
		if err := json.Unmarshal(settings, user.Settings); err != nil {
			return nil, &persistence.UserError{Op: "GetUser", UserID: id, Err: fmt.Errorf("failed to unmarshal settings: %w", err)}
		}
	}

	return &user, nil
}
