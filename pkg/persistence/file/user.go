package file

import (
	"context"
	"path"
	"time"

	"github.com/Izguerra/workflow-builder/pkg/models"
	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

// UserRepository stores user documents under <root>/users.
type UserRepository struct {
	dir string
}

// NewUserRepository creates a user repository rooted at the given directory.
func NewUserRepository(root string) *UserRepository {
	return &UserRepository{dir: path.Join(root, "users")}
}

// CreateUser stores a new user document with default settings. The caller
// supplies the identifier since it comes from the authentication provider.
func (ur *UserRepository) CreateUser(_ context.Context, id, email string) (*models.User, error) {
	existing, err := readJSON[models.User](ur.dir, id)
	if err != nil {
		return nil, &persistence.UserError{Op: "CreateUser", UserID: id, Err: err}
	}

	if existing != nil {
		return nil, &persistence.UserError{Op: "CreateUser", UserID: id, Err: persistence.ErrUserAlreadyExists}
	}

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

	if err := writeJSON(ur.dir, id, user); err != nil {
		return nil, &persistence.UserError{Op: "CreateUser", UserID: id, Err: err}
	}

	return user, nil
}

// GetUser retrieves a user document by its identifier.
func (ur *UserRepository) GetUser(_ context.Context, id string) (*models.User, error) {
	user, err := readJSON[models.User](ur.dir, id)
	if err != nil {
		return nil, &persistence.UserError{Op: "GetUser", UserID: id, Err: err}
	}

	if user == nil {
		return nil, &persistence.UserError{Op: "GetUser", UserID: id, Err: persistence.ErrUserNotFound}
	}

	return user, nil
}
