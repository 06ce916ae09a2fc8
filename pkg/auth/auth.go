// Package auth resolves the identity attached to incoming requests. The
// core packages only consume the Identity value; how it was established is
// the provider's concern.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Izguerra/workflow-builder/pkg/persistence"
)

var (
	// ErrNotAuthenticated indicates no identity is attached to the request.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidEmail indicates a signup email was empty or malformed.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrPasswordTooShort indicates a signup password below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

const minPasswordLength = 6

// Identity is the authenticated principal stamped onto saved workflows.
type Identity struct {
	UID   string
	Email string
}

// Provider establishes and resolves identities.
type Provider interface {
	// CurrentUser returns the identity attached to the request context.
	CurrentUser(ctx context.Context) (*Identity, error)

	// Signup registers a new account and returns its identity.
	Signup(ctx context.Context, email, password string) (*Identity, error)
}

type identityContextKey struct{}

// WithIdentity attaches an identity to the context. Middleware calls this
// after resolving the request's credentials.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the identity attached to the context, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*Identity)

	return identity, ok
}

// Registry is a Provider backed by the user repository. Credential
// verification belongs to the external identity provider; the registry
// only maintains the user documents that signups create.
type Registry struct {
	users persistence.UserRepository
}

// NewRegistry creates a registry over the given user repository.
func NewRegistry(users persistence.UserRepository) *Registry {
	return &Registry{users: users}
}

// CurrentUser returns the identity attached to the request context.
func (r *Registry) CurrentUser(ctx context.Context) (*Identity, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok || identity == nil {
		return nil, ErrNotAuthenticated
	}

	return identity, nil
}

// Signup registers a new account and creates its user document with
// default settings.
func (r *Registry) Signup(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	uid := uuid.NewString()

	user, err := r.users.CreateUser(ctx, uid, email)
	if err != nil {
		return nil, err
	}

	return &Identity{UID: user.ID, Email: user.Email}, nil
}

// Lookup resolves an identity by user id, verifying the user document exists.
func (r *Registry) Lookup(ctx context.Context, uid string) (*Identity, error) {
	user, err := r.users.GetUser(ctx, uid)
	if err != nil {
		if persistence.IsUserNotFound(err) {
			return nil, ErrNotAuthenticated
		}

		return nil, err
	}

	return &Identity{UID: user.ID, Email: user.Email}, nil
}
