package repository

import (
	"context"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByIdentifier retrieves a user whose username, email, or phone
	// matches the identifier.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)

	// GetByProviderID retrieves the user linked to a federated identity.
	GetByProviderID(ctx context.Context, provider, providerID string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)
}

// CredentialRepository defines the interface for credential persistence
// operations.
type CredentialRepository interface {
	// Create inserts a new credential into the store.
	Create(ctx context.Context, credential *domain.Credential) error

	// GetByID retrieves a credential by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Credential, error)

	// GetByIDAndSecret retrieves a credential only when both the id and
	// the secret match.
	GetByIDAndSecret(ctx context.Context, id, secret string) (*domain.Credential, error)

	// Delete removes a credential from the store by its identifier.
	Delete(ctx context.Context, id string) error
}
