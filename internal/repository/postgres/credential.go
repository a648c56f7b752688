package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

// CredentialRepository implements repository.CredentialRepository using PostgreSQL.
type CredentialRepository struct {
	db DB
}

// NewCredentialRepository creates a new PostgreSQL-backed credential repository.
func NewCredentialRepository(db DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

const credentialColumns = `id, user_id, credential_type, secret, scopes, expire_time, created_at`

// Create inserts a new credential into the database.
func (r *CredentialRepository) Create(ctx context.Context, c *domain.Credential) error {
	query := `
		INSERT INTO credentials (id, user_id, credential_type, secret, scopes, expire_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.UserID,
		c.Type,
		c.Secret,
		c.Scopes,
		c.ExpireTime,
		c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("credential", "id", c.ID)
		}
		return fmt.Errorf("insert credential: %w", err)
	}

	return nil
}

// GetByID retrieves a credential by its ID.
func (r *CredentialRepository) GetByID(ctx context.Context, id string) (*domain.Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE id = $1`

	return r.scanCredential(ctx, query, id)
}

// GetByIDAndSecret retrieves a credential only when both the id and the
// secret match.
func (r *CredentialRepository) GetByIDAndSecret(ctx context.Context, id, secret string) (*domain.Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE id = $1 AND secret = $2`

	return r.scanCredential(ctx, query, id, secret)
}

// Delete removes a credential from the database by its ID.
func (r *CredentialRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM credentials WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// scanCredential is a helper that executes a query expected to return a
// single credential row.
func (r *CredentialRepository) scanCredential(ctx context.Context, query string, args ...any) (*domain.Credential, error) {
	var c domain.Credential

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&c.ID,
		&c.UserID,
		&c.Type,
		&c.Secret,
		&c.Scopes,
		&c.ExpireTime,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan credential: %w", err)
	}

	return &c, nil
}
