package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, phone, password, profile, tokens, provider_ids, created_at, updated_at`

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	profile, tokens, providerIDs, err := marshalUserDocs(u)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, username, email, phone, password, profile, tokens, provider_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.Phone,
		u.Password,
		profile,
		tokens,
		providerIDs,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			field, value := uniqueUserField(err, u)
			return apperrors.AlreadyExists("user", field, value)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	return r.scanUser(ctx, query, id)
}

// GetByIdentifier retrieves a user whose username, email, or phone matches
// the identifier.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR email = $1 OR phone = $1`

	return r.scanUser(ctx, query, identifier)
}

// GetByProviderID retrieves the user linked to a federated identity.
func (r *UserRepository) GetByProviderID(ctx context.Context, provider, providerID string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE provider_ids ->> $1 = $2`

	return r.scanUser(ctx, query, provider, providerID)
}

// Update modifies an existing user in the database.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	profile, tokens, providerIDs, err := marshalUserDocs(u)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET username = $1, email = $2, phone = $3, password = $4,
		    profile = $5, tokens = $6, provider_ids = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.db.Exec(ctx, query,
		u.Username,
		u.Email,
		u.Phone,
		u.Password,
		profile,
		tokens,
		providerIDs,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			field, value := uniqueUserField(err, u)
			return apperrors.AlreadyExists("user", field, value)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.UserNotFound(u.ID)
	}

	return nil
}

// List returns all users ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	if users == nil {
		users = []domain.User{}
	}

	return users, nil
}

// scanUser is a helper that executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	u, err := scanUserRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var (
		u           domain.User
		profile     []byte
		tokens      []byte
		providerIDs []byte
	)

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Phone,
		&u.Password,
		&profile,
		&tokens,
		&providerIDs,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &u.Profile); err != nil {
			return nil, fmt.Errorf("unmarshal user profile: %w", err)
		}
	}
	if len(tokens) > 0 {
		if err := json.Unmarshal(tokens, &u.Tokens); err != nil {
			return nil, fmt.Errorf("unmarshal user tokens: %w", err)
		}
	}
	if len(providerIDs) > 0 {
		if err := json.Unmarshal(providerIDs, &u.ProviderIDs); err != nil {
			return nil, fmt.Errorf("unmarshal user provider ids: %w", err)
		}
	}

	return &u, nil
}

func marshalUserDocs(u *domain.User) (profile, tokens, providerIDs []byte, err error) {
	profile, err = json.Marshal(u.Profile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal user profile: %w", err)
	}

	if u.Tokens == nil {
		tokens = []byte(`[]`)
	} else if tokens, err = json.Marshal(u.Tokens); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal user tokens: %w", err)
	}

	if u.ProviderIDs == nil {
		providerIDs = []byte(`{}`)
	} else if providerIDs, err = json.Marshal(u.ProviderIDs); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal user provider ids: %w", err)
	}

	return profile, tokens, providerIDs, nil
}

// uniqueUserField picks which unique column collided from the constraint
// name in the error text.
func uniqueUserField(err error, u *domain.User) (field, value string) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "users_email_key"):
		return "email", u.Email
	case strings.Contains(msg, "users_phone_key"):
		return "phone", u.Phone
	default:
		return "username", u.Username
	}
}
