package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

// UserSource looks up users for credential verification.
type UserSource interface {
	// GetByIdentifier resolves a user by username, email, or phone.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
}

// PasswordVerifier checks a plaintext password against a stored digest.
type PasswordVerifier interface {
	Verify(digest, password string) bool
}

type localCredentials struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// LocalStrategy verifies a username-or-email-or-phone plus password pair
// carried in the request body.
type LocalStrategy struct {
	users    UserSource
	verifier PasswordVerifier
}

// NewLocalStrategy builds the password strategy.
func NewLocalStrategy(users UserSource, verifier PasswordVerifier) *LocalStrategy {
	return &LocalStrategy{users: users, verifier: verifier}
}

// Authenticate decodes {user, password} from the body, resolves the user by
// identifier and compares the password against the stored digest.
func (s *LocalStrategy) Authenticate(ctx context.Context, r *http.Request) Outcome {
	var creds localCredentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return Failure("missing credentials")
	}
	if creds.User == "" || creds.Password == "" {
		return Failure("missing credentials")
	}

	user, err := s.users.GetByIdentifier(ctx, creds.User)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Failure(fmt.Sprintf("User %s is invalid", creds.User))
		}
		return Error(err)
	}

	if !s.verifier.Verify(user.Password, creds.Password) {
		return Failure("Invalid password")
	}

	p := domain.UserPrincipal(user, domain.AuthTypeLocal)
	return Success(p)
}
