package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

// SessionResolver turns a session id back into the principal that
// established it.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*domain.Principal, error)
}

// UserLoader fetches the backing record for a session principal.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// SessionStrategy restores a principal from the session cookie, reloading
// the user record so stale sessions never serve deleted accounts.
type SessionStrategy struct {
	sessions   SessionResolver
	users      UserLoader
	cookieName string
}

// NewSessionStrategy builds the session cookie strategy.
func NewSessionStrategy(sessions SessionResolver, users UserLoader, cookieName string) *SessionStrategy {
	return &SessionStrategy{sessions: sessions, users: users, cookieName: cookieName}
}

// Authenticate reads the session cookie, resolves it against the store, and
// loads the full user record behind it.
func (s *SessionStrategy) Authenticate(ctx context.Context, r *http.Request) Outcome {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return Failure("no session")
	}

	principal, err := s.sessions.Resolve(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Failure("session expired")
		}
		return Error(err)
	}

	user, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrUserNotFound) {
			return Error(apperrors.UserNotFound(principal.ID))
		}
		return Error(err)
	}

	return Success(domain.UserPrincipal(user, domain.AuthTypeSession))
}
