package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

type stubSessionResolver struct {
	principal *domain.Principal
	err       error
}

func (s *stubSessionResolver) Resolve(ctx context.Context, sessionID string) (*domain.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

type stubUserLoader struct {
	user *domain.User
	err  error
}

func (s *stubUserLoader) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func sessionRequest(cookie string) *http.Request {
	r := httptest.NewRequest("GET", "/users", nil)
	if cookie != "" {
		r.AddCookie(&http.Cookie{Name: "sid", Value: cookie})
	}
	return r
}

func TestSessionStrategySuccess(t *testing.T) {
	sessions := &stubSessionResolver{principal: &domain.Principal{ID: "user-1"}}
	users := &stubUserLoader{user: &domain.User{ID: "user-1", Username: "johndoe"}}
	strategy := NewSessionStrategy(sessions, users, "sid")

	r := sessionRequest("session-abc")
	outcome := strategy.Authenticate(r.Context(), r)

	require.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "user-1", outcome.Principal.ID)
	assert.Equal(t, domain.AuthTypeSession, outcome.Principal.AuthType)
	assert.Equal(t, "johndoe", outcome.Principal.Username)
}

func TestSessionStrategyNoCookie(t *testing.T) {
	strategy := NewSessionStrategy(&stubSessionResolver{}, &stubUserLoader{}, "sid")

	r := sessionRequest("")
	outcome := strategy.Authenticate(r.Context(), r)

	require.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Equal(t, "no session", outcome.Reason)
}

func TestSessionStrategyExpired(t *testing.T) {
	sessions := &stubSessionResolver{err: apperrors.ErrNotFound}
	strategy := NewSessionStrategy(sessions, &stubUserLoader{}, "sid")

	r := sessionRequest("stale")
	outcome := strategy.Authenticate(r.Context(), r)

	require.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Equal(t, "session expired", outcome.Reason)
}

func TestSessionStrategyVanishedUser(t *testing.T) {
	sessions := &stubSessionResolver{principal: &domain.Principal{ID: "user-1"}}
	users := &stubUserLoader{err: apperrors.ErrNotFound}
	strategy := NewSessionStrategy(sessions, users, "sid")

	r := sessionRequest("session-abc")
	outcome := strategy.Authenticate(r.Context(), r)

	require.Equal(t, OutcomeError, outcome.Kind)
	assert.ErrorIs(t, outcome.Cause, apperrors.ErrUserNotFound)
}
