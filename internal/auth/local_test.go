package auth

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

type stubUserSource struct {
	user *domain.User
	err  error
}

func (s *stubUserSource) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func TestLocalStrategySuccess(t *testing.T) {
	hasher := NewHasher(4)
	digest, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	users := &stubUserSource{user: &domain.User{
		ID:       "user-1",
		Username: "johndoe",
		Email:    "john@example.com",
		Password: digest,
	}}
	strategy := NewLocalStrategy(users, hasher)

	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"user":"johndoe","password":"correct-horse"}`))
	outcome := strategy.Authenticate(r.Context(), r)

	require.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "user-1", outcome.Principal.ID)
	assert.Equal(t, domain.AuthTypeLocal, outcome.Principal.AuthType)
	assert.Equal(t, "johndoe", outcome.Principal.Username)
}

func TestLocalStrategyUnknownUser(t *testing.T) {
	users := &stubUserSource{err: apperrors.ErrNotFound}
	strategy := NewLocalStrategy(users, NewHasher(4))

	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"user":"ghost","password":"whatever"}`))
	outcome := strategy.Authenticate(r.Context(), r)

	require.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Equal(t, "User ghost is invalid", outcome.Reason)
}

func TestLocalStrategyWrongPassword(t *testing.T) {
	hasher := NewHasher(4)
	digest, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	users := &stubUserSource{user: &domain.User{ID: "user-1", Password: digest}}
	strategy := NewLocalStrategy(users, hasher)

	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"user":"johndoe","password":"battery-staple"}`))
	outcome := strategy.Authenticate(r.Context(), r)

	require.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Equal(t, "Invalid password", outcome.Reason)
}

func TestLocalStrategyMalformedBody(t *testing.T) {
	strategy := NewLocalStrategy(&stubUserSource{}, NewHasher(4))

	r := httptest.NewRequest("POST", "/login", strings.NewReader(`not-json`))
	outcome := strategy.Authenticate(r.Context(), r)

	require.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Equal(t, "missing credentials", outcome.Reason)
}

func TestLocalStrategyStoreError(t *testing.T) {
	users := &stubUserSource{err: assert.AnError}
	strategy := NewLocalStrategy(users, NewHasher(4))

	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"user":"johndoe","password":"pw"}`))
	outcome := strategy.Authenticate(r.Context(), r)

	require.Equal(t, OutcomeError, outcome.Kind)
	assert.ErrorIs(t, outcome.Cause, assert.AnError)
}
