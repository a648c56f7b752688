package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

type stubLinker struct {
	user          *domain.User
	err           error
	sessionUserID string
	profile       domain.ThirdPartyProfile
	accessToken   string
}

func (l *stubLinker) AuthorizeThirdParty(ctx context.Context, sessionUserID string, profile domain.ThirdPartyProfile, accessToken string) (*domain.User, error) {
	l.sessionUserID = sessionUserID
	l.profile = profile
	l.accessToken = accessToken
	return l.user, l.err
}

// fakeProvider serves the token and userinfo endpoints of an OAuth2 provider.
func fakeProvider(t *testing.T, userInfo map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "provider-access-token",
			"token_type":   "Bearer",
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userInfo)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newThirdPartyFixture(t *testing.T, linker *stubLinker, sessions SessionResolver, userInfo map[string]any) *ThirdPartyStrategy {
	t.Helper()

	srv := fakeProvider(t, userInfo)
	cfg := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost/twitter/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  srv.URL + "/authorize",
			TokenURL: srv.URL + "/token",
		},
	}
	return NewThirdPartyStrategy("twitter", cfg, srv.URL+"/userinfo", TwitterProfileMapper, linker, sessions, "sid")
}

func TestThirdPartyAuthenticateLinksProfile(t *testing.T) {
	linker := &stubLinker{user: &domain.User{ID: "user-1", Username: "johndoe"}}
	strategy := newThirdPartyFixture(t, linker, nil, map[string]any{
		"data": map[string]any{
			"id":                "tw-42",
			"username":          "johndoe",
			"name":              "John",
			"profile_image_url": "https://img.example/p.png",
		},
	})

	r := httptest.NewRequest("GET", "/twitter/callback?code=abc&state=xyz", nil)
	outcome := strategy.Authenticate(context.Background(), r)

	require.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "user-1", outcome.Principal.ID)
	assert.Equal(t, domain.AuthTypeOAuth, outcome.Principal.AuthType)

	assert.Equal(t, "provider-access-token", linker.accessToken)
	assert.Equal(t, "twitter", linker.profile.Provider)
	assert.Equal(t, "tw-42", linker.profile.ProviderID)
	assert.Equal(t, "johndoe", linker.profile.Username)
	assert.Equal(t, "John", linker.profile.FirstName)
	assert.Empty(t, linker.sessionUserID)
}

func TestThirdPartyAuthenticateForwardsSessionUser(t *testing.T) {
	linker := &stubLinker{user: &domain.User{ID: "user-1"}}
	sessions := &stubSessionResolver{principal: &domain.Principal{ID: "user-1"}}
	strategy := newThirdPartyFixture(t, linker, sessions, map[string]any{
		"data": map[string]any{"id": "tw-42", "username": "johndoe"},
	})

	r := httptest.NewRequest("GET", "/twitter/callback?code=abc", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: "session-1"})
	outcome := strategy.Authenticate(context.Background(), r)

	require.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "user-1", linker.sessionUserID)
}

func TestThirdPartyAuthenticateProviderDenied(t *testing.T) {
	strategy := newThirdPartyFixture(t, &stubLinker{}, nil, nil)

	r := httptest.NewRequest("GET", "/twitter/callback?error=access_denied", nil)
	outcome := strategy.Authenticate(context.Background(), r)

	require.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Contains(t, outcome.Reason, "access_denied")
}

func TestThirdPartyAuthenticateMissingCode(t *testing.T) {
	strategy := newThirdPartyFixture(t, &stubLinker{}, nil, nil)

	r := httptest.NewRequest("GET", "/twitter/callback", nil)
	outcome := strategy.Authenticate(context.Background(), r)

	require.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Equal(t, "missing authorization code", outcome.Reason)
}

func TestThirdPartyAuthenticateLinkRejected(t *testing.T) {
	linker := &stubLinker{err: apperrors.AuthorizeFailed()}
	strategy := newThirdPartyFixture(t, linker, nil, map[string]any{
		"data": map[string]any{"id": "tw-42"},
	})

	r := httptest.NewRequest("GET", "/twitter/callback?code=abc", nil)
	outcome := strategy.Authenticate(context.Background(), r)

	require.Equal(t, OutcomeError, outcome.Kind)

	var srvErr *apperrors.ServerError
	require.ErrorAs(t, outcome.Cause, &srvErr)
	assert.Equal(t, "AUTHORIZE_FAILED", srvErr.Name)
}

func TestTwitterProfileMapperFlatPayload(t *testing.T) {
	profile := TwitterProfileMapper(map[string]any{
		"id":       "tw-7",
		"username": "flat",
	})

	assert.Equal(t, "tw-7", profile.ProviderID)
	assert.Equal(t, "flat", profile.Username)
}

func TestThirdPartyAuthCodeURL(t *testing.T) {
	strategy := newThirdPartyFixture(t, &stubLinker{}, nil, nil)

	u := strategy.AuthCodeURL("state-token")
	assert.Contains(t, u, "state=state-token")
	assert.Contains(t, u, "client_id=client-id")
}
