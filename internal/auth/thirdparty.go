package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
)

// ThirdPartyLinker records a federated identity against a local user,
// merging into the session user's account when one is given.
type ThirdPartyLinker interface {
	AuthorizeThirdParty(ctx context.Context, sessionUserID string, profile domain.ThirdPartyProfile, accessToken string) (*domain.User, error)
}

// ProfileMapper converts a provider's userinfo payload into the common
// third party profile shape.
type ProfileMapper func(raw map[string]any) domain.ThirdPartyProfile

// ThirdPartyStrategy completes an OAuth2 authorization code exchange on the
// provider callback and links the reported identity to a local user.
type ThirdPartyStrategy struct {
	provider    string
	config      *oauth2.Config
	userInfoURL string
	mapProfile  ProfileMapper
	linker      ThirdPartyLinker
	sessions    SessionResolver
	cookieName  string
}

// NewThirdPartyStrategy builds a federated login strategy for one provider.
// sessions may be nil when linking into an active session is not wanted.
func NewThirdPartyStrategy(provider string, config *oauth2.Config, userInfoURL string, mapProfile ProfileMapper, linker ThirdPartyLinker, sessions SessionResolver, cookieName string) *ThirdPartyStrategy {
	return &ThirdPartyStrategy{
		provider:    provider,
		config:      config,
		userInfoURL: userInfoURL,
		mapProfile:  mapProfile,
		linker:      linker,
		sessions:    sessions,
		cookieName:  cookieName,
	}
}

// AuthCodeURL returns the provider authorization URL for the given state.
func (s *ThirdPartyStrategy) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Authenticate exchanges the callback code for an access token, fetches the
// provider profile, and resolves it to a local user.
func (s *ThirdPartyStrategy) Authenticate(ctx context.Context, r *http.Request) Outcome {
	if errCode := r.URL.Query().Get("error"); errCode != "" {
		return Failure(fmt.Sprintf("provider denied authorization: %s", errCode))
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		return Failure("missing authorization code")
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return Failure("code exchange failed")
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return Error(err)
	}

	user, err := s.linker.AuthorizeThirdParty(ctx, s.sessionUserID(ctx, r), profile, token.AccessToken)
	if err != nil {
		return Error(err)
	}

	return Success(domain.UserPrincipal(user, domain.AuthTypeOAuth))
}

// sessionUserID resolves the session cookie, if any, so an already logged in
// user gets the provider linked to their own account.
func (s *ThirdPartyStrategy) sessionUserID(ctx context.Context, r *http.Request) string {
	if s.sessions == nil {
		return ""
	}
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	principal, err := s.sessions.Resolve(ctx, cookie.Value)
	if err != nil {
		return ""
	}
	return principal.ID
}

func (s *ThirdPartyStrategy) fetchProfile(ctx context.Context, token *oauth2.Token) (domain.ThirdPartyProfile, error) {
	client := s.config.Client(ctx, token)

	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return domain.ThirdPartyProfile{}, fmt.Errorf("fetch %s profile: %w", s.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ThirdPartyProfile{}, fmt.Errorf("fetch %s profile: status %d", s.provider, resp.StatusCode)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.ThirdPartyProfile{}, fmt.Errorf("decode %s profile: %w", s.provider, err)
	}

	profile := s.mapProfile(raw)
	profile.Provider = s.provider
	return profile, nil
}

// TwitterProfileMapper reads the fields the Twitter "users/me" endpoint
// returns into the common profile shape. The payload nests the identity
// under "data".
func TwitterProfileMapper(raw map[string]any) domain.ThirdPartyProfile {
	data, _ := raw["data"].(map[string]any)
	if data == nil {
		data = raw
	}
	str := func(key string) string {
		v, _ := data[key].(string)
		return v
	}
	return domain.ThirdPartyProfile{
		ProviderID: str("id"),
		Username:   str("username"),
		Email:      str("email"),
		FirstName:  str("name"),
		Picture:    str("profile_image_url"),
	}
}
